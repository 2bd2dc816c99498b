package admin

import (
	"github.com/vcaremart/offerlink/internal/provider"
)

// Handler 后台接口处理器
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(container *provider.Container) *Handler {
	return &Handler{Container: container}
}
