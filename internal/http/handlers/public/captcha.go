package public

import (
	"github.com/vcaremart/offerlink/internal/constants"
	"github.com/vcaremart/offerlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCaptcha 获取图形验证码。
// 管理员登录场景关闭验证码时返回 enabled=false，前端据此跳过验证码输入。
func (h *Handler) GetCaptcha(c *gin.Context) {
	if !h.CaptchaService.SceneEnabled(constants.CaptchaSceneAdminLogin) {
		response.Success(c, gin.H{"enabled": false})
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to generate captcha", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
