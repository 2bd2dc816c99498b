package public

import (
	"strconv"
	"strings"

	"github.com/vcaremart/offerlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListBranches 公开门店列表（可按区域或城市过滤）
func (h *Handler) ListBranches(c *gin.Context) {
	views, err := h.BranchService.ListPublic(c.Query("location"), c.Query("city"))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list branches", err)
		return
	}
	response.Success(c, views)
}

// BranchLanding 扫码落地页：按门店公开 token 返回门店信息和当前生效的优惠
func (h *Handler) BranchLanding(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		respondError(c, response.CodeBadRequest, "invalid branch token", nil)
		return
	}

	branch, offers, err := h.OfferService.ActiveOffersForBranchToken(token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"branch": branch,
		"offers": offers,
	})
}

// GetOffer 优惠公开详情，附带实时计算状态
func (h *Handler) GetOffer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid offer id", err)
		return
	}

	view, err := h.OfferService.GetByID(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// Discover 发现当前生效的优惠。
// branch_id、location、city 三个过滤条件只取其一，优先级从前到后。
func (h *Handler) Discover(c *gin.Context) {
	branchID := uint(0)
	if raw := c.Query("branch_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid branch_id", err)
			return
		}
		branchID = uint(parsed)
	}

	views, err := h.OfferService.Discover(branchID, c.Query("location"), c.Query("city"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, views)
}
