package admin

import (
	"github.com/vcaremart/offerlink/internal/constants"
	"github.com/vcaremart/offerlink/internal/http/handlers/shared"
	"github.com/vcaremart/offerlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	shared.CaptchaPayloadRequest
}

// Login 管理员登录。
// 账号必须是管理员角色，且 client_id 要能在账务客户数据中找到。
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if err := h.CaptchaService.Verify(constants.CaptchaSceneAdminLogin, req.ToServicePayload()); err != nil {
		respondServiceError(c, err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.ClientID, req.Username, req.Password)
	if err != nil {
		requestLog(c).Warnw("admin_login_failed", "username", req.Username, "error", err)
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("admin_login", "admin_id", user.ID, "username", user.Username)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 修改当前管理员密码
func (h *Handler) ChangePassword(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if err := h.AuthService.ChangePassword(adminID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("admin_password_changed", "admin_id", adminID)
	response.SuccessWithMsg(c, "password updated", nil)
}

// Profile 当前管理员信息
func (h *Handler) Profile(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	user, err := h.UserService.GetByID(adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}
