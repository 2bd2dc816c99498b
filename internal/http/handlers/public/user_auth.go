package public

import (
	"github.com/vcaremart/offerlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

type requestOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// RequestOTP 发送手机登录验证码。
// 只有账务客户数据里存在的手机号才会真正下发。
func (h *Handler) RequestOTP(c *gin.Context) {
	var req requestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if err := h.UserAuthService.RequestOTP(req.Phone); err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "otp sent", nil)
}

type phoneLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// Login 直接手机号登录（台账已登记的手机号）
func (h *Handler) Login(c *gin.Context) {
	var req phoneLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.LoginByPhone(req.Phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("user_login", "user_id", user.ID, "username", user.Username)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

type verifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyOTP 校验验证码并登录；首次登录自动开通账号
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.VerifyOTP(req.Phone, req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("user_login", "user_id", user.ID, "username", user.Username)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}
