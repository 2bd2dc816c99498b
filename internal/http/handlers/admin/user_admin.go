package admin

import (
	"github.com/vcaremart/offerlink/internal/http/response"
	"github.com/vcaremart/offerlink/internal/service"

	"github.com/gin-gonic/gin"
)

type userRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	BusinessName string `json:"business_name"`
	ShopName     string `json:"shop_name"`
	Location     string `json:"location"`
	ShopLogo     string `json:"shop_logo"`
	Status       string `json:"status"`
	ClientID     string `json:"client_id"`
}

func (r userRequest) toInput() service.UserInput {
	return service.UserInput{
		Username:     r.Username,
		Password:     r.Password,
		Email:        r.Email,
		Phone:        r.Phone,
		Role:         r.Role,
		BusinessName: r.BusinessName,
		ShopName:     r.ShopName,
		Location:     r.Location,
		ShopLogo:     r.ShopLogo,
		Status:       r.Status,
		ClientID:     r.ClientID,
	}
}

// ListUsers 用户列表（可按角色、状态、关键词过滤）
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.UserService.List(c.Query("role"), c.Query("status"), c.Query("search"))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list users", err)
		return
	}
	response.Success(c, users)
}

// GetUser 用户详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// CreateUser 创建用户
func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	user, err := h.UserService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("user_created", "user_id", user.ID, "username", user.Username)
	response.Success(c, user)
}

// UpdateUser 更新用户；密码留空表示不变
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	user, err := h.UserService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("user_updated", "user_id", id)
	response.Success(c, user)
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	if id == adminID {
		respondError(c, response.CodeBadRequest, "cannot delete current account", nil)
		return
	}
	if err := h.UserService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("user_deleted", "user_id", id, "admin_id", adminID)
	response.SuccessWithMsg(c, "user deleted", nil)
}

// UserStats 用户状态统计
func (h *Handler) UserStats(c *gin.Context) {
	counts, err := h.UserService.Stats(c.Query("role"))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load user stats", err)
		return
	}
	response.Success(c, counts)
}
