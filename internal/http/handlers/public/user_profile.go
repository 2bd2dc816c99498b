package public

import (
	"strconv"

	"github.com/vcaremart/offerlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Me 当前登录用户信息
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// MyInvoices 当前用户的发票列表（最新在前）
func (h *Handler) MyInvoices(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	invoices, err := h.CustomerService.UserInvoices(user.Username, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, invoices)
}

// MyPoints 当前用户的积分（账务系统原样返回）
func (h *Handler) MyPoints(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	points, err := h.CustomerService.UserPoints(user.Username)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"points": points})
}
