package admin

import (
	"github.com/vcaremart/offerlink/internal/http/response"
	"github.com/vcaremart/offerlink/internal/service"

	"github.com/gin-gonic/gin"
)

type branchRequest struct {
	UserID     uint   `json:"user_id"`
	BranchName string `json:"branch_name" binding:"required"`
	BranchCode string `json:"branch_code"`
	Address    string `json:"address"`
	Location   string `json:"location"`
	City       string `json:"city"`
	Pincode    string `json:"pincode"`
	Phone      string `json:"phone"`
	Status     string `json:"status"`
}

func (r branchRequest) toInput() service.BranchInput {
	return service.BranchInput{
		UserID:     r.UserID,
		BranchName: r.BranchName,
		BranchCode: r.BranchCode,
		Address:    r.Address,
		Location:   r.Location,
		City:       r.City,
		Pincode:    r.Pincode,
		Phone:      r.Phone,
		Status:     r.Status,
	}
}

// ListBranches 门店列表（可按店主、状态过滤）
func (h *Handler) ListBranches(c *gin.Context) {
	views, err := h.BranchService.List(parseUintQuery(c, "user_id"), c.Query("status"))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list branches", err)
		return
	}
	response.Success(c, views)
}

// GetBranch 门店详情
func (h *Handler) GetBranch(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	view, err := h.BranchService.GetByID(id, 0)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// CreateBranch 创建门店
func (h *Handler) CreateBranch(c *gin.Context) {
	var req branchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	view, err := h.BranchService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("branch_created", "branch_id", view.ID, "user_id", view.UserID)
	response.Success(c, view)
}

// UpdateBranch 更新门店
func (h *Handler) UpdateBranch(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req branchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	view, err := h.BranchService.Update(id, 0, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("branch_updated", "branch_id", id)
	response.Success(c, view)
}

// DeleteBranch 删除门店
func (h *Handler) DeleteBranch(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.BranchService.Delete(id, 0); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("branch_deleted", "branch_id", id)
	response.SuccessWithMsg(c, "branch deleted", nil)
}

// BranchStats 门店状态统计
func (h *Handler) BranchStats(c *gin.Context) {
	counts, err := h.BranchService.Stats(parseUintQuery(c, "user_id"))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load branch stats", err)
		return
	}
	response.Success(c, counts)
}

// BranchDropdown 有效门店下拉选项
func (h *Handler) BranchDropdown(c *gin.Context) {
	items, err := h.BranchService.Dropdown(parseUintQuery(c, "user_id"))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load branch options", err)
		return
	}
	response.Success(c, items)
}
