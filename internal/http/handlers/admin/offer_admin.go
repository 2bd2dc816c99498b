package admin

import (
	"strconv"

	"github.com/vcaremart/offerlink/internal/http/handlers/shared"
	"github.com/vcaremart/offerlink/internal/http/response"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/service"

	"github.com/gin-gonic/gin"
)

type offerMediaRequest struct {
	FileURL   string `json:"file_url"`
	FileType  string `json:"file_type"`
	Caption   string `json:"caption"`
	SortOrder int    `json:"sort_order"`
}

type offerRequest struct {
	Title          string              `json:"title" binding:"required"`
	Description    string              `json:"description"`
	ValidFrom      models.DateOnly     `json:"valid_from" binding:"required"`
	ValidTo        models.DateOnly     `json:"valid_to" binding:"required"`
	DailyStartTime *models.TimeOfDay   `json:"daily_start_time"`
	DailyEndTime   *models.TimeOfDay   `json:"daily_end_time"`
	Status         string              `json:"status"`
	BranchIDs      []uint              `json:"branch_ids"`
	Media          []offerMediaRequest `json:"media"`
}

func (r offerRequest) toInput() service.OfferInput {
	media := make([]service.OfferMediaInput, 0, len(r.Media))
	for _, m := range r.Media {
		media = append(media, service.OfferMediaInput{
			FileURL:   m.FileURL,
			FileType:  m.FileType,
			Caption:   m.Caption,
			SortOrder: m.SortOrder,
		})
	}
	return service.OfferInput{
		Title:          r.Title,
		Description:    r.Description,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		DailyStartTime: r.DailyStartTime,
		DailyEndTime:   r.DailyEndTime,
		Status:         r.Status,
		BranchIDs:      r.BranchIDs,
		Media:          media,
	}
}

// ListOffers 优惠列表（可按归属店主、存储状态、关键词过滤）
func (h *Handler) ListOffers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)
	userID := parseUintQuery(c, "user_id")

	views, total, err := h.OfferService.ListAdmin(userID, c.Query("status"), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list offers", err)
		return
	}

	response.SuccessWithPage(c, views, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetOffer 优惠详情
func (h *Handler) GetOffer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	view, err := h.OfferService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

type createOfferRequest struct {
	offerRequest
	UserID uint `json:"user_id"`
}

// CreateOffer 创建优惠；未指定归属店主时归当前管理员
func (h *Handler) CreateOffer(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	ownerID := req.UserID
	if ownerID == 0 {
		ownerID = adminID
	}

	view, err := h.OfferService.Create(ownerID, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("offer_created", "offer_id", view.ID, "admin_id", adminID)
	response.Success(c, view)
}

// UpdateOffer 更新优惠
func (h *Handler) UpdateOffer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	view, err := h.OfferService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("offer_updated", "offer_id", id)
	response.Success(c, view)
}

// DeleteOffer 删除优惠
func (h *Handler) DeleteOffer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.OfferService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("offer_deleted", "offer_id", id)
	response.SuccessWithMsg(c, "offer deleted", nil)
}

// DeleteOfferMedia 删除优惠附件
func (h *Handler) DeleteOfferMedia(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	mediaID, err := strconv.ParseUint(c.Param("media_id"), 10, 64)
	if err != nil || mediaID == 0 {
		respondError(c, response.CodeBadRequest, "invalid media id", err)
		return
	}
	if err := h.OfferService.DeleteMedia(id, uint(mediaID)); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "media deleted", nil)
}

// SyncOfferStatuses 手动触发一次存储状态同步。
// 队列可用时交给 worker 执行，否则就地执行并返回变更行数。
func (h *Handler) SyncOfferStatuses(c *gin.Context) {
	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueOfferStatusSync(); err != nil {
			respondError(c, response.CodeInternal, "failed to enqueue status sync", err)
			return
		}
		response.SuccessWithMsg(c, "sync scheduled", nil)
		return
	}

	result, err := h.OfferSyncService.Synchronize()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to sync offer statuses", err)
		return
	}
	response.Success(c, result)
}

// OfferStats 优惠状态统计
func (h *Handler) OfferStats(c *gin.Context) {
	counts, err := h.OfferService.Stats(parseUintQuery(c, "user_id"))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load offer stats", err)
		return
	}
	response.Success(c, counts)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return 0, false
	}
	return uint(id), true
}

func parseUintQuery(c *gin.Context, key string) uint {
	value, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}
