package admin

import (
	"strconv"

	"github.com/vcaremart/offerlink/internal/http/handlers/shared"
	"github.com/vcaremart/offerlink/internal/http/response"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/queue"
	"github.com/vcaremart/offerlink/internal/repository"

	"github.com/gin-gonic/gin"
)

func ledgerPage(c *gin.Context) (page, pageSize, offset int) {
	page = queryInt(c, "page", 1)
	pageSize = queryInt(c, "page_size", 20)
	page, pageSize = shared.NormalizePagination(page, pageSize)
	return page, pageSize, (page - 1) * pageSize
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}

func queryDate(c *gin.Context, key string) *models.DateOnly {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	parsed, err := models.ParseDateOnly(value)
	if err != nil {
		return nil
	}
	return &parsed
}

// ListLedgerCustomers 账务客户列表
func (h *Handler) ListLedgerCustomers(c *gin.Context) {
	page, pageSize, offset := ledgerPage(c)
	customers, total, err := h.CustomerService.ListCustomers(c.Query("client_id"), c.Query("search"), pageSize, offset)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list customers", err)
		return
	}
	response.SuccessWithPage(c, customers, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ListLedgerShops 账务商铺列表
func (h *Handler) ListLedgerShops(c *gin.Context) {
	page, pageSize, offset := ledgerPage(c)
	shops, total, err := h.CustomerService.ListShops(c.Query("client_id"), c.Query("search"), pageSize, offset)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list shops", err)
		return
	}
	response.SuccessWithPage(c, shops, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ListLedgerInvoices 账务发票列表
func (h *Handler) ListLedgerInvoices(c *gin.Context) {
	page, pageSize, offset := ledgerPage(c)
	invoices, total, err := h.CustomerService.ListInvoices(repository.InvoiceListFilter{
		ClientID:   c.Query("client_id"),
		CustomerID: c.Query("customer_id"),
		DateFrom:   queryDate(c, "date_from"),
		DateTo:     queryDate(c, "date_to"),
		Search:     c.Query("search"),
		Limit:      pageSize,
		Offset:     offset,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list invoices", err)
		return
	}
	response.SuccessWithPage(c, invoices, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// LedgerStats 账务数据概览
func (h *Handler) LedgerStats(c *gin.Context) {
	stats, err := h.CustomerService.Stats(c.Query("client_id"))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load ledger stats", err)
		return
	}
	response.Success(c, stats)
}

// SyncLedgerShops 同步账务商铺为店主账号。
// 队列可用时异步执行，否则同步执行并返回结果。
func (h *Handler) SyncLedgerShops(c *gin.Context) {
	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueLedgerSync(queue.LedgerSyncPayload{ClientID: c.Query("client_id")}); err != nil {
			respondError(c, response.CodeInternal, "failed to enqueue ledger sync", err)
			return
		}
		response.SuccessWithMsg(c, "sync scheduled", nil)
		return
	}

	result, err := h.AccountSyncService.SyncShops()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to sync ledger shops", err)
		return
	}
	requestLog(c).Infow("ledger_sync_done",
		"created", result.Created,
		"skipped", result.Skipped,
		"missing_client_id", result.MissingClientID,
	)
	response.Success(c, result)
}
