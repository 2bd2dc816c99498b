package service

import (
	"github.com/vcaremart/offerlink/internal/clock"
	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/metrics"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"
)

// OfferSyncService 存储状态同步服务。
// 在每个列表读路径执行一遍集合式条件更新，把三值存储状态拉齐到当前时刻。
// 所有更新条件都排除已持有目标状态的行（重复执行零变更），
// 并排除存储状态为 inactive 的行（人工下线优先，永不复活）。
type OfferSyncService struct {
	repo    repository.OfferRepository
	clk     clock.Clock
	metrics *metrics.Metrics
}

// NewOfferSyncService 创建同步服务；metrics 可为 nil
func NewOfferSyncService(repo repository.OfferRepository, clk clock.Clock, m *metrics.Metrics) *OfferSyncService {
	return &OfferSyncService{repo: repo, clk: clk, metrics: m}
}

// SyncResult 一次同步的行数变更
type SyncResult struct {
	Expired         int64 `json:"expired"`
	ScheduledByDate int64 `json:"scheduled_by_date"`
	ScheduledByTime int64 `json:"scheduled_by_time"`
	InactiveByTime  int64 `json:"inactive_by_time"`
	Activated       int64 `json:"activated"`
}

// Total 变更总行数
func (r SyncResult) Total() int64 {
	return r.Expired + r.ScheduledByDate + r.ScheduledByTime + r.InactiveByTime + r.Activated
}

// Synchronize 执行一次同步，返回各目标状态的变更行数
func (s *OfferSyncService) Synchronize() (SyncResult, error) {
	now := s.clk.Now()
	today := models.DateOf(now)
	nowTime := models.TimeOfDayOf(now)

	var result SyncResult
	var err error

	if result.Expired, err = s.repo.MarkExpired(today); err != nil {
		return result, err
	}
	if result.ScheduledByDate, err = s.repo.MarkScheduledBeforeStart(today); err != nil {
		return result, err
	}
	if result.ScheduledByTime, err = s.repo.MarkScheduledBeforeWindow(today, nowTime); err != nil {
		return result, err
	}
	if result.InactiveByTime, err = s.repo.MarkInactiveAfterWindow(today, nowTime); err != nil {
		return result, err
	}
	if result.Activated, err = s.repo.MarkActiveInWindow(today, nowTime); err != nil {
		return result, err
	}

	if s.metrics != nil {
		s.metrics.OfferSyncRunsTotal.Inc()
		s.metrics.RecordSync("inactive", result.Expired+result.InactiveByTime)
		s.metrics.RecordSync("scheduled", result.ScheduledByDate+result.ScheduledByTime)
		s.metrics.RecordSync("active", result.Activated)
	}
	return result, nil
}

// SynchronizeQuiet 读路径用：失败只记日志，实时计算兜底，读请求不受影响
func (s *OfferSyncService) SynchronizeQuiet() {
	result, err := s.Synchronize()
	if err != nil {
		if s.metrics != nil {
			s.metrics.OfferSyncErrorsTotal.Inc()
		}
		logger.Warnw("offer_status_sync_failed", "error", err)
		return
	}
	if result.Total() > 0 {
		logger.Debugw("offer_status_sync_applied",
			"expired", result.Expired,
			"scheduled_by_date", result.ScheduledByDate,
			"scheduled_by_time", result.ScheduledByTime,
			"inactive_by_time", result.InactiveByTime,
			"activated", result.Activated,
		)
	}
}
