package repository

import (
	"errors"
	"strings"

	"github.com/vcaremart/offerlink/internal/models"

	"gorm.io/gorm"
)

// OfferListFilter 查询优惠列表的过滤条件
type OfferListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   models.OfferStatus
	Search   string
	OrderBy  string
}

// DiscoverFilter 公开发现接口的过滤条件。
// BranchID、Location、City 只取其一，优先级从上到下。
type DiscoverFilter struct {
	Today    models.DateOnly
	BranchID uint
	Location string
	City     string
}

// OfferStatusCounts 按存储状态统计
type OfferStatusCounts struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Scheduled int64 `json:"scheduled"`
}

// OfferRepository 优惠数据访问接口
type OfferRepository interface {
	List(filter OfferListFilter) ([]models.Offer, int64, error)
	GetByID(id uint) (*models.Offer, error)
	Create(offer *models.Offer) error
	Update(offer *models.Offer) error
	Delete(id uint) error
	ReplaceBranches(offer *models.Offer, branches []models.Branch) error
	DeleteMedia(offerID, mediaID uint) error
	CountByStatus(userID uint) (OfferStatusCounts, error)

	ListActiveByBranch(branchID uint) ([]models.Offer, error)
	Discover(filter DiscoverFilter) ([]models.Offer, error)

	MarkExpired(today models.DateOnly) (int64, error)
	MarkScheduledBeforeStart(today models.DateOnly) (int64, error)
	MarkScheduledBeforeWindow(today models.DateOnly, now models.TimeOfDay) (int64, error)
	MarkInactiveAfterWindow(today models.DateOnly, now models.TimeOfDay) (int64, error)
	MarkActiveInWindow(today models.DateOnly, now models.TimeOfDay) (int64, error)
}

// GormOfferRepository GORM 实现
type GormOfferRepository struct {
	db *gorm.DB
}

// NewOfferRepository 创建优惠仓库
func NewOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// List 优惠列表（预加载门店与附件）
func (r *GormOfferRepository) List(filter OfferListFilter) ([]models.Offer, int64, error) {
	var offers []models.Offer
	query := r.db.Model(&models.Offer{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}

	err := query.
		Preload("Branches").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order(orderBy).
		Find(&offers).Error
	if err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

// GetByID 根据 ID 获取优惠
func (r *GormOfferRepository) GetByID(id uint) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.
		Preload("Branches").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&offer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

// Create 创建优惠
func (r *GormOfferRepository) Create(offer *models.Offer) error {
	return r.db.Create(offer).Error
}

// Update 更新优惠
func (r *GormOfferRepository) Update(offer *models.Offer) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: false}).Save(offer).Error
}

// Delete 删除优惠（清理投放关系与附件）
func (r *GormOfferRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		offer := models.Offer{ID: id}
		if err := tx.Model(&offer).Association("Branches").Clear(); err != nil {
			return err
		}
		if err := tx.Where("offer_id = ?", id).Delete(&models.OfferMedia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Offer{}, id).Error
	})
}

// ReplaceBranches 重设投放门店
func (r *GormOfferRepository) ReplaceBranches(offer *models.Offer, branches []models.Branch) error {
	return r.db.Model(offer).Association("Branches").Replace(branches)
}

// DeleteMedia 删除单个附件
func (r *GormOfferRepository) DeleteMedia(offerID, mediaID uint) error {
	result := r.db.Where("id = ? AND offer_id = ?", mediaID, offerID).Delete(&models.OfferMedia{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus 按存储状态统计；userID 为 0 时统计全部
func (r *GormOfferRepository) CountByStatus(userID uint) (OfferStatusCounts, error) {
	var counts OfferStatusCounts
	base := func() *gorm.DB {
		query := r.db.Model(&models.Offer{})
		if userID > 0 {
			query = query.Where("user_id = ?", userID)
		}
		return query
	}

	if err := base().Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := base().Where("status = ?", models.OfferStatusActive).Count(&counts.Active).Error; err != nil {
		return counts, err
	}
	if err := base().Where("status = ?", models.OfferStatusInactive).Count(&counts.Inactive).Error; err != nil {
		return counts, err
	}
	if err := base().Where("status = ?", models.OfferStatusScheduled).Count(&counts.Scheduled).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// ListActiveByBranch 获取门店下存储状态为 active 的优惠（新建在前）
func (r *GormOfferRepository) ListActiveByBranch(branchID uint) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Model(&models.Offer{}).
		Joins("JOIN offer_branches ON offer_branches.offer_id = offers.id").
		Where("offer_branches.branch_id = ?", branchID).
		Where("offers.status = ?", models.OfferStatusActive).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order("offers.created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// Discover 公开发现：日期范围内且非 inactive 的优惠，按门店条件过滤并按 ID 去重
func (r *GormOfferRepository) Discover(filter DiscoverFilter) ([]models.Offer, error) {
	var offers []models.Offer
	query := r.db.Model(&models.Offer{}).
		Distinct("offers.*").
		Joins("JOIN offer_branches ON offer_branches.offer_id = offers.id").
		Joins("JOIN branches ON branches.id = offer_branches.branch_id").
		Where("offers.valid_from <= ?", filter.Today).
		Where("offers.valid_to >= ?", filter.Today).
		Where("offers.status <> ?", models.OfferStatusInactive)

	switch {
	case filter.BranchID > 0:
		query = query.Where("branches.id = ?", filter.BranchID)
	case strings.TrimSpace(filter.Location) != "":
		query = query.Where("LOWER(branches.location) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(filter.Location))+"%")
	case strings.TrimSpace(filter.City) != "":
		query = query.Where("LOWER(branches.city) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(filter.City))+"%")
	}

	err := query.
		Preload("Branches").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order("offers.created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// MarkExpired 截止日已过的优惠批量置为 inactive。
// 条件排除已是 inactive 的行，重复执行不再产生变更。
func (r *GormOfferRepository) MarkExpired(today models.DateOnly) (int64, error) {
	result := r.db.Model(&models.Offer{}).
		Where("valid_to < ?", today).
		Where("status <> ?", models.OfferStatusInactive).
		Update("status", models.OfferStatusInactive)
	return result.RowsAffected, result.Error
}

// MarkScheduledBeforeStart 起始日未到的优惠批量置为 scheduled
func (r *GormOfferRepository) MarkScheduledBeforeStart(today models.DateOnly) (int64, error) {
	result := r.db.Model(&models.Offer{}).
		Where("valid_from > ?", today).
		Where("status NOT IN ?", []models.OfferStatus{models.OfferStatusInactive, models.OfferStatusScheduled}).
		Update("status", models.OfferStatusScheduled)
	return result.RowsAffected, result.Error
}

// MarkScheduledBeforeWindow 日期范围内、每日窗口未开启的优惠批量置为 scheduled
func (r *GormOfferRepository) MarkScheduledBeforeWindow(today models.DateOnly, now models.TimeOfDay) (int64, error) {
	result := r.db.Model(&models.Offer{}).
		Where("valid_from <= ? AND valid_to >= ?", today, today).
		Where("daily_start_time IS NOT NULL AND daily_end_time IS NOT NULL").
		Where("daily_start_time > ?", now).
		Where("status NOT IN ?", []models.OfferStatus{models.OfferStatusInactive, models.OfferStatusScheduled}).
		Update("status", models.OfferStatusScheduled)
	return result.RowsAffected, result.Error
}

// MarkInactiveAfterWindow 日期范围内、每日窗口已结束的优惠批量置为 inactive
func (r *GormOfferRepository) MarkInactiveAfterWindow(today models.DateOnly, now models.TimeOfDay) (int64, error) {
	result := r.db.Model(&models.Offer{}).
		Where("valid_from <= ? AND valid_to >= ?", today, today).
		Where("daily_start_time IS NOT NULL AND daily_end_time IS NOT NULL").
		Where("daily_end_time < ?", now).
		Where("status <> ?", models.OfferStatusInactive).
		Update("status", models.OfferStatusInactive)
	return result.RowsAffected, result.Error
}

// MarkActiveInWindow 日期范围内、窗口命中（或未配置窗口）的优惠批量置为 active
func (r *GormOfferRepository) MarkActiveInWindow(today models.DateOnly, now models.TimeOfDay) (int64, error) {
	result := r.db.Model(&models.Offer{}).
		Where("valid_from <= ? AND valid_to >= ?", today, today).
		Where("(daily_start_time IS NULL OR daily_end_time IS NULL) OR (daily_start_time <= ? AND daily_end_time >= ?)", now, now).
		Where("status NOT IN ?", []models.OfferStatus{models.OfferStatusInactive, models.OfferStatusActive}).
		Update("status", models.OfferStatusActive)
	return result.RowsAffected, result.Error
}
