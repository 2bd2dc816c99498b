package repository

import (
	"errors"
	"strings"

	"github.com/vcaremart/offerlink/internal/models"

	"gorm.io/gorm"
)

// BranchListFilter 查询门店列表的过滤条件
type BranchListFilter struct {
	UserID   uint
	Status   string
	Location string
	City     string
	OrderBy  string
}

// BranchStatusCounts 门店状态统计
type BranchStatusCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// BranchRepository 门店数据访问接口
type BranchRepository interface {
	List(filter BranchListFilter) ([]models.Branch, error)
	GetByID(id uint) (*models.Branch, error)
	GetByLinkToken(token string) (*models.Branch, error)
	Create(branch *models.Branch) error
	Update(branch *models.Branch) error
	Delete(id uint) error
	CountByStatus(userID uint) (BranchStatusCounts, error)
}

// GormBranchRepository GORM 实现
type GormBranchRepository struct {
	db *gorm.DB
}

// NewBranchRepository 创建门店仓库
func NewBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// List 门店列表（预加载店主）
func (r *GormBranchRepository) List(filter BranchListFilter) ([]models.Branch, error) {
	var branches []models.Branch
	query := r.db.Model(&models.Branch{}).Preload("User")

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "branch_name ASC"
	}

	if err := query.Order(orderBy).Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// GetByID 根据 ID 获取门店
func (r *GormBranchRepository) GetByID(id uint) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.Preload("User").First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

// GetByLinkToken 根据公开链接 token 获取门店
func (r *GormBranchRepository) GetByLinkToken(token string) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.Preload("User").Where("link_token = ?", token).First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

// Create 创建门店
func (r *GormBranchRepository) Create(branch *models.Branch) error {
	return r.db.Create(branch).Error
}

// Update 更新门店
func (r *GormBranchRepository) Update(branch *models.Branch) error {
	return r.db.Save(branch).Error
}

// Delete 删除门店（清理投放关系）
func (r *GormBranchRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		branch := models.Branch{ID: id}
		if err := tx.Model(&branch).Association("Offers").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Branch{}, id).Error
	})
}

// CountByStatus 门店状态统计；userID 为 0 时统计全部
func (r *GormBranchRepository) CountByStatus(userID uint) (BranchStatusCounts, error) {
	var counts BranchStatusCounts
	base := func() *gorm.DB {
		query := r.db.Model(&models.Branch{})
		if userID > 0 {
			query = query.Where("user_id = ?", userID)
		}
		return query
	}

	if err := base().Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := base().Where("status = ?", "active").Count(&counts.Active).Error; err != nil {
		return counts, err
	}
	if err := base().Where("status = ?", "inactive").Count(&counts.Inactive).Error; err != nil {
		return counts, err
	}
	return counts, nil
}
