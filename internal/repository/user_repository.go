package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/vcaremart/offerlink/internal/models"

	"gorm.io/gorm"
)

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Role   string
	Status string
	Phones []string
	Search string
}

// UserStatusCounts 用户状态统计
type UserStatusCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Disabled int64 `json:"disabled"`
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	List(filter UserListFilter) ([]models.User, error)
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id uint) error
	UpdateClientID(id uint, clientID string) error
	TouchLastLogin(id uint, at time.Time) error
	CountByStatus(filter UserListFilter) (UserStatusCounts, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) applyFilter(filter UserListFilter) *gorm.DB {
	query := r.db.Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Phones != nil {
		query = query.Where("phone IN ?", filter.Phones)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"username LIKE ? OR email LIKE ? OR shop_name LIKE ? OR location LIKE ?",
			like, like, like, like,
		)
	}
	return query
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, error) {
	var users []models.User
	if err := r.applyFilter(filter).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据登录名获取用户
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByPhone 根据手机号获取用户
func (r *GormUserRepository) GetByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete 删除用户
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// UpdateClientID 更新账务客户号
func (r *GormUserRepository) UpdateClientID(id uint, clientID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("client_id", clientID).Error
}

// TouchLastLogin 记录最后登录时间
func (r *GormUserRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// CountByStatus 用户状态统计
func (r *GormUserRepository) CountByStatus(filter UserListFilter) (UserStatusCounts, error) {
	var counts UserStatusCounts
	if err := r.applyFilter(filter).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	activeFilter := filter
	activeFilter.Status = "active"
	if err := r.applyFilter(activeFilter).Count(&counts.Active).Error; err != nil {
		return counts, err
	}
	disabledFilter := filter
	disabledFilter.Status = "disabled"
	if err := r.applyFilter(disabledFilter).Count(&counts.Disabled).Error; err != nil {
		return counts, err
	}
	return counts, nil
}
