package repository

import (
	"errors"
	"strings"

	"github.com/vcaremart/offerlink/internal/models"

	"gorm.io/gorm"
)

// CustomerListFilter 查询账务客户的过滤条件
type CustomerListFilter struct {
	ClientID string
	Search   string
	Limit    int
	Offset   int
}

// InvoiceListFilter 查询发票的过滤条件
type InvoiceListFilter struct {
	ClientID   string
	CustomerID string
	DateFrom   *models.DateOnly
	DateTo     *models.DateOnly
	Search     string
	Limit      int
	Offset     int
}

// LedgerShopListFilter 查询账务商铺的过滤条件
type LedgerShopListFilter struct {
	ClientID string
	Search   string
	Limit    int
	Offset   int
}

// CustomerRepository 账务客户数据访问接口
type CustomerRepository interface {
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
	GetByID(id uint) (*models.Customer, error)
	GetByCode(code, clientID string) (*models.Customer, error)
	FindByPhoneSuffix(phone string) (*models.Customer, error)
	ClientIDExists(clientID string) (bool, error)
	PhonesByClientID(clientID string) ([]string, error)
	Count(clientID string) (int64, error)
}

// GormCustomerRepository GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建账务客户仓库
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// List 客户列表（带搜索与分页）
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	var customers []models.Customer
	query := r.db.Model(&models.Customer{})

	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"name LIKE ? OR code LIKE ? OR phone LIKE ? OR place LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Order("code ASC").Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// GetByID 根据 ID 获取客户
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByCode 根据客户编码获取客户
func (r *GormCustomerRepository) GetByCode(code, clientID string) (*models.Customer, error) {
	var customer models.Customer
	query := r.db.Where("code = ?", code)
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if err := query.First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// FindByPhoneSuffix 按手机号后缀匹配客户（账务系统手机号可能带国家码前缀）
func (r *GormCustomerRepository) FindByPhoneSuffix(phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("phone LIKE ?", "%"+phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// ClientIDExists 客户端标识是否存在
func (r *GormCustomerRepository) ClientIDExists(clientID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Customer{}).Where("client_id = ?", clientID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PhonesByClientID 获取客户端标识下所有客户手机号
func (r *GormCustomerRepository) PhonesByClientID(clientID string) ([]string, error) {
	var phones []string
	err := r.db.Model(&models.Customer{}).
		Where("client_id = ?", clientID).
		Where("phone <> ''").
		Pluck("phone", &phones).Error
	if err != nil {
		return nil, err
	}
	return phones, nil
}

// Count 客户总数
func (r *GormCustomerRepository) Count(clientID string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Customer{})
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	err := query.Count(&count).Error
	return count, err
}

// LedgerShopRepository 账务商铺数据访问接口
type LedgerShopRepository interface {
	List(filter LedgerShopListFilter) ([]models.LedgerShop, int64, error)
	GetByID(id uint) (*models.LedgerShop, error)
	ListAll() ([]models.LedgerShop, error)
	Count(clientID string) (int64, error)
}

// GormLedgerShopRepository GORM 实现
type GormLedgerShopRepository struct {
	db *gorm.DB
}

// NewLedgerShopRepository 创建账务商铺仓库
func NewLedgerShopRepository(db *gorm.DB) *GormLedgerShopRepository {
	return &GormLedgerShopRepository{db: db}
}

// List 商铺列表（带搜索与分页）
func (r *GormLedgerShopRepository) List(filter LedgerShopListFilter) ([]models.LedgerShop, int64, error) {
	var shops []models.LedgerShop
	query := r.db.Model(&models.LedgerShop{})

	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("firm_name LIKE ? OR address LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Order("firm_name ASC").Find(&shops).Error; err != nil {
		return nil, 0, err
	}
	return shops, total, nil
}

// GetByID 根据 ID 获取商铺
func (r *GormLedgerShopRepository) GetByID(id uint) (*models.LedgerShop, error) {
	var shop models.LedgerShop
	if err := r.db.First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// ListAll 全部商铺（同步流程用）
func (r *GormLedgerShopRepository) ListAll() ([]models.LedgerShop, error) {
	var shops []models.LedgerShop
	if err := r.db.Order("id ASC").Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// Count 商铺总数
func (r *GormLedgerShopRepository) Count(clientID string) (int64, error) {
	var count int64
	query := r.db.Model(&models.LedgerShop{})
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	err := query.Count(&count).Error
	return count, err
}

// InvoiceRepository 发票数据访问接口
type InvoiceRepository interface {
	List(filter InvoiceListFilter) ([]models.Invoice, int64, error)
	GetByID(id uint) (*models.Invoice, error)
	ListByCustomer(customerID string, limit int) ([]models.Invoice, error)
	Count(clientID string) (int64, error)
}

// GormInvoiceRepository GORM 实现
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建发票仓库
func NewInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// List 发票列表（带筛选与分页）
func (r *GormInvoiceRepository) List(filter InvoiceListFilter) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	query := r.db.Model(&models.Invoice{})

	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.DateFrom != nil {
		query = query.Where("invoice_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("invoice_at <= ?", *filter.DateTo)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("customer_id LIKE ? OR serial_no LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Order("invoice_at DESC, serial_no DESC").Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// GetByID 根据 ID 获取发票
func (r *GormInvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// ListByCustomer 按客户编码获取最近发票
func (r *GormInvoiceRepository) ListByCustomer(customerID string, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	query := r.db.Where("customer_id = ?", customerID).Order("serial_no DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count 发票总数
func (r *GormInvoiceRepository) Count(clientID string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Invoice{})
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	err := query.Count(&count).Error
	return count, err
}
