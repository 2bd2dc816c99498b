package service

import (
	"strings"

	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"
)

const (
	defaultInvoiceLimit = 20
	maxInvoiceLimit     = 50
)

// CustomerService 账务数据浏览服务。
// 客户、商铺与发票均为台账同步数据，这里只读不写。
type CustomerService struct {
	customerRepo repository.CustomerRepository
	shopRepo     repository.LedgerShopRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCustomerService 创建账务数据服务
func NewCustomerService(customerRepo repository.CustomerRepository, shopRepo repository.LedgerShopRepository, invoiceRepo repository.InvoiceRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		shopRepo:     shopRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// ListCustomers 客户列表
func (s *CustomerService) ListCustomers(clientID, search string, limit, offset int) ([]models.Customer, int64, error) {
	return s.customerRepo.List(repository.CustomerListFilter{
		ClientID: strings.TrimSpace(clientID),
		Search:   search,
		Limit:    limit,
		Offset:   offset,
	})
}

// ListShops 商铺列表
func (s *CustomerService) ListShops(clientID, search string, limit, offset int) ([]models.LedgerShop, int64, error) {
	return s.shopRepo.List(repository.LedgerShopListFilter{
		ClientID: strings.TrimSpace(clientID),
		Search:   search,
		Limit:    limit,
		Offset:   offset,
	})
}

// ListInvoices 发票列表
func (s *CustomerService) ListInvoices(filter repository.InvoiceListFilter) ([]models.Invoice, int64, error) {
	return s.invoiceRepo.List(filter)
}

// UserInvoices 按登录用户名取该客户的最近发票。
// 只有自动开通的 debtor 账号能定位到客户编码。
func (s *CustomerService) UserInvoices(username string, limit int) ([]models.Invoice, error) {
	code, ok := debtorCodeFromUsername(username)
	if !ok {
		return nil, ErrNotFound
	}
	if limit <= 0 {
		limit = defaultInvoiceLimit
	}
	if limit > maxInvoiceLimit {
		limit = maxInvoiceLimit
	}
	return s.invoiceRepo.ListByCustomer(code, limit)
}

// UserPoints 按登录用户名取积分原始值，保持台账里的字符串原样返回
func (s *CustomerService) UserPoints(username string) (string, error) {
	code, ok := debtorCodeFromUsername(username)
	if !ok {
		return "", ErrNotFound
	}
	customer, err := s.customerRepo.GetByCode(code, "")
	if err != nil {
		return "", err
	}
	if customer == nil {
		return "", ErrNotFound
	}
	return customer.Points, nil
}

// LedgerStats 台账数据量统计
type LedgerStats struct {
	Customers int64 `json:"customers"`
	Shops     int64 `json:"shops"`
	Invoices  int64 `json:"invoices"`
}

// Stats 台账数据量统计
func (s *CustomerService) Stats(clientID string) (LedgerStats, error) {
	var stats LedgerStats
	var err error
	if stats.Customers, err = s.customerRepo.Count(clientID); err != nil {
		return stats, err
	}
	if stats.Shops, err = s.shopRepo.Count(clientID); err != nil {
		return stats, err
	}
	if stats.Invoices, err = s.invoiceRepo.Count(clientID); err != nil {
		return stats, err
	}
	return stats, nil
}

// debtorCodeFromUsername 从自动开通的用户名里还原客户编码。
// 用户名格式为 debtor_<code>_<phone>，编码本身可能含下划线，手机号固定在末段。
func debtorCodeFromUsername(username string) (string, bool) {
	username = strings.TrimSpace(username)
	if !strings.HasPrefix(username, "debtor_") {
		return "", false
	}
	rest := username[len("debtor_"):]
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 {
		return "", false
	}
	code := rest[:idx]
	if code == "" {
		return "", false
	}
	return code, true
}
