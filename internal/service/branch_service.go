package service

import (
	"fmt"
	"strings"

	"github.com/vcaremart/offerlink/internal/constants"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"github.com/google/uuid"
)

// BranchService 门店业务服务
type BranchService struct {
	repo     repository.BranchRepository
	userRepo repository.UserRepository
	baseURL  string
}

// NewBranchService 创建门店服务
func NewBranchService(repo repository.BranchRepository, userRepo repository.UserRepository, baseURL string) *BranchService {
	return &BranchService{repo: repo, userRepo: userRepo, baseURL: strings.TrimRight(baseURL, "/")}
}

// BranchInput 创建/更新门店输入
type BranchInput struct {
	UserID     uint
	BranchName string
	BranchCode string
	Address    string
	Location   string
	City       string
	Pincode    string
	Phone      string
	Status     string
}

// BranchView 门店视图：附带扫码公开链接
type BranchView struct {
	models.Branch
	PublicLink string `json:"public_link"`
}

// PublicLink 构造门店扫码链接（前端据此渲染二维码）
func (s *BranchService) PublicLink(branch *models.Branch) string {
	return fmt.Sprintf("%s/branch/%s", s.baseURL, branch.LinkToken)
}

func (s *BranchService) buildView(branch models.Branch) BranchView {
	return BranchView{Branch: branch, PublicLink: s.PublicLink(&branch)}
}

// List 门店列表；scopeUserID 大于 0 时只看该店主的门店
func (s *BranchService) List(scopeUserID uint, status string) ([]BranchView, error) {
	branches, err := s.repo.List(repository.BranchListFilter{
		UserID: scopeUserID,
		Status: strings.TrimSpace(status),
	})
	if err != nil {
		return nil, err
	}
	views := make([]BranchView, 0, len(branches))
	for _, branch := range branches {
		views = append(views, s.buildView(branch))
	}
	return views, nil
}

// GetByID 门店详情；scopeUserID 大于 0 时校验归属
func (s *BranchService) GetByID(id, scopeUserID uint) (*BranchView, error) {
	branch, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrNotFound
	}
	if scopeUserID > 0 && branch.UserID != scopeUserID {
		return nil, ErrNotFound
	}
	view := s.buildView(*branch)
	return &view, nil
}

// Create 创建门店
func (s *BranchService) Create(input BranchInput) (*BranchView, error) {
	branch, err := s.buildEntity(input, nil)
	if err != nil {
		return nil, err
	}
	branch.LinkToken = uuid.NewString()
	if err := s.repo.Create(branch); err != nil {
		return nil, err
	}
	return s.GetByID(branch.ID, 0)
}

// Update 更新门店
func (s *BranchService) Update(id, scopeUserID uint, input BranchInput) (*BranchView, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if scopeUserID > 0 && existing.UserID != scopeUserID {
		return nil, ErrNotFound
	}

	branch, err := s.buildEntity(input, existing)
	if err != nil {
		return nil, err
	}
	branch.User = nil
	if err := s.repo.Update(branch); err != nil {
		return nil, err
	}
	return s.GetByID(id, 0)
}

// Delete 删除门店
func (s *BranchService) Delete(id, scopeUserID uint) error {
	branch, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if branch == nil {
		return ErrNotFound
	}
	if scopeUserID > 0 && branch.UserID != scopeUserID {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

// Stats 门店状态统计
func (s *BranchService) Stats(scopeUserID uint) (repository.BranchStatusCounts, error) {
	return s.repo.CountByStatus(scopeUserID)
}

// DropdownItem 下拉选项
type DropdownItem struct {
	ID         uint   `json:"id"`
	Label      string `json:"label"`
	BranchName string `json:"branch_name"`
	BranchCode string `json:"branch_code"`
	ShopName   string `json:"shop_name"`
	UserID     uint   `json:"user_id"`
	Location   string `json:"location"`
}

// Dropdown 有效门店下拉列表
func (s *BranchService) Dropdown(scopeUserID uint) ([]DropdownItem, error) {
	branches, err := s.repo.List(repository.BranchListFilter{
		UserID: scopeUserID,
		Status: constants.BranchStatusActive,
	})
	if err != nil {
		return nil, err
	}
	items := make([]DropdownItem, 0, len(branches))
	for _, branch := range branches {
		shopName := ""
		if branch.User != nil {
			shopName = branch.User.ShopName
			if shopName == "" {
				shopName = branch.User.Username
			}
		}
		items = append(items, DropdownItem{
			ID:         branch.ID,
			Label:      fmt.Sprintf("%s (%s) - %s", branch.BranchName, branch.BranchCode, shopName),
			BranchName: branch.BranchName,
			BranchCode: branch.BranchCode,
			ShopName:   shopName,
			UserID:     branch.UserID,
			Location:   branch.Location,
		})
	}
	return items, nil
}

// ListPublic 公开门店列表（可按区域/城市过滤）
func (s *BranchService) ListPublic(location, city string) ([]BranchView, error) {
	branches, err := s.repo.List(repository.BranchListFilter{
		Status:   constants.BranchStatusActive,
		Location: location,
		City:     city,
	})
	if err != nil {
		return nil, err
	}
	views := make([]BranchView, 0, len(branches))
	for _, branch := range branches {
		views = append(views, s.buildView(branch))
	}
	return views, nil
}

func (s *BranchService) buildEntity(input BranchInput, existing *models.Branch) (*models.Branch, error) {
	name := strings.TrimSpace(input.BranchName)
	if name == "" {
		return nil, ErrInvalidBranch
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	switch status {
	case "":
		status = constants.BranchStatusActive
	case constants.BranchStatusActive, constants.BranchStatusInactive:
	default:
		return nil, ErrInvalidBranch
	}

	if existing == nil {
		if input.UserID == 0 {
			return nil, ErrInvalidBranch
		}
		owner, err := s.userRepo.GetByID(input.UserID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, ErrInvalidUser
		}
		return &models.Branch{
			UserID:     input.UserID,
			BranchName: name,
			BranchCode: strings.TrimSpace(input.BranchCode),
			Address:    strings.TrimSpace(input.Address),
			Location:   strings.TrimSpace(input.Location),
			City:       strings.TrimSpace(input.City),
			Pincode:    strings.TrimSpace(input.Pincode),
			Phone:      strings.TrimSpace(input.Phone),
			Status:     status,
		}, nil
	}

	existing.BranchName = name
	existing.BranchCode = strings.TrimSpace(input.BranchCode)
	existing.Address = strings.TrimSpace(input.Address)
	existing.Location = strings.TrimSpace(input.Location)
	existing.City = strings.TrimSpace(input.City)
	existing.Pincode = strings.TrimSpace(input.Pincode)
	existing.Phone = strings.TrimSpace(input.Phone)
	existing.Status = status
	if input.UserID > 0 {
		existing.UserID = input.UserID
	}
	return existing, nil
}
