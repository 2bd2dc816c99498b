package service

import (
	"strings"

	"github.com/vcaremart/offerlink/internal/config"
	"github.com/vcaremart/offerlink/internal/constants"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService 店主账号管理服务
type UserService struct {
	cfg  *config.Config
	repo repository.UserRepository
}

// NewUserService 创建账号管理服务
func NewUserService(cfg *config.Config, repo repository.UserRepository) *UserService {
	return &UserService{cfg: cfg, repo: repo}
}

// UserInput 创建/更新账号输入
type UserInput struct {
	Username     string
	Password     string
	Email        string
	Phone        string
	Role         string
	BusinessName string
	ShopName     string
	Location     string
	ShopLogo     string
	Status       string
	ClientID     string
}

// List 账号列表
func (s *UserService) List(role, status, search string) ([]models.User, error) {
	return s.repo.List(repository.UserListFilter{
		Role:   strings.TrimSpace(role),
		Status: strings.TrimSpace(status),
		Search: strings.TrimSpace(search),
	})
}

// GetByID 账号详情
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Create 创建账号
func (s *UserService) Create(input UserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidUser
	}

	existing, err := s.repo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInvalidUser
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role, err := normalizeRole(input.Role)
	if err != nil {
		return nil, err
	}
	status, err := normalizeUserStatus(input.Status)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         role,
		BusinessName: strings.TrimSpace(input.BusinessName),
		ShopName:     strings.TrimSpace(input.ShopName),
		Location:     strings.TrimSpace(input.Location),
		ShopLogo:     strings.TrimSpace(input.ShopLogo),
		Status:       status,
		ClientID:     strings.TrimSpace(input.ClientID),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update 更新账号。密码留空表示不修改。
func (s *UserService) Update(id uint, input UserInput) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if password := strings.TrimSpace(input.Password); password != "" {
		if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if role := strings.TrimSpace(input.Role); role != "" {
		normalized, err := normalizeRole(role)
		if err != nil {
			return nil, err
		}
		user.Role = normalized
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		normalized, err := normalizeUserStatus(status)
		if err != nil {
			return nil, err
		}
		user.Status = normalized
	}

	user.Email = strings.TrimSpace(input.Email)
	user.Phone = strings.TrimSpace(input.Phone)
	user.BusinessName = strings.TrimSpace(input.BusinessName)
	user.ShopName = strings.TrimSpace(input.ShopName)
	user.Location = strings.TrimSpace(input.Location)
	user.ShopLogo = strings.TrimSpace(input.ShopLogo)
	user.ClientID = strings.TrimSpace(input.ClientID)

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 删除账号
func (s *UserService) Delete(id uint) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

// Stats 账号状态统计
func (s *UserService) Stats(role string) (repository.UserStatusCounts, error) {
	return s.repo.CountByStatus(repository.UserListFilter{Role: strings.TrimSpace(role)})
}

func normalizeRole(role string) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case "":
		return constants.UserRoleUser, nil
	case constants.UserRoleAdmin, constants.UserRoleUser:
		return role, nil
	default:
		return "", ErrInvalidUser
	}
}

func normalizeUserStatus(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "":
		return constants.UserStatusActive, nil
	case constants.UserStatusActive, constants.UserStatusDisabled:
		return status, nil
	default:
		return "", ErrInvalidUser
	}
}
