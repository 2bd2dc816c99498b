package service

import (
	"fmt"
	"strings"

	"github.com/vcaremart/offerlink/internal/constants"
	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AccountSyncService 把台账门店主数据同步为店主账号
type AccountSyncService struct {
	userRepo repository.UserRepository
	shopRepo repository.LedgerShopRepository
}

// NewAccountSyncService 创建账号同步服务
func NewAccountSyncService(userRepo repository.UserRepository, shopRepo repository.LedgerShopRepository) *AccountSyncService {
	return &AccountSyncService{userRepo: userRepo, shopRepo: shopRepo}
}

// SyncShopsResult 同步结果统计
type SyncShopsResult struct {
	Created         int `json:"created"`
	Skipped         int `json:"skipped"`
	MissingClientID int `json:"missing_client_id"`
}

// SyncShops 遍历台账门店，为每个账套开通店主账号。
// 已存在的账号跳过，缺少 client_id 的门店计数后忽略。
func (s *AccountSyncService) SyncShops() (SyncShopsResult, error) {
	var result SyncShopsResult

	shops, err := s.shopRepo.ListAll()
	if err != nil {
		return result, err
	}

	for _, shop := range shops {
		clientID := strings.TrimSpace(shop.ClientID)
		if clientID == "" {
			result.MissingClientID++
			continue
		}

		username := fmt.Sprintf("misel_%s", clientID)
		existing, err := s.userRepo.GetByUsername(username)
		if err != nil {
			return result, err
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		randomPassword, err := randomNumericCode(12)
		if err != nil {
			return result, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(randomPassword), bcrypt.DefaultCost)
		if err != nil {
			return result, err
		}

		user := &models.User{
			Username:     username,
			PasswordHash: string(hash),
			Role:         constants.UserRoleUser,
			BusinessName: strings.TrimSpace(shop.FirmName),
			ShopName:     strings.TrimSpace(shop.FirmName),
			Location:     strings.TrimSpace(shop.Address),
			Status:       constants.UserStatusActive,
			ClientID:     clientID,
		}
		if err := s.userRepo.Create(user); err != nil {
			return result, err
		}
		result.Created++
	}

	logger.Infow("ledger_shop_sync_done",
		"created", result.Created,
		"skipped", result.Skipped,
		"missing_client_id", result.MissingClientID,
	)
	return result, nil
}
