package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/vcaremart/offerlink/internal/cache"
	"github.com/vcaremart/offerlink/internal/config"
	"github.com/vcaremart/offerlink/internal/constants"
	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/notify"
	"github.com/vcaremart/offerlink/internal/queue"
	"github.com/vcaremart/offerlink/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 终端用户认证服务。
// 登录走手机号加 WhatsApp 验证码，账号按台账客户自动开通。
type UserAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	queueClient  *queue.Client
	sender       *notify.WhatsAppSender
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, customerRepo repository.CustomerRepository, queueClient *queue.Client, sender *notify.WhatsAppSender) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		queueClient:  queueClient,
		sender:       sender,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.UserJWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Phone:    user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// RequestOTP 发送登录验证码。
// 手机号必须能在台账客户中按后缀匹配到，未匹配的号码直接拒绝。
func (s *UserAuthService) RequestOTP(phone string) error {
	normalized, err := normalizePhone(phone)
	if err != nil {
		return err
	}

	customer, err := s.customerRepo.FindByPhoneSuffix(normalized)
	if err != nil {
		return err
	}
	if customer == nil {
		return ErrPhoneNotRegistered
	}

	ctx := context.Background()
	interval := time.Duration(resolveOTPSendInterval(s.cfg.OTP)) * time.Second
	ok, err := cache.MarkOTPSent(ctx, normalized, interval)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOTPTooFrequent
	}

	code, err := randomNumericCode(resolveOTPLength(s.cfg.OTP))
	if err != nil {
		return err
	}

	ttl := time.Duration(resolveOTPExpireMinutes(s.cfg.OTP)) * time.Minute
	if err := cache.SetOTP(ctx, normalized, code, ttl); err != nil {
		return err
	}

	if s.queueClient.Enabled() {
		return s.queueClient.EnqueueOTPDelivery(queue.OTPDeliveryPayload{
			Phone: normalized,
			Code:  code,
			Name:  customer.Name,
		})
	}
	if s.sender.Enabled() {
		return s.sender.SendOTP(ctx, normalized, customer.Name, code)
	}

	// 渠道未配置时只落日志，便于本地联调
	logger.Infow("otp_channel_disabled", "phone", normalized)
	return nil
}

// VerifyOTP 校验验证码并登录，账号不存在时按台账客户自动开通
func (s *UserAuthService) VerifyOTP(phone, code string) (*models.User, string, time.Time, error) {
	normalized, err := normalizePhone(phone)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	ctx := context.Background()
	stored, err := cache.GetOTP(ctx, normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if stored == "" {
		return nil, "", time.Time{}, ErrOTPExpired
	}

	if strings.TrimSpace(code) != stored {
		maxAttempts := resolveOTPMaxAttempts(s.cfg.OTP)
		count, err := cache.IncrOTPAttempts(ctx, normalized, time.Duration(resolveOTPExpireMinutes(s.cfg.OTP))*time.Minute)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		if maxAttempts > 0 && count >= int64(maxAttempts) {
			_ = cache.DelOTP(ctx, normalized)
			return nil, "", time.Time{}, ErrOTPTooManyAttempts
		}
		return nil, "", time.Time{}, ErrOTPInvalid
	}
	_ = cache.DelOTP(ctx, normalized)

	return s.completeLogin(normalized)
}

// LoginByPhone 直接手机号登录：手机号需已在台账客户中登记
func (s *UserAuthService) LoginByPhone(phone string) (*models.User, string, time.Time, error) {
	normalized, err := normalizePhone(phone)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return s.completeLogin(normalized)
}

// completeLogin 账号解析（含自动开通）、签发 JWT、记录登录时间
func (s *UserAuthService) completeLogin(phone string) (*models.User, string, time.Time, error) {
	user, err := s.resolveOrProvisionUser(phone)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user.Status == constants.UserStatusDisabled {
		return nil, "", time.Time{}, ErrAccountDisabled
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if err := s.userRepo.TouchLastLogin(user.ID, time.Now()); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// GetUserByID 获取用户信息
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// resolveOrProvisionUser 已有账号直接返回，否则按台账客户开通
func (s *UserAuthService) resolveOrProvisionUser(phone string) (*models.User, error) {
	user, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	customer, err := s.customerRepo.FindByPhoneSuffix(phone)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrPhoneNotRegistered
	}

	randomPassword, err := randomNumericCode(12)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(randomPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		Username:     fmt.Sprintf("debtor_%s_%s", strings.TrimSpace(customer.Code), phone),
		PasswordHash: string(hash),
		Phone:        phone,
		Role:         constants.UserRoleUser,
		BusinessName: customer.Name,
		Location:     customer.Place,
		Status:       constants.UserStatusActive,
		ClientID:     customer.ClientID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Infow("user_auto_provisioned", "username", user.Username, "client_id", user.ClientID)
	return user, nil
}

// normalizePhone 归一化手机号：去掉非数字字符后取末 10 位
func normalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if len(digits) != 10 {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

func resolveOTPExpireMinutes(cfg config.OTPConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 5
	}
	return cfg.ExpireMinutes
}

func resolveOTPSendInterval(cfg config.OTPConfig) int {
	if cfg.SendIntervalSeconds <= 0 {
		return 60
	}
	return cfg.SendIntervalSeconds
}

func resolveOTPMaxAttempts(cfg config.OTPConfig) int {
	if cfg.MaxAttempts <= 0 {
		return 5
	}
	return cfg.MaxAttempts
}

func resolveOTPLength(cfg config.OTPConfig) int {
	if cfg.Length < 4 || cfg.Length > 10 {
		return 6
	}
	return cfg.Length
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String(), nil
}
