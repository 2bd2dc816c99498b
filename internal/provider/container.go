package provider

import (
	"github.com/vcaremart/offerlink/internal/cache"
	"github.com/vcaremart/offerlink/internal/clock"
	"github.com/vcaremart/offerlink/internal/config"
	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/metrics"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/notify"
	"github.com/vcaremart/offerlink/internal/queue"
	"github.com/vcaremart/offerlink/internal/repository"
	"github.com/vcaremart/offerlink/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Metrics
	Clock       clock.Clock

	// Repositories
	UserRepo       repository.UserRepository
	BranchRepo     repository.BranchRepository
	OfferRepo      repository.OfferRepository
	CustomerRepo   repository.CustomerRepository
	LedgerShopRepo repository.LedgerShopRepository
	InvoiceRepo    repository.InvoiceRepository

	// Services
	AuthService        *service.AuthService
	UserAuthService    *service.UserAuthService
	CaptchaService     *service.CaptchaService
	OfferSyncService   *service.OfferSyncService
	OfferService       *service.OfferService
	BranchService      *service.BranchService
	UserService        *service.UserService
	CustomerService    *service.CustomerService
	AccountSyncService *service.AccountSyncService

	WhatsAppSender *notify.WhatsAppSender
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	// 营业时区时钟：所有生效窗口判定共用一个时钟
	business, err := clock.NewBusiness(cfg.Server.Timezone)
	if err != nil {
		logger.Errorw("provider_init_clock_failed", "timezone", cfg.Server.Timezone, "error", err)
		business, _ = clock.NewBusiness("UTC")
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Metrics:     metrics.New(),
		Clock:       business,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.BranchRepo = repository.NewBranchRepository(db)
	c.OfferRepo = repository.NewOfferRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.LedgerShopRepo = repository.NewLedgerShopRepository(db)
	c.InvoiceRepo = repository.NewInvoiceRepository(db)
}

func (c *Container) initServices() {
	c.WhatsAppSender = notify.NewWhatsAppSender(c.Config.OTP.WhatsApp)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.CustomerRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.CustomerRepo, c.QueueClient, c.WhatsAppSender)
	c.OfferSyncService = service.NewOfferSyncService(c.OfferRepo, c.Clock, c.Metrics)
	c.OfferService = service.NewOfferService(c.OfferRepo, c.BranchRepo, c.OfferSyncService, c.Clock)
	c.BranchService = service.NewBranchService(c.BranchRepo, c.UserRepo, c.Config.Site.BaseURL)
	c.UserService = service.NewUserService(c.Config, c.UserRepo)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo, c.LedgerShopRepo, c.InvoiceRepo)
	c.AccountSyncService = service.NewAccountSyncService(c.UserRepo, c.LedgerShopRepo)
}
