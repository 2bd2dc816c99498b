package router

import (
	"fmt"
	"strings"

	"github.com/vcaremart/offerlink/internal/cache"
	"github.com/vcaremart/offerlink/internal/config"
	adminhandlers "github.com/vcaremart/offerlink/internal/http/handlers/admin"
	publichandlers "github.com/vcaremart/offerlink/internal/http/handlers/public"
	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ol"
	}
	redisClient := cache.Client()
	otpRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:otp", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(MetricsMiddleware(c.Metrics))

	// 静态文件服务（上传的图片）- 必须放在最前面
	r.Static("/uploads", "./uploads")

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/image", publicHandler.GetCaptcha)
			public.GET("/branches", publicHandler.ListBranches)
			public.GET("/branch/:token", publicHandler.BranchLanding)
			public.GET("/discover", publicHandler.Discover)
			public.GET("/offers/:id", publicHandler.GetOffer)
		}

		// 用户认证接口（手机验证码登录）
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, otpRule, KeyByIPAndJSONField("phone")), publicHandler.Login)
			auth.POST("/request-otp", RateLimitMiddleware(redisClient, otpRule, KeyByIPAndJSONField("phone")), publicHandler.RequestOTP)
			auth.POST("/verify-otp", RateLimitMiddleware(redisClient, otpRule, KeyByIPAndJSONField("phone")), publicHandler.VerifyOTP)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Me)
			user.GET("/me/invoices", publicHandler.MyInvoices)
			user.GET("/me/points", publicHandler.MyPoints)
		}

		// 后台登录
		apiV1.POST("/admin/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.Login)

		// 后台接口（需管理员鉴权）
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			admin.GET("/profile", adminHandler.Profile)
			admin.PUT("/password", adminHandler.ChangePassword)

			admin.GET("/offers", adminHandler.ListOffers)
			admin.POST("/offers", adminHandler.CreateOffer)
			admin.GET("/offers/stats", adminHandler.OfferStats)
			admin.POST("/offers/sync", adminHandler.SyncOfferStatuses)
			admin.GET("/offers/:id", adminHandler.GetOffer)
			admin.PUT("/offers/:id", adminHandler.UpdateOffer)
			admin.DELETE("/offers/:id", adminHandler.DeleteOffer)
			admin.DELETE("/offers/:id/media/:media_id", adminHandler.DeleteOfferMedia)

			admin.GET("/branches", adminHandler.ListBranches)
			admin.POST("/branches", adminHandler.CreateBranch)
			admin.GET("/branches/stats", adminHandler.BranchStats)
			admin.GET("/branches/dropdown", adminHandler.BranchDropdown)
			admin.GET("/branches/:id", adminHandler.GetBranch)
			admin.PUT("/branches/:id", adminHandler.UpdateBranch)
			admin.DELETE("/branches/:id", adminHandler.DeleteBranch)

			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users/stats", adminHandler.UserStats)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			admin.GET("/ledger/customers", adminHandler.ListLedgerCustomers)
			admin.GET("/ledger/shops", adminHandler.ListLedgerShops)
			admin.GET("/ledger/invoices", adminHandler.ListLedgerInvoices)
			admin.GET("/ledger/stats", adminHandler.LedgerStats)
			admin.POST("/ledger/sync", adminHandler.SyncLedgerShops)
		}
	}

	return r
}
