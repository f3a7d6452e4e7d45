package router

import (
	"net/http"
	"time"

	"github.com/fundhouse/internal/config"
	"github.com/fundhouse/internal/handler"
	"github.com/fundhouse/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 配置 Gin 引擎、中间件和全部路由。
func SetupRouter(cfg config.AppConfig, api *handler.API, logger *zap.Logger) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	// 访问日志与 panic 恢复
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	m := metrics.New()
	r.Use(m.Middleware())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	// 上传文件静态服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/healthz", api.HealthCheck)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	public := r.Group("/api")
	{
		public.GET("/funds", api.ListPublicFunds)
		public.GET("/funds/:slug", api.GetPublicFund)
		public.GET("/funds/:slug/prices", api.ListPublicFundPrices)
		public.GET("/fund-prices/latest", api.LatestFundPrices)
		public.GET("/fund-reports", api.ListFundReports)
		public.GET("/snapshots/money-market", api.ListMoneyMarketSnapshots)
		public.GET("/snapshots/equity", api.ListEquitySnapshots)
		public.GET("/team", api.ListPublicTeam)
		public.GET("/branches", api.ListPublicBranches)
		public.GET("/contact-settings", api.GetContactSettings)
		public.POST("/contact-messages", api.SubmitContactMessage)
		public.GET("/news", api.ListPublishedNews)
		public.GET("/news/:slug", api.GetPublishedNews)
	}

	// 后台管理路由
	admin := r.Group("/admin/api")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)
		admin.GET("/me", api.Me)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.Dashboard)

			auth.GET("/funds", api.ListFunds)
			auth.GET("/funds/:id", api.GetFund)
			auth.POST("/funds", api.CreateFund)
			auth.PUT("/funds/:id", api.UpdateFund)
			auth.DELETE("/funds/:id", api.DeleteFund)

			auth.GET("/fund-prices", api.ListFundPrices)
			auth.GET("/fund-prices/:id", api.GetFundPrice)
			auth.POST("/fund-prices", api.CreateFundPrice)
			auth.POST("/fund-prices/batch", api.CreateFundPriceBatch)
			auth.PUT("/fund-prices/:id", api.UpdateFundPrice)
			auth.DELETE("/fund-prices/:id", api.DeleteFundPrice)

			auth.GET("/reports", api.ListFundReports)
			auth.GET("/reports/:id", api.GetFundReport)
			auth.POST("/reports", api.CreateFundReport)
			auth.PUT("/reports/:id", api.UpdateFundReport)
			auth.DELETE("/reports/:id", api.DeleteFundReport)

			auth.GET("/snapshots/money-market", api.ListMoneyMarketSnapshots)
			auth.GET("/snapshots/money-market/:id", api.GetMoneyMarketSnapshot)
			auth.POST("/snapshots/money-market", api.CreateMoneyMarketSnapshot)
			auth.PUT("/snapshots/money-market/:id", api.UpdateMoneyMarketSnapshot)
			auth.DELETE("/snapshots/money-market/:id", api.DeleteMoneyMarketSnapshot)

			auth.GET("/snapshots/equity", api.ListEquitySnapshots)
			auth.GET("/snapshots/equity/:id", api.GetEquitySnapshot)
			auth.POST("/snapshots/equity", api.CreateEquitySnapshot)
			auth.PUT("/snapshots/equity/:id", api.UpdateEquitySnapshot)
			auth.DELETE("/snapshots/equity/:id", api.DeleteEquitySnapshot)

			auth.GET("/team", api.ListTeamMembers)
			auth.GET("/team/:id", api.GetTeamMember)
			auth.POST("/team", api.CreateTeamMember)
			auth.PUT("/team/reorder", api.ReorderTeamMembers)
			auth.PUT("/team/:id", api.UpdateTeamMember)
			auth.DELETE("/team/:id", api.DeleteTeamMember)

			auth.GET("/branches", api.ListBranches)
			auth.GET("/branches/:id", api.GetBranch)
			auth.POST("/branches", api.CreateBranch)
			auth.PUT("/branches/:id", api.UpdateBranch)
			auth.DELETE("/branches/:id", api.DeleteBranch)

			auth.GET("/contact-messages", api.ListContactMessages)
			auth.GET("/contact-messages/:id", api.GetContactMessage)
			auth.PUT("/contact-messages/:id/read", api.MarkContactMessageRead)
			auth.DELETE("/contact-messages/:id", api.DeleteContactMessage)
			auth.GET("/contact-settings", api.GetContactSettings)
			auth.PUT("/contact-settings", api.UpdateContactSettings)

			auth.GET("/news", api.ListNews)
			auth.GET("/news/:id", api.GetNews)
			auth.POST("/news", api.CreateNews)
			auth.PUT("/news/:id", api.UpdateNews)
			auth.DELETE("/news/:id", api.DeleteNews)
			auth.POST("/news/:id/images", api.AddNewsImage)
			auth.DELETE("/news/:id/images/:imageId", api.DeleteNewsImage)

			auth.POST("/uploads/image", api.UploadImage)
		}
	}

	return r, nil
}
