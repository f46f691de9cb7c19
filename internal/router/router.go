package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/config"
	"github.com/park1112/next-snp-management-sub002/internal/app/controller"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/middleware"
)

// Controllers 라우터에 연결할 컨트롤러 묶음
type Controllers struct {
	Auth      *controller.AuthController
	Category  *controller.CategoryController
	Schedule  *controller.ScheduleController
	Contract  *controller.ContractController
	Payment   *controller.PaymentController
	Directory *controller.DirectoryController
	Lookup    *controller.LookupController
	Dashboard *controller.DashboardController
	Upload    *controller.UploadController
	Events    *controller.EventsController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(controllers Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range allowedOrigins {
		if o == "*" {
			// credentials 와 * 는 함께 쓸 수 없으므로 요청 origin 을 그대로 허용
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	return cfg
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if len(r.config.CORS.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "SNP management API is running",
		})
	})

	v1 := router.Group("/api/v1")
	ctl := r.controllers

	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
		auth.POST("/refresh", ctl.Auth.Refresh)
		auth.POST("/logout", r.authMiddleware.Authenticate(), ctl.Auth.Logout)
		auth.GET("/me", r.authMiddleware.Authenticate(), ctl.Auth.GetMe)
		auth.PUT("/me", r.authMiddleware.Authenticate(), ctl.Auth.UpdateMe)
	}

	// 이하 관리 기능은 관리자/작업 관리자만
	staff := v1.Group("",
		r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleManager),
	)
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)

	categories := staff.Group("/categories")
	{
		categories.GET("", ctl.Category.List)
		categories.POST("", ctl.Category.Create)
		categories.PUT("/reorder", ctl.Category.Reorder)
		categories.GET("/:id", ctl.Category.Get)
		categories.PATCH("/:id", ctl.Category.Update)
		categories.DELETE("/:id", ctl.Category.Delete)
		categories.PUT("/:id/next", ctl.Category.SetNext)
		categories.POST("/:id/move", ctl.Category.Move)
		categories.GET("/:id/chain", ctl.Category.Chain)
		categories.POST("/:id/rates", ctl.Category.AddRate)
		categories.PATCH("/:id/rates/:rateId", ctl.Category.UpdateRate)
		categories.DELETE("/:id/rates/:rateId", ctl.Category.RemoveRate)
	}

	schedules := staff.Group("/schedules")
	{
		schedules.GET("", ctl.Schedule.List)
		schedules.POST("", ctl.Schedule.Create)
		schedules.GET("/:id", ctl.Schedule.Get)
		schedules.PATCH("/:id", ctl.Schedule.Update)
		schedules.DELETE("/:id", ctl.Schedule.Delete)
		schedules.POST("/:id/stage", ctl.Schedule.AdvanceStage)
		schedules.PUT("/:id/completion", ctl.Schedule.RecordCompletion)
		schedules.POST("/:id/additional-settlements", ctl.Schedule.AddAdditionalSettlement)
	}

	contracts := staff.Group("/contracts")
	{
		contracts.GET("", ctl.Contract.List)
		contracts.POST("", ctl.Contract.Create)
		contracts.GET("/due", ctl.Contract.Due)
		contracts.GET("/:id", ctl.Contract.Get)
		contracts.PATCH("/:id", ctl.Contract.Update)
		contracts.DELETE("/:id", ctl.Contract.Delete)
		contracts.GET("/:id/summary", ctl.Contract.Summary)
		contracts.PUT("/:id/status", ctl.Contract.SetStatus)
		contracts.POST("/:id/lines/pay", ctl.Contract.MarkLinePaid)
		contracts.POST("/:id/lines/schedule", ctl.Contract.MarkLineScheduled)
	}

	payments := staff.Group("/payments")
	{
		payments.GET("", ctl.Payment.List)
		payments.POST("", ctl.Payment.Create)
		payments.GET("/:id", ctl.Payment.Get)
		payments.DELETE("/:id", ctl.Payment.Delete)
		payments.PUT("/:id/status", ctl.Payment.UpdateStatus)
		payments.PUT("/:id/receipt", ctl.Payment.AttachReceipt)
		payments.GET("/:id/statement", ctl.Payment.Statement)
	}

	farmers := staff.Group("/farmers")
	{
		farmers.GET("", ctl.Directory.ListFarmers)
		farmers.POST("", ctl.Directory.CreateFarmer)
		farmers.GET("/:id", ctl.Directory.GetFarmer)
		farmers.PUT("/:id", ctl.Directory.UpdateFarmer)
		farmers.DELETE("/:id", ctl.Directory.DeleteFarmer)
	}

	fields := staff.Group("/fields")
	{
		fields.GET("", ctl.Directory.ListFields)
		fields.POST("", ctl.Directory.CreateField)
		fields.GET("/:id", ctl.Directory.GetField)
		fields.PUT("/:id", ctl.Directory.UpdateField)
		fields.DELETE("/:id", ctl.Directory.DeleteField)
	}

	workers := staff.Group("/workers")
	{
		workers.GET("", ctl.Directory.ListWorkers)
		workers.POST("", ctl.Directory.CreateWorker)
		workers.GET("/:id", ctl.Directory.GetWorker)
		workers.PUT("/:id", ctl.Directory.UpdateWorker)
		workers.DELETE("/:id", ctl.Directory.DeleteWorker)
	}

	for path, kind := range map[string]model.LookupKind{
		"/payment-groups": model.LookupPaymentGroup,
		"/crop-types":     model.LookupCropType,
		"/work-types":     model.LookupWorkType,
	} {
		group := staff.Group(path)
		group.GET("", ctl.Lookup.List(kind))
		group.POST("", ctl.Lookup.Create(kind))
		group.GET("/:id", ctl.Lookup.Get(kind))
		group.PUT("/:id", ctl.Lookup.Update(kind))
		group.DELETE("/:id", adminOnly, ctl.Lookup.Delete(kind))
	}

	staff.GET("/lookups", ctl.Lookup.Snapshot)
	staff.POST("/lookups/refresh", ctl.Lookup.Refresh)
	staff.GET("/dashboard", ctl.Dashboard.Counts)
	staff.POST("/uploads/receipt", ctl.Upload.ReceiptURL)
	staff.GET("/ws", ctl.Events.WebSocketHandler)

	return router
}
