package server

import (
	"context"
	"net/http"

	"github.com/Serg2206/ssvnauka-platform/internal/admin"
	"github.com/Serg2206/ssvnauka-platform/internal/auth"
	"github.com/Serg2206/ssvnauka-platform/internal/billing"
	"github.com/Serg2206/ssvnauka-platform/internal/catalog"
	"github.com/Serg2206/ssvnauka-platform/internal/config"
	"github.com/Serg2206/ssvnauka-platform/internal/course"
	"github.com/Serg2206/ssvnauka-platform/internal/email"
	"github.com/Serg2206/ssvnauka-platform/internal/progress"
	"github.com/Serg2206/ssvnauka-platform/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	userRepo := user.NewRepository(db)
	courseRepo := course.NewRepository(db)
	progressRepo := progress.NewRepository(db)
	billingRepo := billing.NewRepository(db)

	billingClient := billing.NewClient(cfg.BillingAPIURL, cfg.BillingSecretKey)

	userService := user.NewService(userRepo, billingRepo, emailService, cfg.JWTSecret)
	courseService := course.NewService(courseRepo, progressRepo)
	progressService := progress.NewService(progressRepo, courseRepo, userRepo)
	reconciler := billing.NewReconciler(billingRepo, userRepo, emailService)

	userHandler := user.NewHandler(userService)
	catalogHandler := catalog.NewHandler(db)
	courseHandler := course.NewHandler(courseService)
	progressHandler := progress.NewHandler(progressService)
	billingHandler := billing.NewHandler(billingRepo, userRepo, billingClient, cfg.AppBaseURL)
	webhookHandler := billing.NewWebhookHandler(reconciler, cfg.BillingWebhookSecret)
	adminHandler := admin.NewHandler(db)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	router.GET("/categories", catalogHandler.ListCategories)
	router.GET("/videos/featured", catalogHandler.ListFeaturedVideos)
	router.GET("/billing/plans", billingHandler.ListPlans)
	router.POST("/billing/webhook", webhookHandler.Handle)

	// Course reads work anonymously but enrich the response for a signed-in
	// caller.
	optionalAuth := auth.OptionalAuth(cfg.JWTSecret)
	courses := router.Group("/courses")
	courses.Use(optionalAuth)
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:slug", courseHandler.Get)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.PATCH("/me/profile", userHandler.UpdateProfile)
		protected.GET("/me/dashboard", userHandler.GetDashboard)
		protected.GET("/me/subscription", billingHandler.GetMySubscription)
		protected.POST("/courses/:slug/enroll", courseHandler.Enroll)
		protected.GET("/lessons/:lessonID/progress", progressHandler.Get)
		protected.POST("/lessons/:lessonID/progress", progressHandler.Update)
		protected.POST("/billing/checkout", billingHandler.CreateCheckout)
		protected.POST("/billing/portal", billingHandler.CreatePortal)
	}

	adminGroup := router.Group("/admin")
	adminGroup.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		adminGroup.GET("/stats", adminHandler.GetStats)
		adminGroup.GET("/test-email", TestEmail(emailService))
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
