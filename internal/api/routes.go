package api

import (
	"net/http"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/api/handlers"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/api/middleware"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/auth"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	engine             *gin.Engine
	cfg                *config.Configuration
	logger             *zap.Logger
	metrics            metricsSource
	authHandler        *handlers.AuthHandler
	userHandler        *handlers.UserHandler
	userTypeHandler    *handlers.UserTypeHandler
	docHandler         *handlers.DocumentHandler
	attestationHandler *handlers.AttestationHandler
	authMiddleware     *middleware.AuthMiddleware
	reqMiddleware      *middleware.RequestMiddleware
}

type metricsSource interface {
	GetCounters() map[string]int64
	GetLatencies() map[string]map[string]float64
	GetSizes() map[string]map[string]float64
}

func NewRouter(
	cfg *config.Configuration,
	logger *zap.Logger,
	metrics metricsSource,
	tokens *auth.TokenService,
	users *services.UserService,
	userTypes *services.UserTypeService,
	documents *services.DocumentService,
	attestations *services.AttestationService,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(logger)
	authMiddleware := middleware.NewAuthMiddleware(tokens, users, cfg, logger)

	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())
	engine.Use(reqMiddleware.LoginAttemptMiddleware())

	return &Router{
		engine:             engine,
		cfg:                cfg,
		logger:             logger,
		metrics:            metrics,
		authHandler:        handlers.NewAuthHandler(users, tokens, logger),
		userHandler:        handlers.NewUserHandler(users, logger),
		userTypeHandler:    handlers.NewUserTypeHandler(userTypes, logger),
		docHandler:         handlers.NewDocumentHandler(documents, logger),
		attestationHandler: handlers.NewAttestationHandler(attestations, logger),
		authMiddleware:     authMiddleware,
		reqMiddleware:      reqMiddleware,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up", "name": "e-affidavit"})
	})

	r.engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"counters":  r.metrics.GetCounters(),
			"latencies": r.metrics.GetLatencies(),
			"sizes":     r.metrics.GetSizes(),
		})
	})

	types := r.cfg.UserTypes

	public := r.engine.Group("/api")
	{
		public.POST("/auth/login", r.authHandler.Login)
		public.POST("/auth/forgot_password", r.authHandler.ForgotPassword)
		public.POST("/auth/reset_password", r.authHandler.ResetPassword)
		public.POST("/users", r.userHandler.Register)
	}

	authorized := r.engine.Group("/api")
	authorized.Use(r.authMiddleware.RequireAuth())
	{
		authorized.GET("/profile", r.userHandler.GetProfile)
		authorized.PUT("/profile", r.userHandler.UpdateProfile)

		authorized.POST("/documents", r.docHandler.Create)
		authorized.GET("/my_documents", r.docHandler.ListMine)
		authorized.GET("/documents/:id", r.docHandler.Get)
		authorized.PUT("/documents/:id", r.docHandler.Update)
		authorized.POST("/documents/:id/pay", r.docHandler.Pay)
		authorized.POST("/documents/:id/reference", r.docHandler.GenerateReference)
	}

	// Lookup by reference code is how attestors and verifiers reach documents
	// they do not own; hence the wider allow-list than attest itself.
	lookup := r.engine.Group("/api")
	lookup.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireUserTypes(types.Commissioner, types.Verifier))
	{
		lookup.GET("/search_by_ref", r.docHandler.SearchByReference)
	}

	commissioner := r.engine.Group("/api")
	commissioner.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireUserTypes(types.Commissioner))
	{
		commissioner.POST("/attest_document", r.docHandler.Attest)
		commissioner.POST("/attestations", r.attestationHandler.Upsert)
		commissioner.GET("/attestations/me", r.attestationHandler.Get)
	}

	superuser := r.engine.Group("/api")
	superuser.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireUserTypes(types.Superuser))
	{
		superuser.GET("/user_types", r.userTypeHandler.List)
		superuser.POST("/user_types", r.userTypeHandler.Create)
		superuser.PUT("/user_types/:id", r.userTypeHandler.Update)
		superuser.DELETE("/user_types/:id", r.userTypeHandler.Delete)
		superuser.GET("/user_types/:id/users", r.userTypeHandler.UsersOf)
		superuser.POST("/users/:id/activate", r.userHandler.Activate)
		superuser.POST("/users/:id/deactivate", r.userHandler.Deactivate)
		superuser.PUT("/users/:id/user_type", r.userHandler.SetUserType)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
