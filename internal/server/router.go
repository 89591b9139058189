// Package server assembles the HTTP surface: services, handlers, middleware
// and routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"budgettracker/internal/auth"
	"budgettracker/internal/config"
	_ "budgettracker/internal/docs" // swagger docs
	"budgettracker/internal/domain"
	"budgettracker/internal/events"
	"budgettracker/internal/handlers"
	"budgettracker/internal/lock"
	"budgettracker/internal/middleware"
	"budgettracker/internal/services"
	"budgettracker/internal/validator"
)

// Dependencies are the collaborators the router is built from. Locker,
// Publisher and Clock are optional.
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Locker    lock.Locker
	Publisher events.Publisher
	Clock     domain.Clock
}

// Services groups the service layer so that other entry points can share
// the same wiring.
type Services struct {
	JWT          *auth.JWTManager
	Users        services.UserServicer
	Tokens       services.TokenServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
	Recurring    services.RecurringServicer
	Audit        services.AuditServicer
}

// NewServices builds every service from deps.
func NewServices(deps Dependencies) *Services {
	cfg := deps.Config
	clock := deps.Clock
	if clock == nil {
		clock = domain.SystemClock{}
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}

	jwt := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpirationDur, clock)
	return &Services{
		JWT:   jwt,
		Users: services.NewUserService(deps.DB, auth.NewBcryptHasher(), clock),
		Tokens: services.NewTokenService(deps.DB, jwt, services.TokenOptions{
			RefreshTTL:       cfg.RefreshTokenTTL,
			RevokeAllOnReuse: cfg.RefreshReuseRevokesAll,
			Clock:            clock,
			Publisher:        publisher,
		}),
		Categories:   services.NewCategoryService(deps.DB, clock),
		Transactions: services.NewTransactionService(deps.DB, cfg.MaxTransactionAmount),
		Budgets:      services.NewBudgetService(deps.DB),
		Recurring: services.NewRecurringService(deps.DB, services.RecurringOptions{
			Workers:   cfg.RecurringWorkers,
			Locker:    locker,
			Publisher: publisher,
			Clock:     clock,
			MaxAmount: cfg.MaxTransactionAmount,
		}),
		Audit: services.NewAuditService(deps.DB),
	}
}

// NewRouter returns the gin engine serving the whole API.
func NewRouter(deps Dependencies) *gin.Engine {
	validator.Register()

	svc := NewServices(deps)
	clock := deps.Clock

	authHandler := handlers.NewAuthHandler(svc.Users, svc.Tokens, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Audit, clock)
	recurringHandler := handlers.NewRecurringHandler(svc.Recurring, svc.Audit, clock)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	authRequired := middleware.AuthMiddleware(svc.JWT)

	// Public auth routes, throttled per client IP
	limiter := middleware.NewRateLimiter(deps.Config.AuthRateLimit, deps.Config.AuthRateBurst)
	authGroup := v1.Group("/auth")
	authGroup.Use(limiter.Middleware())
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/logout-all", authRequired, authHandler.LogoutAll)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(authRequired)

	protected.GET("/profile", authHandler.GetProfile)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budget := protected.Group("/budget")
	budget.GET("/summary", budgetHandler.GetMonthlySummary)
	budget.PUT("/limits", budgetHandler.SetBudgetLimit)
	budget.GET("/limits", budgetHandler.GetBudgetLimits)
	budget.DELETE("/limits/:id", budgetHandler.DeleteBudgetLimit)

	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.GetRecurring)
	recurring.GET("/:id", recurringHandler.GetRecurringByID)
	recurring.POST("/:id/deactivate", recurringHandler.DeactivateRecurring)
	recurring.POST("/:id/reactivate", recurringHandler.ReactivateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)

	// Scheduler trigger, authenticated by a shared key instead of a user token
	internal := v1.Group("/internal")
	internal.Use(middleware.TriggerAuthMiddleware(deps.Config.TriggerAPIKey))
	internal.POST("/recurring/process", recurringHandler.ProcessMonth)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
