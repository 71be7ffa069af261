// Package server assembles the HTTP router over the application services.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/handlers"
	"spendtrack/internal/middleware"
	"spendtrack/internal/services"
	"spendtrack/internal/store"
	"spendtrack/internal/validator"
)

// Services bundles the services the router dispatches to.
type Services struct {
	Users        services.UserServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Reconciler   services.ReconcileServicer
	Audit        services.AuditServicer
}

// NewServices wires the services over a store set.
func NewServices(stores *store.Set, bcryptCost, reconcileConcurrency int) Services {
	users := services.NewUserService(stores.Users, bcryptCost)
	categories := services.NewCategoryService(stores.Categories, users)
	return Services{
		Users:        users,
		Categories:   categories,
		Transactions: services.NewTransactionService(stores.Transactions, users, categories),
		Reconciler:   services.NewReconcileService(stores, reconcileConcurrency),
		Audit:        services.NewAuditService(stores.AuditLogs),
	}
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(svc Services) *gin.Engine {
	validator.Register()

	userHandler := handlers.NewUserHandler(svc.Users, svc.Reconciler, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("", userHandler.ListUsers)
	users.GET("/handle/:handle", userHandler.GetUserByHandle)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.POST("/:id/reconcile", userHandler.ReconcileUser)

	categories := v1.Group("/categories")
	categories.POST("/user/:userId", categoryHandler.CreateCategory)
	categories.GET("/user/:userId", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.RenameCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := v1.Group("/transactions")
	transactions.POST("/user/:userId", transactionHandler.CreateTransaction)
	transactions.GET("/user/:userId", transactionHandler.GetUserTransactions)
	transactions.GET("/user/:userId/kind/:kind", transactionHandler.GetUserTransactionsByType)
	transactions.GET("/user/:userId/range", transactionHandler.GetUserTransactionsByDateRange)
	transactions.GET("/user/:userId/category/:categoryId", transactionHandler.GetUserTransactionsByCategory)
	transactions.GET("/user/:userId/summary", transactionHandler.GetSummary)
	transactions.GET("/user/:userId/summary/period", transactionHandler.GetSummaryForPeriod)
	transactions.GET("/user/:userId/summary/chart", transactionHandler.GetSummaryChart)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	return router
}
