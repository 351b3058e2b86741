package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/config"
	"github.com/openshelf/librarium/internal/database"
	"github.com/openshelf/librarium/internal/library"
)

// RouterConfig carries the dependencies of the HTTP layer.
type RouterConfig struct {
	Database       *database.Database
	Service        *library.Service
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.AuthConfig.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// Session must load before the auth middleware resolves the caller
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		router.Use(auth.NewMiddleware(cfg.AuthService, cfg.SessionManager).Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService, cfg.SessionManager)
	booksController := NewBooksController(cfg.Service)
	categoriesController := NewCategoriesController(cfg.Service)
	transactionsController := NewTransactionsController(cfg.Service)
	usersController := NewUsersController(cfg.Service, cfg.AuthConfig.BcryptCost)
	adminController := NewAdminController(cfg.Service)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authController.Register)
	authRoutes.POST("/signin", authController.SignIn)
	authRoutes.POST("/signout", authController.SignOut)

	books := api.Group("/books")
	books.GET("/allbooks", booksController.GetAllBooks)
	books.GET("/getbook/:id", booksController.GetBookByID)
	books.GET("", booksController.GetBooksByCategory)
	books.POST("/addbook", booksController.AddBook)
	books.PUT("/updatebook/:id", booksController.UpdateBook)
	books.DELETE("/removebook/:id", booksController.RemoveBook)

	categories := api.Group("/categories")
	categories.GET("/allcategories", categoriesController.GetAllCategories)
	categories.POST("/addcategory", categoriesController.AddCategory)
	categories.DELETE("/removecategory/:id", categoriesController.RemoveCategory)

	transactions := api.Group("/transactions")
	transactions.POST("/add-transaction", transactionsController.AddTransaction)
	transactions.GET("/all-transactions", transactionsController.GetAllTransactions)
	transactions.GET("/borrower/:id", transactionsController.GetTransactionsForBorrower)
	transactions.PUT("/update-transaction/:id", transactionsController.UpdateTransaction)
	transactions.PUT("/return-transaction/:id", transactionsController.ReturnTransaction)
	transactions.DELETE("/remove-transaction/:id", transactionsController.RemoveTransaction)

	users := api.Group("/users")
	users.GET("/getuser/:id", usersController.GetUserByID)
	users.GET("/allmembers", usersController.GetAllMembers)
	users.PUT("/updateuser/:id", usersController.UpdateUser)
	users.PUT("/:id/move-to-activetransactions", usersController.MoveToActiveTransactions)
	users.PUT("/:id/move-to-prevtransactions", usersController.MoveToPrevTransactions)
	users.DELETE("/deleteuser/:id", usersController.DeleteUser)

	admin := api.Group("/admin")
	admin.POST("/reconcile", adminController.Reconcile)

	return router
}
