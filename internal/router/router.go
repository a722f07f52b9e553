package router

import (
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/config"
	"github.com/Karthikx21/Alagarcater-sub000/internal/handler"
	"github.com/Karthikx21/Alagarcater-sub000/internal/infra"
	"github.com/Karthikx21/Alagarcater-sub000/internal/middleware"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	Orders    repository.OrderRepository
	Payments  repository.PaymentRepository
	Customers repository.CustomerRepository
	Menu      repository.MenuItemRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Orders:    repository.NewOrderRepository(db),
		Payments:  repository.NewPaymentRepository(db),
		Customers: repository.NewCustomerRepository(db),
		Menu:      repository.NewMenuItemRepository(db),
	}
}

type Services struct {
	Orders     service.OrderService
	Payments   service.PaymentService
	Financials service.FinancialService
	Customers  service.CustomerService
	Menu       service.MenuService
}

// NewServices wires the service graph. jobs may be nil; clock nil means
// wall-clock time.
func NewServices(repos Repositories, jobs service.JobDispatcher, policy service.DeletePolicy, clock service.Clock) Services {
	financials := service.NewFinancialService(repos.Orders, repos.Payments, clock)
	return Services{
		Orders:     service.NewOrderService(repos.Orders, repos.Payments, repos.Customers, repos.Menu, financials, policy, clock),
		Payments:   service.NewPaymentService(repos.Orders, repos.Payments, financials, jobs, clock),
		Financials: financials,
		Customers:  service.NewCustomerService(repos.Customers),
		Menu:       service.NewMenuService(repos.Menu),
	}
}

// New returns the configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs Services, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute))
	}

	r.GET("/health", handler.Health(db, rdb, mailCB))
	Register(r.Group("/v1"), svcs)

	// Swagger UI only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}

// Register mounts the /v1 routes on g.
func Register(g *gin.RouterGroup, svcs Services) {
	ordersH := handler.NewOrdersHandler(svcs.Orders, svcs.Financials)
	paymentsH := handler.NewPaymentsHandler(svcs.Payments, svcs.Orders)
	customersH := handler.NewCustomersHandler(svcs.Customers)
	menuH := handler.NewMenuHandler(svcs.Menu)

	customers := g.Group("/customers")
	{
		customers.POST("", customersH.Create)
		customers.GET("", customersH.List)
		customers.GET("/:id", customersH.Get)
		customers.PUT("/:id", customersH.Update)
	}

	menu := g.Group("/menu-items")
	{
		menu.POST("", menuH.Create)
		menu.GET("", menuH.List)
		menu.PUT("/:id", menuH.Update)
	}

	orders := g.Group("/orders")
	{
		orders.POST("", ordersH.Create)
		orders.GET("", ordersH.List)
		orders.GET("/:id", ordersH.Get)
		orders.PUT("/:id", ordersH.Update)
		orders.DELETE("/:id", ordersH.Delete)
		orders.GET("/:id/editable", ordersH.Editable)
		orders.PATCH("/:id/status", ordersH.UpdateStatus)
		orders.POST("/:id/payment-override", ordersH.SetPaymentOverride)
		orders.DELETE("/:id/payment-override", ordersH.ClearPaymentOverride)
		orders.POST("/:id/reconcile", ordersH.Reconcile)

		orders.POST("/:id/payments", paymentsH.Submit)
		orders.GET("/:id/payments", paymentsH.List)
	}
}
