package router

import (
	"time"

	"phoneshop/internal/config"
	"phoneshop/internal/handler"
	"phoneshop/internal/infra"
	"phoneshop/internal/middleware"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"
	"phoneshop/internal/service"
	"phoneshop/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Cfg        *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Dispatcher *worker.Dispatcher
	Receipts   *infra.ReceiptGenerator
}

// New builds the engine: repositories → services → handlers → routes.
func New(d Deps) *gin.Engine {
	if d.Cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	users := repository.NewUserRepository(d.DB)
	products := repository.NewProductRepository(d.DB)
	imeis := repository.NewIMEIRepository(d.DB)
	movements := repository.NewStockMovementRepository(d.DB)
	suppliers := repository.NewSupplierRepository(d.DB)
	customers := repository.NewCustomerRepository(d.DB)
	sales := repository.NewSaleRepository(d.DB)
	purchases := repository.NewPurchaseRepository(d.DB)
	installments := repository.NewInstallmentRepository(d.DB)
	repairs := repository.NewRepairRepository(d.DB)
	tradeIns := repository.NewTradeInRepository(d.DB)
	warranties := repository.NewWarrantyRepository(d.DB)
	expenses := repository.NewExpenseRepository(d.DB)
	reports := repository.NewReportRepository(d.DB)

	// Services
	ledger := service.NewLedgerService(products, imeis, movements)
	priceCache := infra.NewPriceCache(d.Redis)

	authSvc := service.NewAuthService(users, d.Cfg.JWTSecret, d.Cfg.JWTExpirationHours, d.Cfg.JWTRefreshHours)
	productSvc := service.NewProductService(products, movements, ledger, priceCache)
	imeiSvc := service.NewIMEIService(imeis, products)
	contactSvc := service.NewContactService(suppliers, customers)
	saleSvc := service.NewSaleService(sales, products, imeis, ledger, d.Dispatcher, d.Receipts)
	purchaseSvc := service.NewPurchaseService(purchases, products, suppliers, ledger)
	installmentSvc := service.NewInstallmentService(installments, sales)
	repairSvc := service.NewRepairService(repairs, customers)
	tradeInSvc := service.NewTradeInService(tradeIns, customers, products, imeis, ledger)
	warrantySvc := service.NewWarrantyService(warranties, sales)
	expenseSvc := service.NewExpenseService(expenses)
	reportSvc := service.NewReportService(reports, products, expenses)

	// Handlers
	healthH := handler.NewHealthHandler(d.DB, d.Redis)
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	imeiH := handler.NewIMEIHandler(imeiSvc)
	contactH := handler.NewContactHandler(contactSvc)
	saleH := handler.NewSaleHandler(saleSvc, d.Receipts)
	purchaseH := handler.NewPurchaseHandler(purchaseSvc)
	installmentH := handler.NewInstallmentHandler(installmentSvc)
	repairH := handler.NewRepairHandler(repairSvc)
	tradeInH := handler.NewTradeInHandler(tradeInSvc)
	warrantyH := handler.NewWarrantyHandler(warrantySvc)
	expenseH := handler.NewExpenseHandler(expenseSvc)
	reportH := handler.NewReportHandler(reportSvc)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
	)

	r.GET("/health", healthH.Check)

	if d.Cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Public kiosk lookup, rate limited.
	priceLimiter := middleware.NewRateLimiter(30, time.Minute)
	r.GET("/price-check/:barcode", priceLimiter.Middleware(), productH.PriceCheck)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Everything below requires a valid access token.
	authed := api.Group("", middleware.JWTAuth(authSvc))

	staff := authed.Group("") // any role
	manager := authed.Group("", middleware.RequireRole(model.RoleManager, model.RoleAdmin))
	admin := authed.Group("", middleware.RequireRole(model.RoleAdmin))

	// Users: admin only
	usersG := admin.Group("/users")
	{
		usersG.POST("", authH.CreateUser)
		usersG.GET("", authH.ListUsers)
		usersG.PUT("/:id", authH.UpdateUser)
		usersG.DELETE("/:id", authH.DeactivateUser)
		usersG.POST("/:id/reactivate", authH.ReactivateUser)
	}

	// Products: reads for all staff, writes for manager+
	staff.GET("/products", productH.List)
	staff.GET("/products/:id", productH.Get)
	staff.GET("/products/:id/movements", productH.Movements)
	staff.GET("/products/low-stock", productH.LowStock)
	manager.POST("/products", productH.Create)
	manager.PUT("/products/:id", productH.Update)
	manager.DELETE("/products/:id", productH.Deactivate)
	manager.POST("/products/:id/reactivate", productH.Reactivate)
	manager.POST("/products/:id/adjust-stock", productH.AdjustStock)
	admin.POST("/products/import", productH.Import)

	// IMEIs
	staff.GET("/imeis", imeiH.List)
	staff.GET("/imeis/:id", imeiH.Get)
	staff.GET("/imeis/lookup/:imei", imeiH.Lookup)
	manager.POST("/imeis", imeiH.Register)
	manager.PUT("/imeis/:id/status", imeiH.UpdateStatus)

	// Suppliers: manager+
	manager.POST("/suppliers", contactH.CreateSupplier)
	manager.GET("/suppliers", contactH.ListSuppliers)
	manager.GET("/suppliers/:id", contactH.GetSupplier)
	manager.PUT("/suppliers/:id", contactH.UpdateSupplier)
	manager.DELETE("/suppliers/:id", contactH.DeactivateSupplier)

	// Customers: all staff
	staff.POST("/customers", contactH.CreateCustomer)
	staff.GET("/customers", contactH.ListCustomers)
	staff.GET("/customers/:id", contactH.GetCustomer)
	staff.PUT("/customers/:id", contactH.UpdateCustomer)
	manager.DELETE("/customers/:id", contactH.DeleteCustomer)

	// Sales: cashiers sell; voids and refunds need manager+
	staff.POST("/sales", saleH.Create)
	staff.GET("/sales", saleH.List)
	staff.GET("/sales/:id", saleH.Get)
	staff.GET("/sales/:id/receipt", saleH.Receipt)
	manager.POST("/sales/:id/void", saleH.Void)
	manager.POST("/sales/:id/refund", saleH.Refund)

	// Purchases: manager+
	manager.POST("/purchases", purchaseH.Create)
	manager.GET("/purchases", purchaseH.List)
	manager.GET("/purchases/:id", purchaseH.Get)
	manager.POST("/purchases/:id/receive", purchaseH.Receive)
	manager.POST("/purchases/:id/cancel", purchaseH.Cancel)
	manager.POST("/purchases/:id/payments", purchaseH.AddPayment)
	admin.DELETE("/purchases/:id", purchaseH.Delete)

	// Installments
	staff.POST("/installments", installmentH.Create)
	staff.GET("/installments", installmentH.List)
	staff.GET("/installments/:id", installmentH.Get)
	staff.POST("/installments/:id/payments", installmentH.AddPayment)
	manager.POST("/installments/:id/default", installmentH.MarkDefaulted)

	// Repairs
	staff.POST("/repairs", repairH.Create)
	staff.GET("/repairs", repairH.List)
	staff.GET("/repairs/:id", repairH.Get)
	staff.PUT("/repairs/:id/status", repairH.UpdateStatus)

	// Trade-ins: accepting money needs manager+
	staff.POST("/trade-ins", tradeInH.Create)
	staff.GET("/trade-ins", tradeInH.List)
	staff.GET("/trade-ins/:id", tradeInH.Get)
	manager.POST("/trade-ins/:id/accept", tradeInH.Accept)
	manager.POST("/trade-ins/:id/reject", tradeInH.Reject)
	manager.POST("/trade-ins/:id/resold", tradeInH.MarkResold)

	// Warranties
	staff.POST("/warranties", warrantyH.Create)
	staff.GET("/warranties", warrantyH.List)
	staff.GET("/warranties/:id", warrantyH.Get)
	manager.PUT("/warranties/:id/status", warrantyH.UpdateStatus)

	// Expenses: manager+
	manager.POST("/expenses", expenseH.Create)
	manager.GET("/expenses", expenseH.List)
	manager.DELETE("/expenses/:id", expenseH.Delete)

	// Reports: manager+
	manager.GET("/reports/daily-sales", reportH.DailySales)
	manager.GET("/reports/stock-alerts", reportH.StockAlerts)
	manager.GET("/reports/expenses", reportH.ExpenseSummary)

	return r
}
