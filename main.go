package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"proudshop/ai"
	"proudshop/auth"
	"proudshop/config"
	"proudshop/consumers"
	"proudshop/controllers"
	"proudshop/database"
	"proudshop/mailer"
	"proudshop/middlewares"
	"proudshop/rabbitmq"
	"proudshop/scraper"
	"proudshop/services"
)

func main() {
	// Money fields serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.LoadConfig()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	products := database.NewProductStore(database.DB)
	categories := database.NewCategoryStore(database.DB)
	customers := database.NewCustomerStore(database.DB)
	orders := database.NewOrderStore(database.DB)
	carts := database.NewCartStore(database.DB)
	admins := database.NewAdminStore(database.DB)
	settings := database.NewSettingStore(database.DB)
	refreshTokens := database.NewRefreshTokenStore(database.DB)
	chats := database.NewChatStore(database.DB)
	campaigns := database.NewCampaignStore(database.DB)
	stats := database.NewStatsStore(database.DB)

	// The shop stays up without the bus; events are then skipped.
	var events services.EventPublisher
	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
	} else {
		defer rmq.Close()
		if err := rmq.SetupQueues(); err != nil {
			log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
		}
		events = rmq
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTTL)
	shopMailer := mailer.NewMailer(settings, cfg)

	orderService := services.NewOrderService(orders, products, shopMailer, events, cfg.PaymentCheckDue)
	authService := services.NewAuthService(admins, refreshTokens, tokens)
	adminService := services.NewAdminService(admins)
	catalogService := services.NewCatalogService(products, categories)
	cartService := services.NewCartService(carts)
	customerService := services.NewCustomerService(customers)
	chatService := services.NewChatService(chats)
	marketingService := services.NewMarketingService(campaigns, settings)

	if rmq != nil {
		go consumers.NewOrderConsumer(orderService).Start(rmq.Channel, cfg)
	}

	orderCtrl := controllers.NewOrderController(orderService)
	productCtrl := controllers.NewProductController(catalogService)
	categoryCtrl := controllers.NewCategoryController(catalogService)
	customerCtrl := controllers.NewCustomerController(customerService)
	cartCtrl := controllers.NewCartController(cartService)
	authCtrl := controllers.NewAuthController(authService)
	adminCtrl := controllers.NewAdminController(adminService)
	settingsCtrl := controllers.NewSettingsController(settings)
	emailCtrl := controllers.NewEmailController(shopMailer)
	chatCtrl := controllers.NewChatController(chatService)
	marketingCtrl := controllers.NewMarketingController(marketingService)
	statsCtrl := controllers.NewStatsController(stats)
	aiCtrl := controllers.NewAIController(ai.NewCopywriter(settings), scraper.New(), catalogService)

	r := gin.Default()
	r.Use(middlewares.CORS(cfg.CORSOrigin))
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/dead-letter", orderCtrl.HandleDeadLetter)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authCtrl.Login)
		api.POST("/auth/register", authCtrl.Register)
		api.POST("/auth/refresh", authCtrl.Refresh)
		api.POST("/auth/logout", authCtrl.Logout)

		api.POST("/orders/", orderCtrl.Create)
		api.GET("/orders/", orderCtrl.List)
		api.GET("/orders/:id", orderCtrl.Get)
		api.GET("/orders/by-number/:orderNumber", orderCtrl.GetByNumber)

		api.GET("/products/", productCtrl.List)
		api.GET("/products/:id", productCtrl.Get)
		api.GET("/search/", productCtrl.Search)
		api.GET("/categories/", categoryCtrl.List)
		api.GET("/categories/slug/:slug", categoryCtrl.GetBySlug)

		api.GET("/cart/", cartCtrl.List)
		api.POST("/customers/", customerCtrl.Create)

		api.POST("/chat/sessions", chatCtrl.CreateSession)
		api.GET("/chat/sessions/:sessionId", chatCtrl.GetSession)
		api.POST("/chat/sessions/:sessionId/messages", chatCtrl.PostMessage)
	}

	admin := api.Group("")
	admin.Use(middlewares.RequireAdmin(tokens, admins))
	{
		admin.GET("/auth/me", authCtrl.Me)
		admin.PUT("/auth/me", authCtrl.UpdateProfile)
		admin.POST("/auth/me/change-password", authCtrl.ChangePassword)

		admin.PUT("/orders/:id/status", orderCtrl.UpdateStatus)
		admin.DELETE("/orders/:id", orderCtrl.Delete)

		admin.POST("/products/", productCtrl.Create)
		admin.PUT("/products/:id", productCtrl.Update)
		admin.DELETE("/products/:id", productCtrl.Delete)
		admin.POST("/products/ai/suggest", aiCtrl.Suggest)
		admin.POST("/products/ai/image", aiCtrl.GenerateImage)
		admin.POST("/products/ai/import", aiCtrl.Import)

		admin.GET("/categories/:id", categoryCtrl.Get)
		admin.POST("/categories/", categoryCtrl.Create)
		admin.PUT("/categories/:id", categoryCtrl.Update)
		admin.DELETE("/categories/:id", categoryCtrl.Delete)

		admin.GET("/customers/", customerCtrl.List)
		admin.POST("/cart/", cartCtrl.Add)
		admin.DELETE("/cart/:id", cartCtrl.Delete)

		admin.GET("/settings/", settingsCtrl.List)
		admin.POST("/settings/", settingsCtrl.Upsert)
		admin.GET("/openai/key", settingsCtrl.GetOpenAIKey)
		admin.POST("/openai/key", settingsCtrl.SetOpenAIKey)

		admin.GET("/emails/check", emailCtrl.Check)
		admin.POST("/emails/send", emailCtrl.Send)

		admin.GET("/chat/sessions", chatCtrl.ListSessions)

		admin.GET("/facebook/campaigns", marketingCtrl.ListCampaigns)
		admin.POST("/facebook/campaigns", marketingCtrl.CreateCampaign)

		admin.GET("/stats/", statsCtrl.Get)
		admin.GET("/stats/currency", statsCtrl.Currency)
	}

	super := admin.Group("/admins")
	super.Use(middlewares.RequireSuperAdmin())
	{
		super.GET("/", adminCtrl.List)
		super.POST("/", adminCtrl.Create)
		super.GET("/:id", adminCtrl.Get)
		super.PUT("/:id", adminCtrl.Update)
		super.DELETE("/:id", adminCtrl.Delete)
	}

	addr := ":" + cfg.HTTPPort
	log.Printf("ProudShop API starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
