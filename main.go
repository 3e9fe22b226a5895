package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/trendyware/storefront-api/cache"
	"github.com/trendyware/storefront-api/config"
	cartControllers "github.com/trendyware/storefront-api/controllers/cart"
	orderControllers "github.com/trendyware/storefront-api/controllers/order"
	paymentControllers "github.com/trendyware/storefront-api/controllers/payment"
	walletControllers "github.com/trendyware/storefront-api/controllers/wallet"
	"github.com/trendyware/storefront-api/middleware"
	"github.com/trendyware/storefront-api/models"
	"github.com/trendyware/storefront-api/notify"
	"github.com/trendyware/storefront-api/routes"
	"github.com/trendyware/storefront-api/stock"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting storefront API")

	db := initDatabase(cfg, logger)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.GuestCart{},
		&models.GuestCartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Transaction{},
		&models.StockReservation{},
	); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	// View cache is optional; without redis every read goes to the database.
	var views *cache.OrderViews
	if cfg.RedisAddr != "" {
		rdb, err := cache.InitRedis(cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			logger.Warn("redis unavailable, order views uncached", zap.Error(err))
		} else {
			views = cache.NewOrderViews(rdb, cfg.CacheTTL, logger)
		}
	}

	// Notifications are published to kafka when brokers are configured.
	var dispatcher notify.Dispatcher = notify.LogDispatcher{Log: logger}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaDispatcher, err := notify.NewKafkaDispatcher(cfg.KafkaBrokers, cfg.NotifyTopic, logger)
		if err != nil {
			logger.Warn("kafka unavailable, notifications logged only", zap.Error(err))
		} else {
			dispatcher = kafkaDispatcher
			defer kafkaDispatcher.Close()
		}
	}

	hub := orderControllers.NewEventHub()
	orders := orderControllers.NewController(db, logger, dispatcher, views, hub, cfg.ReservationTTL)
	carts := cartControllers.NewController(db, logger)
	wallet := walletControllers.NewController(db, logger)
	payments := paymentControllers.NewController(db, logger, orders)

	// Gin setup
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.MetricsMiddleware())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", middleware.PrometheusHandler())

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		Orders:      orders,
		Carts:       carts,
		Wallet:      wallet,
		Payments:    payments,
		Hub:         hub,
		JWTSecret:   cfg.JWTSecret,
		AdminAPIKey: cfg.AdminAPIKey,
	})

	// Release expired stock reservations in the background.
	go stock.StartSweeper(db, logger, cfg.SweepInterval)

	logger.Info("server running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.Config, logger *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	return db
}
