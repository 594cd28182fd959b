package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/campushq/campus-backend/internal/billing"
	"github.com/campushq/campus-backend/internal/config"
	"github.com/campushq/campus-backend/internal/handler"
	"github.com/campushq/campus-backend/internal/middleware"
	"github.com/campushq/campus-backend/internal/migration"
	"github.com/campushq/campus-backend/internal/repository"
	"github.com/campushq/campus-backend/internal/routes"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/campushq/campus-backend/internal/worker"
	pkgcache "github.com/campushq/campus-backend/pkg/cache"
	"github.com/campushq/campus-backend/pkg/jwt"
	pkglogger "github.com/campushq/campus-backend/pkg/logger"
	pkgredis "github.com/campushq/campus-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("Starting campus-backend")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.GetLogger().Info().Msg("Connected to MySQL")

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis is optional; everything degrades to direct DB lookups.
	var cacheService pkgcache.Service
	if cfg.Redis.Enabled {
		redisClient, redisErr := pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if redisErr != nil {
			pkglogger.GetLogger().Warn().Err(redisErr).Msg("Redis unavailable, continuing without cache")
		} else {
			cacheService = pkgcache.NewService(redisClient)
			pkglogger.GetLogger().Info().Msg("Connected to Redis")
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn(), cfg.JWT.RefreshIn())

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	configRepo := repository.NewConfigRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	feeRepo := repository.NewFeeRepository(db)

	// Services
	configService := service.NewConfigService(configRepo, db)
	planConfig := service.NewPlanConfigApplier(configService)
	subscriptionService := service.NewSubscriptionService(subRepo, planRepo, planConfig, cacheService)
	tenantService := service.NewTenantService(tenantRepo, userRepo, subscriptionService, db)
	authService := service.NewAuthService(userRepo, jwtManager)
	gateway := billing.NewRazorpayGateway()
	billingService := service.NewBillingService(paymentRepo, subRepo, planRepo, planConfig, gateway, cacheService)
	studentService := service.NewStudentService(studentRepo)
	feeService := service.NewFeeService(feeRepo)
	branchService := service.NewBranchService(branchRepo)

	// Enforcement
	routeTable := middleware.NewRouteTable()
	enforcer := middleware.NewEnforcer(subscriptionService, configService, routeTable)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	configHandler := handler.NewConfigHandler(configService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	billingHandler := handler.NewBillingHandler(billingService)
	studentHandler := handler.NewStudentHandler(studentService)
	feeHandler := handler.NewFeeHandler(feeService)
	branchHandler := handler.NewBranchHandler(branchService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "campus-backend",
			"time":    time.Now().Unix(),
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		sqlDB, dbErr := db.DB()
		if dbErr != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		middleware.SetDBConnectionsActive(float64(sqlDB.Stats().OpenConnections))
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	routes.Setup(
		router,
		authHandler,
		tenantHandler,
		configHandler,
		subscriptionHandler,
		billingHandler,
		studentHandler,
		feeHandler,
		branchHandler,
		studentService,
		branchService,
		jwtManager,
		enforcer,
		routeTable,
	)

	sweeper := worker.NewSweeper(subscriptionService, time.Hour)
	sweeper.Start()
	defer sweeper.Stop()

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("HTTP server listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
