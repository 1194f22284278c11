package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "lnk_domains/api/v1"
	"lnk_domains/internal/auth"
	"lnk_domains/internal/cache"
	"lnk_domains/internal/config"
	"lnk_domains/internal/customdomain"
	"lnk_domains/internal/db"
	"lnk_domains/internal/resolver"
	"lnk_domains/internal/ws"
)

func main() {
	// 1. Load configuration (CONFIG_FILE selects an INI file, env always wins)
	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	setupLogger(cfg.Log)
	logrus.Info("✓ Configuration loaded")

	// 2. Initialize database
	if err := initDB(cfg.DB); err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if cfg.Migrate || cfg.DB.Driver == "sqlite" {
		if err := db.Migrate(db.GetDB()); err != nil {
			logrus.Fatalf("Failed to migrate: %v", err)
		}
	}

	// 3. Initialize Redis routing cache (optional)
	var routes customdomain.RouteCache
	if cfg.Redis.Addr != "" {
		if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			logrus.Fatalf("Failed to initialize Redis: %v", err)
		}
		defer cache.Close()
		routes = cache.NewDomainRouteCache(cache.Client)
	} else {
		logrus.Warn("REDIS_ADDR not set, routing cache disabled")
	}

	if cfg.JWT.Secret != "" {
		auth.InitJWT(cfg.JWT.Secret)
	}

	// 4. Initialize Socket.IO (optional)
	var events customdomain.EventPublisher
	if cfg.WS.Enabled {
		if err := ws.InitServer(db.GetDB(), nil); err != nil {
			logrus.Fatalf("Failed to initialize Socket.IO: %v", err)
		}
		defer ws.Close()
		events = ws.NewDomainEventPublisher(db.GetDB(), nil)
	}

	// 5. Domain service
	dnsResolver := resolver.New(resolver.Config{
		Nameservers: cfg.Resolver.Nameservers,
		Timeout:     time.Duration(cfg.Resolver.TimeoutSec) * time.Second,
	})
	logrus.WithField("nameservers", dnsResolver.Nameservers()).Info("✓ DNS resolver ready")

	svc := customdomain.NewService(&customdomain.Config{
		DB:          db.GetDB(),
		Resolver:    dnsResolver,
		TargetCNAME: cfg.Domain.TargetCNAME,
		BrandDomain: cfg.Domain.BrandDomain,
		Routes:      routes,
		Events:      events,
	})

	// 6. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	v1.SetupRouter(r, svc)
	if ws.Server != nil {
		socket := gin.WrapH(ws.WrapWithAuth(ws.Server))
		r.GET("/socket.io/*any", socket)
		r.POST("/socket.io/*any", socket)
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		logrus.Infof("✓ Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logrus.WithField("signal", sig.String()).Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return config.LoadFromINI(path)
	}
	return config.Load()
}

func setupLogger(cfg config.LogConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func initDB(cfg config.DBConfig) error {
	if cfg.Driver == "sqlite" {
		return db.InitSQLite(cfg.DSN)
	}
	return db.InitMySQL(cfg.DSN)
}

// requestLogger logs one line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request")
		} else {
			entry.Debug("request")
		}
	}
}

