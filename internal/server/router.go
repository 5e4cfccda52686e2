package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Skufu/cardiorisk/internal/predict"
	"github.com/Skufu/cardiorisk/internal/schema"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options wires the router. Service and Registry are required; DB is only
// set when artifacts come from PostgreSQL.
type Options struct {
	Service      *predict.Service
	Registry     *schema.Registry
	DB           HealthChecker
	Log          *zap.Logger
	StaticRoot   string
	MaxBodyBytes int64
	CORSOrigins  []string
}

func NewRouter(opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	useJSONFieldNames()

	router := gin.New()
	router.Use(
		requestLogger(opts.Log),
		gin.Recovery(),
		limitBodySize(opts.MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "X-Request-ID"},
			MaxAge:       12 * time.Hour,
		}),
	)

	if opts.StaticRoot != "" {
		router.StaticFile("/", filepath.Join(opts.StaticRoot, "index.html"))
		router.StaticFile("/styles.css", filepath.Join(opts.StaticRoot, "styles.css"))
		router.StaticFile("/app.js", filepath.Join(opts.StaticRoot, "app.js"))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if opts.Service == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "models": "not loaded"})
			return
		}
		if opts.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "models": "loaded", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := opts.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"models": "loaded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "models": "loaded", "db": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handler{svc: opts.Service, reg: opts.Registry}
	api := router.Group("/api")
	{
		api.GET("/schema", h.schema)
		api.POST("/encode", h.encode)
		api.POST("/predict", h.predict)
	}

	return router
}
