package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/cardiorisk/internal/config"
	"github.com/Skufu/cardiorisk/internal/features"
	"github.com/Skufu/cardiorisk/internal/logger"
	"github.com/Skufu/cardiorisk/internal/model"
	"github.com/Skufu/cardiorisk/internal/predict"
	"github.com/Skufu/cardiorisk/internal/schema"
	"github.com/Skufu/cardiorisk/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cardiorisk",
		Short:        "Heart attack risk form and inference server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		newEncodeCmd(),
		newPredictCmd(),
		newSchemaCmd(),
	)
	return root
}

// closer is satisfied by *pgxpool.Pool.
type closer interface {
	Close()
}

// loadService builds the prediction service from configuration. The
// returned checker is nil unless artifacts come from PostgreSQL.
func loadService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*predict.Service, server.HealthChecker, closer, error) {
	reg := schema.Default()
	enc, err := features.NewEncoder(reg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encoder: %w", err)
	}

	var (
		store model.Store
		db    server.HealthChecker
		pool  closer
	)
	switch cfg.ArtifactSource {
	case config.SourcePostgres:
		p, err := model.ConnectPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		store, db, pool = model.NewPostgresStore(p), p, p
	default:
		store = model.FileStore{Root: cfg.ArtifactDir}
	}

	art, err := model.Load(ctx, store, reg, cfg.ScalerArtifact, cfg.ClassifierArtifact)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, nil, nil, err
	}
	log.Info("artifacts loaded",
		zap.String("source", cfg.ArtifactSource),
		zap.String("scaler", art.ScalerKind),
		zap.String("classifier", art.ClassifierKind),
	)

	return predict.NewService(enc, art, log), db, pool, nil
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.GinMode)

	svc, db, pool, err := loadService(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	staticRoot := cfg.StaticDir
	if staticRoot == "" {
		staticRoot = server.DetectStaticRoot()
	}
	if staticRoot == "" {
		log.Warn("no web/index.html found; form disabled")
	}

	router := server.NewRouter(server.Options{
		Service:      svc,
		Registry:     schema.Default(),
		DB:           db,
		Log:          log,
		StaticRoot:   staticRoot,
		MaxBodyBytes: cfg.MaxBodyBytes,
		CORSOrigins:  cfg.CORSOrigins,
	})

	return server.Run(ctx, server.NewHTTPServer(":"+cfg.Port, router), log)
}
