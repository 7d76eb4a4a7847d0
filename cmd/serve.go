package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thunderstore-mod-browser/auth"
	"thunderstore-mod-browser/catalog"
	"thunderstore-mod-browser/config"
	"thunderstore-mod-browser/db"
	"thunderstore-mod-browser/logger"
	"thunderstore-mod-browser/server"
	"thunderstore-mod-browser/thunderstore"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog server with the background import scheduler",
	Long: `Starts the HTTP API and the two scheduler loops that keep the
mod catalog in sync with the remote feed.`,
	Run: func(_ *cobra.Command, _ []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() {
	cfg, store, importer := bootstrap()

	scheduler := catalog.NewScheduler(importer, logger.Log)
	stopChan := make(chan struct{})
	scheduler.Start(stopChan)

	authService := auth.NewService(store, cfg.JWTSecret)
	srv := server.New(store, authService, scheduler, logger.Log)

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Infow("Server starting", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalw("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Server shutting down...")
	close(stopChan)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Log.Fatalw("Server shutdown failed", zap.Error(err))
	}
	logger.Log.Info("Server stopped gracefully")
}

// bootstrap handles shared initialization logic for commands.
func bootstrap() (config.Config, *db.Store, *catalog.Importer) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}
	logger.SetLevel(cfg.LogLevel)

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Log.Fatalw("Failed to open database", zap.Error(err))
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DBPath))

	client, err := thunderstore.NewClient(cfg)
	if err != nil {
		logger.Log.Fatalw("Failed to create feed client", zap.Error(err))
	}
	cache := thunderstore.NewCache(cfg.CacheFile)

	importer := catalog.NewImporter(store, client, cache, cfg, logger.Log)
	return cfg, store, importer
}
