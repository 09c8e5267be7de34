package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rushail101/gst-invoice/internal/config"
	"github.com/rushail101/gst-invoice/internal/export"
	"github.com/rushail101/gst-invoice/internal/interfaces/http"
	"github.com/rushail101/gst-invoice/internal/invoice"
	"github.com/rushail101/gst-invoice/internal/render"
	"github.com/rushail101/gst-invoice/internal/repository"
	"github.com/rushail101/gst-invoice/internal/sequence"
	"github.com/rushail101/gst-invoice/pkg/database"
	"github.com/rushail101/gst-invoice/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting GST invoice service",
		zap.String("seller", cfg.Seller.Name),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	customerRepo := repository.NewCustomerRepository(db.DB, logger)
	counterRepo := repository.NewCounterRepository(db.DB, logger)

	// Initialize the invoice engine
	sequencer := sequence.New(counterRepo, sequence.Config{
		Prefix:     cfg.Invoice.NumberPrefix,
		Width:      cfg.Invoice.NumberWidth,
		MaxRetries: cfg.Invoice.SequencerMaxRetries,
		RetryDelay: cfg.Invoice.SequencerRetryDelay,
	}, logger)

	assembler := invoice.NewAssembler(invoice.SellerProfile{
		Name:    cfg.Seller.Name,
		State:   cfg.Seller.State,
		GSTIN:   cfg.Seller.GSTIN,
		Address: cfg.Seller.Address,
	}, invoiceRepo, customerRepo, sequencer, logger)

	renderer := render.NewPDFRenderer(cfg.Seller.Address, logger)
	exporter := export.NewExporter(logger)

	// Initialize HTTP server
	handlers := http.NewHandlers(assembler, invoiceRepo, customerRepo, renderer, exporter, logger)
	server := http.NewServer(http.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
}
