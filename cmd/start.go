/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/docsum-be/config"
	"github.com/tieubaoca/docsum-be/handler"
	"github.com/tieubaoca/docsum-be/service"
	"go.uber.org/zap"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the summarization server",
	Long:  `Starts the HTTP server exposing /summarize, /create-notes and /summarize-and-notes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		summarizer, closeGateway, err := buildSummarizer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeGateway()

		gin.SetMode(cfg.Server.Mode)
		router := handler.NewRouter(
			handler.NewSummarizeHandler(summarizer, cfg.Server.MaxUploadMB<<20, logger),
			handler.NewHealthHandler(Version),
			logger,
		)
		router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20

		srv := &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	},
}

// buildSummarizer wires extraction, the upstream gateway and the orchestrator. The
// returned func releases provider clients.
func buildSummarizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.SummarizerService, func(), error) {
	extractor := buildExtractor(cfg, logger)

	if !cfg.APIKeyConfigured() {
		logger.Warn("LLM API key not configured; generation endpoints will fail",
			zap.String("provider", cfg.LLM.Provider),
			zap.String("env", config.APIKeyEnv(cfg.LLM.Provider)))
	}

	gateway, err := service.NewLLMGateway(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create llm gateway: %w", err)
	}
	closeGateway := func() {}
	if closer, ok := gateway.(interface{ Close() error }); ok {
		closeGateway = func() { closer.Close() }
	}

	summarizer := service.NewSummarizerService(extractor, gateway, service.NewPromptBuilder(), cfg.Summarizer, logger)
	return summarizer, closeGateway, nil
}

func buildExtractor(cfg *config.Config, logger *zap.Logger) *service.FileService {
	ocrService := service.NewOCRService(cfg.OCR, cfg.Server.TempDir, logger)
	return service.NewFileService(
		service.NewPDFService(cfg.OCR, ocrService, cfg.Server.TempDir, logger),
		service.NewDocxService(),
		service.NewTextService(),
		logger,
	)
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("port", "p", "", "port to listen on (overrides server.port)")
}
