package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/application"
	"github.com/Avleen-2464/EchoQuill/internal/application/usecase"
	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/config"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/logger"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

const (
	appName    = "echoquill"
	appVersion = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "EchoQuill — AI 陪伴日记服务",
		Long:  "EchoQuill 后端服务: 本地 LLM 聊天、日记生成、情绪时间线",
		RunE:  runServe,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务 (默认)",
		RunE:  runServe,
	})

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "为某一天批量生成日记",
		Long:  "扫描当天有聊天记录的全部用户, 逐个跑日记生成流水线",
		RunE:  runGenerate,
	}
	generateCmd.Flags().String("date", "", "目标日期 (YYYY-MM-DD, 默认昨天)")
	generateCmd.Flags().String("owner", "", "只为指定用户生成")
	rootCmd.AddCommand(generateCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "显示版本",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", appName, appVersion)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: "stdout",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting EchoQuill",
		zap.String("version", appVersion),
		zap.String("mode", cfg.Server.Mode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.NewApp(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := app.Start(ctx); err != nil {
		log.Fatal("Failed to start application", zap.Error(err))
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
		os.Exit(1)
	}

	return nil
}

// runGenerate runs the journal pipeline for every owner with messages on
// the target day (or a single owner when --owner is given).
func runGenerate(cmd *cobra.Command, args []string) error {
	date, _ := cmd.Flags().GetString("date")
	owner, _ := cmd.Flags().GetString("owner")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      "info",
		Format:     "console",
		OutputPath: "stdout",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	// The nightly job journals the day that just ended
	if date == "" {
		date = time.Now().UTC().AddDate(0, 0, -1).Format(entity.DateLayout)
	}
	day, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid --date %q, expected %s", date, entity.DateLayout)
	}

	app, err := application.NewAppBatch(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	ctx := context.Background()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		app.Stop(shutdownCtx)
	}()

	owners := []string{owner}
	if owner == "" {
		owners, err = app.MessageRepository().DistinctOwners(ctx, day, day.Add(24*time.Hour))
		if err != nil {
			return fmt.Errorf("failed to list owners for %s: %w", date, err)
		}
	}

	if len(owners) == 0 {
		log.Info("No owners with messages on the target day", zap.String("date", date))
		return nil
	}

	log.Info("Batch journal generation starting",
		zap.String("date", date),
		zap.Int("owners", len(owners)),
	)

	var succeeded, skipped, failed int
	for _, ownerID := range owners {
		_, err := app.GenerateJournalUseCase().Execute(ctx, usecase.GenerateJournalInput{
			OwnerID: ownerID,
			Date:    date,
		})
		switch {
		case err == nil:
			succeeded++
			log.Info("Journal generated", zap.String("owner_id", ownerID), zap.String("date", date))
		case domainErrors.IsNoMessages(err):
			skipped++
		default:
			failed++
			log.Warn("Journal generation failed for owner",
				zap.String("owner_id", ownerID),
				zap.String("date", date),
				zap.Error(err),
			)
		}
	}

	log.Info("Batch journal generation finished",
		zap.String("date", date),
		zap.Int("succeeded", succeeded),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	return nil
}
