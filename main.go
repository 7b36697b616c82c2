package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/controllers"
	"github.com/aspireon/storefront/metrics"
	"github.com/aspireon/storefront/payments"
	"github.com/aspireon/storefront/routes"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var migrate bool

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(migrate)
		},
	}
	serve.Flags().BoolVar(&migrate, "migrate", true, "Migrate the schema before serving")

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Aspireon storefront API",
		RunE:  serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			return config.Migrate()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and the sample catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			if err := config.Migrate(); err != nil {
				return err
			}
			if err := controllers.CreateSampleAdmin(); err != nil {
				return err
			}
			return controllers.SeedSampleProducts()
		},
	})
	cmd.AddCommand(logsReportCmd())

	return cmd
}

func logsReportCmd() *cobra.Command {
	var (
		date string
		dir  string
	)
	cmd := &cobra.Command{
		Use:   "logs-report",
		Short: "Summarize one day of application logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date != "" {
				var err error
				if day, err = time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("invalid --date %q, use YYYY-MM-DD", date)
				}
			}
			stats, err := utils.AnalyzeLogs(dir, day)
			if err != nil {
				return err
			}
			stats.WriteReport(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to report on (YYYY-MM-DD), today by default")
	cmd.Flags().StringVar(&dir, "dir", utils.LogsDir, "Log directory")
	return cmd
}

// bootstrap loads configuration, opens the log files and connects to the database
func bootstrap() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %v", err)
	}
	if err := utils.InitLogger(cfg.LogStdout); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %v", err)
	}
	if err := config.InitDB(cfg); err != nil {
		utils.LogError("Database initialization failed: %v", err)
		return nil, err
	}
	return cfg, nil
}

func runServer(migrate bool) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if migrate {
		if err := config.Migrate(); err != nil {
			utils.LogError("Migration failed: %v", err)
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownMetrics, err := metrics.Init(ctx, metrics.Options{
		Endpoint:       cfg.OTELExporterOTLPEndpoint,
		Insecure:       cfg.OTELExporterOTLPInsecure,
		ServiceName:    cfg.OTELServiceName,
		ServiceVersion: cfg.OTELServiceVersion,
		Environment:    cfg.Env,
	})
	if err != nil {
		utils.LogError("Metrics disabled: %v", err)
		shutdownMetrics = func(context.Context) error { return nil }
	}

	payments.Init(ctx, cfg)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			utils.LogError("Error starting server: %v", err)
			log.Println("Error starting server:", err)
			return err
		}
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Server shutdown failed: %v", err)
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		utils.LogError("Metrics shutdown failed: %v", err)
	}
	return nil
}
