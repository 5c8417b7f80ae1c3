package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/assetboard-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/assetboard-backend/internal/adapter/http"
	"github.com/simaogato/assetboard-backend/internal/adapter/repository/memory"
	"github.com/simaogato/assetboard-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/assetboard-backend/internal/config"
	"github.com/simaogato/assetboard-backend/internal/domain"
	"github.com/simaogato/assetboard-backend/internal/logging"
	"github.com/simaogato/assetboard-backend/internal/usecase/dashboard"
	"github.com/simaogato/assetboard-backend/internal/usecase/exchange"
	"github.com/simaogato/assetboard-backend/internal/usecase/ledger"
	"github.com/simaogato/assetboard-backend/internal/usecase/seeder"
	"github.com/simaogato/assetboard-backend/internal/usecase/snapshot"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	assets        domain.AssetRepository
	debts         domain.DebtRepository
	lendRecords   domain.LendRecordRepository
	accounts      domain.AccountRepository
	categories    domain.CategoryRepository
	transactions  domain.TransactionRepository
	snapshots     domain.SnapshotRepository
	exchangeRates domain.ExchangeRateRepository
	close         func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", logging.FieldError, err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.UsesDefaultToken() {
		logger.Warn("API_TOKEN not set, using the development token")
	}

	// 1. Setup storage
	repos, err := openRepositories(cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "backend", cfg.DataBackend, logging.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Error("failed to close storage", logging.FieldError, err)
		}
	}()

	// 2. Seed reference data
	ctx := context.Background()
	if err := seeder.NewCategorySeeder(repos.categories).Seed(ctx); err != nil {
		logger.Error("failed to seed categories", logging.FieldError, err)
		os.Exit(1)
	}
	logger.Info("default categories seeded")

	if cfg.SeedDefaultRates {
		n, err := seeder.NewRateSeeder(repos.exchangeRates).Seed(ctx)
		if err != nil {
			logger.Error("failed to seed exchange rates", logging.FieldError, err)
			os.Exit(1)
		}
		logger.Info("default exchange rates seeded", "count", n)
	}

	// 3. Initialize services (use cases)
	exchangeService := exchange.NewExchangeRateService(repos.exchangeRates, cfg.RateCacheTTL)
	dashboardService := dashboard.NewDashboardService(
		repos.assets, repos.debts, repos.lendRecords, repos.snapshots,
		exchangeService, cfg.ReportingCurrency, logger,
	)
	ledgerService := ledger.NewLedgerService(repos.transactions, repos.accounts, repos.categories, logger)
	snapshotService := snapshot.NewSnapshotService(repos.assets, repos.debts, repos.snapshots)

	// 4. Start gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterAssetBoardServiceServer(grpcServer, grpcadapter.NewServer(dashboardService, ledgerService, snapshotService))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.GRPCAddr, logging.FieldError, err)
		os.Exit(1)
	}

	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server failed", logging.FieldError, err)
			os.Exit(1)
		}
	}()

	// 5. Start HTTP server
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpadapter.NewRouter(httpadapter.Services{
			Dashboard: dashboardService,
			Ledger:    ledgerService,
			Snapshot:  snapshotService,
			Exchange:  exchangeService,
		}, httpadapter.Options{
			APIToken:       cfg.APIToken,
			AllowedOrigins: cfg.CORSOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", logging.FieldError, err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	waitForShutdown(logger, grpcServer, httpServer)
}

func openRepositories(cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.DataBackend == config.BackendMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			assets:        store.Assets,
			debts:         store.Debts,
			lendRecords:   store.LendRecords,
			accounts:      store.Accounts,
			categories:    store.Categories,
			transactions:  store.Transactions,
			snapshots:     store.Snapshots,
			exchangeRates: store.ExchangeRates,
			close:         func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("database migrations applied")

	return &repositories{
		assets:        postgres.NewAssetRepository(db),
		debts:         postgres.NewDebtRepository(db),
		lendRecords:   postgres.NewLendRecordRepository(db),
		accounts:      postgres.NewAccountRepository(db),
		categories:    postgres.NewCategoryRepository(db),
		transactions:  postgres.NewTransactionRepository(db),
		snapshots:     postgres.NewSnapshotRepository(db),
		exchangeRates: postgres.NewExchangeRateRepository(db),
		close:         db.Close,
	}, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(logger *slog.Logger, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", logging.FieldError, err)
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}
