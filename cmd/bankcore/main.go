package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/custodix/bankcore/internal/adapters/database/pgsql"
	"github.com/custodix/bankcore/internal/adapters/memory"
	"github.com/custodix/bankcore/internal/adapters/notify"
	"github.com/custodix/bankcore/internal/adapters/pricefeed"
	"github.com/custodix/bankcore/internal/adapters/transfer"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/custodix/bankcore/internal/core/services"
	"github.com/custodix/bankcore/internal/handlers"
	"github.com/custodix/bankcore/internal/middleware"
	"github.com/custodix/bankcore/pkg/config"
	"github.com/custodix/bankcore/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ledgerRepo, assetRepo := buildRepositories(cfg, logger)

	feedFactory := func(feedURL string) ports.PriceFeed {
		return pricefeed.NewHTTPFeed(feedURL, nil)
	}

	var feed ports.PriceFeed
	if cfg.OracleFeedURL != "" {
		feed = pricefeed.NewHTTPFeed(cfg.OracleFeedURL, nil)
	} else {
		// A zero-priced static feed rejects every native valuation, which is
		// the safe default until an operator swaps in a real feed.
		logger.Warn("ORACLE_FEED_URL not set, starting with a zero-priced static feed")
		feed = pricefeed.NewStaticFeed(decimal.Zero)
	}

	var custodian ports.TransferMechanism
	if cfg.CustodianURL != "" {
		custodian = transfer.NewHTTPCustodian(cfg.CustodianURL, nil)
	} else {
		logger.Warn("CUSTODIAN_URL not set, transfers will be accepted without settlement")
		custodian = transfer.NewNoopCustodian(logger)
	}

	oracleService := services.NewOracleService(feed, cfg.OracleHeartbeat)
	valuationService := services.NewValuationService(oracleService)
	assetService := services.NewAssetService(assetRepo)
	bankService := services.NewBankService(
		ledgerRepo,
		assetService,
		valuationService,
		oracleService,
		custodian,
		notify.NewSlogNotifier(logger),
		feedFactory,
		logger,
	)

	serviceContainer := &ports.ServiceContainer{
		Bank:  bankService,
		Asset: assetService,
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if rate, err := limiter.NewRateFromFormatted(cfg.RateLimit); err == nil {
		r.Use(middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)))
	} else {
		logger.Warn("Invalid RATE_LIMIT format, rate limiting disabled", slog.String("value", cfg.RateLimit))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories wires the persistent repositories when a database URL is
// configured, falling back to the in-memory ledger for development.
func buildRepositories(cfg *config.Config, logger *slog.Logger) (ports.LedgerRepository, ports.AssetRepository) {
	if cfg.DatabaseURL == "" {
		logger.Warn("PGSQL_URL not set, using in-memory repositories; state will not survive restarts")
		return memory.NewLedgerRepository(cfg.BankCap), memory.NewAssetRepository()
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Database connection pool established.")

	runMigrations(cfg, logger)

	return pgsql.NewLedgerRepository(dbPool, cfg.BankCap), pgsql.NewAssetRepository(dbPool)
}

func runMigrations(cfg *config.Config, logger *slog.Logger) {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
}
