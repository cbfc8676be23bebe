// Package app wires configuration, clients and services into a running
// application core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/stockdeck/internal/clients/yahoo"
	"github.com/bobmcallan/stockdeck/internal/common"
	"github.com/bobmcallan/stockdeck/internal/interfaces"
	"github.com/bobmcallan/stockdeck/internal/services/market"
	"github.com/bobmcallan/stockdeck/internal/services/portfolio"
	"github.com/bobmcallan/stockdeck/internal/services/report"
)

// App holds all initialized services and clients.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	YahooClient   interfaces.YahooClient
	MarketService interfaces.MarketService
	ReportService interfaces.ReportService
	Ledger        *portfolio.Ledger
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, the provider client and all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Load configuration - check provided path, STOCKDECK_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("STOCKDECK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "stockdeck.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stockdeck.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	marketService := market.NewService(yahooClient, logger)
	ledger := portfolio.NewLedger(marketService, logger)
	reportService := report.NewService(marketService, ledger, config.Dashboard.LookbackDays, logger)

	a := &App{
		Config:        config,
		Logger:        logger,
		YahooClient:   yahooClient,
		MarketService: marketService,
		ReportService: reportService,
		Ledger:        ledger,
		StartupTime:   startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}
