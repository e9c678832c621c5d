package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/backlot-social/backlot/internal/backlot"
	"github.com/backlot-social/backlot/internal/blockchain"
	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/internal/http_api"
	"github.com/backlot-social/backlot/internal/indexer"
	"github.com/backlot-social/backlot/internal/minter"
	"github.com/backlot-social/backlot/internal/repository"
	"github.com/backlot-social/backlot/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "backlot",
		Usage: "Backlot is a token-gated community platform for film production",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "solana-rpc-url", Aliases: []string{"r"}, Usage: "Solana RPC endpoint"},
			&cli.StringFlag{Name: "token-mint", Aliases: []string{"m"}, Usage: "Platform token mint address"},
			&cli.StringFlag{Name: "treasury-wallet", Aliases: []string{"w"}, Usage: "Treasury wallet address"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "HTTP API port"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("solana-rpc-url") {
		cfg.SolanaRPCURL = c.String("solana-rpc-url")
	}
	if c.IsSet("token-mint") {
		cfg.TokenMint = c.String("token-mint")
	}
	if c.IsSet("treasury-wallet") {
		cfg.TreasuryWallet = c.String("treasury-wallet")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Initialize chain service
	chainService, err := blockchain.NewSolana(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize chain service: %v", err)
	}

	// Create Backlot instance
	backlotApp := backlot.NewBacklot(db, chainService, log, cfg)

	// Start the mint outbox worker
	mintWorker := minter.NewWorker(db, minter.NewClient(cfg, log), log, cfg)
	mintWorker.Start()

	// Initialize API server
	indexerService := indexer.NewIndexer(log, cfg)
	apiServer := http_api.NewHTTPServer(backlotApp, indexerService, cfg, log)

	go apiServer.Start()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down ", "signal ", sig.String())

	mintWorker.Stop()
	if err := apiServer.Shutdown(); err != nil {
		log.Error("Failed to shut down API server ", "error ", err)
	}

	return nil
}
