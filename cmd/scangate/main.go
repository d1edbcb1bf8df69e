package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"scangate/internal/commands"
	"scangate/internal/logger"
	"scangate/internal/observable"
	"scangate/internal/repositories"
	"scangate/internal/services"
	"scangate/internal/session"
	"scangate/internal/tui"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the binary
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

func main() {
	printBuildInfo()
	configPath := parseFlags()

	storePath, backend, dbPath, logLevel, logPath,
		jwtSecret, jwtExpSecond,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		storePath, backend, dbPath,
		logLevel, logPath,
		jwtSecret, jwtExpSecond,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting scangate version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// credential store, logging, and session token configuration.
func parseConfig(path string) (
	storePath, backend, dbPath string,
	logLevel, logPath string,
	jwtSecretKey string, jwtExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Credential store config
	storePath = getEnv("SCANGATE_CREDENTIAL_FILE", repositories.DefaultCredentialPath())
	backend = getEnv("SCANGATE_CREDENTIAL_BACKEND", "file")
	dbPath = getEnv("SCANGATE_CREDENTIAL_DB", "scangate.db")
	if backend != "file" && backend != "sqlite" {
		err = fmt.Errorf("unknown credential backend %q", backend)
		return
	}

	// Logging config: the terminal belongs to the UI, so logs go to a file.
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	logPath = getEnv("APP_LOG_FILE", "scangate.log")

	// Session token config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	return
}

// run initializes the logger, the credential store backend, the login
// workflow, and the login screen.
func run(ctx context.Context,
	storePath, backend, dbPath string,
	logLevel, logPath string,
	jwtSecretKey string, jwtExpSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel, logPath); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Initialize credential store
	var reader services.CredentialLister
	switch backend {
	case "sqlite":
		logger.Log.Infof("Opening credential database: %s", dbPath)
		db, err := sqlx.ConnectContext(ctx, "sqlite", dbPath)
		if err != nil {
			logger.Log.Errorw("credential database connection error", "error", err)
			return err
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		repo := repositories.NewCredentialSQLRepository(db)
		if err := repo.Init(ctx); err != nil {
			logger.Log.Errorw("credential database init error", "error", err)
			return err
		}
		reader = repo
	default:
		logger.Log.Infof("Using credential file: %s", storePath)
		reader = repositories.NewCredentialFileRepository(storePath)
	}

	// Initialize session token issuer
	issuer := session.New(jwtSecretKey, time.Duration(jwtExpSecond)*time.Second)

	// Notification delivery and command enablement, scoped to this
	// application instance.
	dispatcher := observable.NewLoopDispatcher()
	defer dispatcher.Close()
	registry := commands.NewRequery()

	// Initialize the login workflow
	svc := services.NewLoginService(reader, issuer, registry, dispatcher, logger.Named("login"))
	svc.OnAuthenticated(func(username, token string) {
		logger.Log.Infow("operator authenticated, handing off to control screens",
			"username", username, "token_issued", token != "")
	})

	// Run the login screen
	p := tea.NewProgram(tui.NewModel(svc), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		logger.Log.Errorw("login screen failed", "error", err)
		return err
	}

	if m, ok := final.(tui.Model); ok && m.Authenticated() {
		// Screen construction and navigation are owned by the
		// instrumentation UI, which takes over from here.
		fmt.Println("authenticated — launching instrumentation control")
		return nil
	}

	logger.Log.Info("login screen closed without authentication")
	return nil
}
