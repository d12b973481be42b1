package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/registration-form/internal/app"
	"gitlab.com/dirk.krummacker/registration-form/internal/config"
	"gitlab.com/dirk.krummacker/registration-form/internal/service"
)

// Usage example on the command line:
// > PORT=8080 ADMIN_PASSWORD=12345 GIN_MODE=release GIN_LOGGING=OFF SHEETS_ENABLED=false go run main.go
func main() {
	configPtr := flag.String("config", os.Getenv("CONFIG_FILE"), "the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		fmt.Println("could not load configuration", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid configuration:", err)
		os.Exit(1)
	}

	logger, err := app.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Println("could not create logger", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := service.InitSentry(cfg.Sentry.DSN, cfg.Sentry.Environment); err != nil {
		logger.Fatal("Error reporting unavailable", zap.Error(err))
	}
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Could not open the records database", zap.Error(err))
	}
	defer st.Close()

	m, err := app.OpenMirror(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Could not connect to the spreadsheet", zap.Error(err))
	}

	svc := service.New(st, m, service.Options{
		Title:         cfg.Form.Title,
		Variant:       cfg.Variant(),
		Branches:      cfg.Form.Branches,
		AdminPassword: cfg.Admin.Password,
		SessionSecret: cfg.Server.SessionSecret,
		PageSize:      cfg.Form.PageSize,
		GinLogging:    cfg.Server.GinLogging,
		MirrorTimeout: cfg.MirrorTimeout(),
	}, logger, nil)
	router := svc.SetupHttpRouter()

	logger.Info("Starting registration form",
		zap.String("addr", cfg.Server.Addr),
		zap.String("variant", string(cfg.Variant())))
	if err := router.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
