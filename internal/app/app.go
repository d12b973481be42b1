// Package app wires the configured components together for the binaries.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gitlab.com/dirk.krummacker/registration-form/internal/config"
	"gitlab.com/dirk.krummacker/registration-form/internal/mirror"
	"gitlab.com/dirk.krummacker/registration-form/internal/store"
)

// NewLogger creates a production logger that logs at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// OpenStore connects to the configured database and makes sure the records table exists.
func OpenStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	driverName, dsn := cfg.DataSource()
	db, err := store.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	s, err := store.New(ctx, db, cfg.Variant())
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenMirror returns the spreadsheet mirror, or a disabled mirror when the mirror is switched off.
func OpenMirror(ctx context.Context, cfg *config.Config, logger *zap.Logger) (mirror.Mirror, error) {
	if !cfg.Sheets.Enabled {
		logger.Info("Spreadsheet mirror is disabled")
		return mirror.Disabled{}, nil
	}
	sheet, err := mirror.NewGoogleSheet(ctx, mirror.GoogleConfig{
		CredentialsFile:  cfg.Sheets.CredentialsFile,
		SpreadsheetID:    cfg.Sheets.SpreadsheetID,
		SpreadsheetTitle: cfg.Sheets.SpreadsheetTitle,
		Worksheet:        cfg.Sheets.Worksheet,
	})
	if err != nil {
		return nil, fmt.Errorf("spreadsheet mirror: %w", err)
	}
	logger.Info("Mirroring records",
		zap.String("spreadsheet_id", sheet.SpreadsheetID()),
		zap.String("worksheet", cfg.Sheets.Worksheet))
	return mirror.New(sheet, cfg.Variant().Header()), nil
}
