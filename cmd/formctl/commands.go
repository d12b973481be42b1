package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/registration-form/internal/app"
	"gitlab.com/dirk.krummacker/registration-form/internal/export"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
	"gitlab.com/dirk.krummacker/registration-form/internal/store"
)

var (
	migrateFile string
	exportOut   string
	wipeYes     bool
	mirrorID    int64
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the records table",
	RunE:  runInit,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Execute an SQL file against the database",
	Long: `Execute the statements of an SQL file. A statement ends on the line that contains a
semicolon; lines starting with -- are skipped.`,
	RunE: runMigrate,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all records to an Excel file",
	RunE:  runExport,
}

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all records and reset the ids",
	RunE:  runWipe,
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Append a stored record to the spreadsheet",
	Long: `Append a stored record to the spreadsheet unless it equals the last row there. Without
--id the most recent record is used.`,
	RunE: runMirror,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFile, "file", "database.sql", "the sql file to execute")
	exportCmd.Flags().StringVar(&exportOut, "out", export.FileName, "the Excel file to write")
	wipeCmd.Flags().BoolVar(&wipeYes, "yes", false, "confirm the deletion")
	mirrorCmd.Flags().Int64Var(&mirrorID, "id", 0, "the id of the record, 0 for the last one")
}

// openStore loads the configuration and opens the records store.
func openStore(ctx context.Context) (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.OpenStore(ctx, cfg)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "records table ready (%s variant, %d records)\n", s.Variant(), n)
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	readFile, err := os.Open(migrateFile) // nosemgrep
	if err != nil {
		return err
	}
	defer readFile.Close()

	n, err := s.ExecScript(ctx, readFile)
	logger.Info("Migration finished", zap.String("file", migrateFile), zap.Int("statements", n))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d statements executed\n", n)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.ListAll(ctx)
	if err != nil {
		return err
	}
	workbook, err := export.Workbook(s.Variant(), records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(exportOut, workbook, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d records written to %s\n", len(records), exportOut)
	return nil
}

func runWipe(cmd *cobra.Command, args []string) error {
	if !wipeYes {
		return errors.New("refusing to delete all records without --yes")
	}
	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteAll(ctx); err != nil {
		return err
	}
	logger.Warn("All records deleted")
	fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
	fmt.Fprintln(cmd.OutOrStdout(), "ID values reset.")
	return nil
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var record model.Record
	if mirrorID > 0 {
		record, err = s.Get(ctx, mirrorID)
	} else {
		record, err = s.Last(ctx)
	}
	if errors.Is(err, store.ErrNotFound) {
		return errors.New("no such record")
	}
	if err != nil {
		return err
	}

	m, err := app.OpenMirror(ctx, cfg, logger)
	if err != nil {
		return err
	}
	mirrorCtx, cancel := context.WithTimeout(ctx, cfg.MirrorTimeout())
	defer cancel()
	result, err := m.AppendIfNew(mirrorCtx, record.Row(s.Variant()))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "record %d: %s\n", record.Id, result)
	return nil
}
