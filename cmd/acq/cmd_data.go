package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress and data",
	Long: `Erases the stored record. The next command starts from a fresh project.
Requires --yes.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored record as JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var backupCmd = &cobra.Command{
	Use:   "backup [file]",
	Short: "Write a compressed backup of the record",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore [file]",
	Short: "Replace the record with a backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetConfirm, "yes", "y", false, "Confirm erasing all data")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		return fmt.Errorf("reset erases all progress; run again with --yes to confirm")
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		a.ws.Reset(ctx)
		logger.Info("record reset", zap.String("workspace", a.root))
		fmt.Fprintln(cmd.OutOrStdout(), "Toutes les données ont été effacées.")
		return nil
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		raw, err := a.store.Raw(ctx)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("stored record is not valid JSON: %w", err)
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	})
}

func runBackup(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
		if err := a.store.Backup(ctx, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close backup file: %w", err)
		}
		logger.Debug("backup written", zap.String("file", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "Sauvegarde écrite : %s\n", args[0])
		return nil
	})
}

func runRestore(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open backup file: %w", err)
		}
		defer f.Close()

		if err := a.store.Restore(ctx, f); err != nil {
			return err
		}
		a.ws.Reload(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "Restauré : %s\n", a.ws.Data().ClientName)
		return nil
	})
}
