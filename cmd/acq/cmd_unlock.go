package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"acqos/internal/unlock"
)

// unlockCmd submits a phase unlock code
var unlockCmd = &cobra.Command{
	Use:   "unlock [phase-id] [code]",
	Short: "Unlock a phase with its code",
	Long: `Unlocks a phase. Codes are compared without regard to case or
surrounding spaces. Unlocking an open phase again changes nothing.

Example:
  acq unlock offre START`,
	Args: cobra.ExactArgs(2),
	RunE: runUnlock,
}

func runUnlock(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		phaseID, code := args[0], args[1]
		err := a.ws.UnlockPhase(ctx, phaseID, code)
		if errors.Is(err, unlock.ErrInvalidCode) {
			logger.Info("unlock rejected", zap.String("phase", phaseID))
			fmt.Fprintln(cmd.ErrOrStderr(), "Code incorrect.")
			return fmt.Errorf("unlock %s: %w", phaseID, err)
		}
		if err != nil {
			return err
		}

		phase, _ := a.catalog.Phase(phaseID)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s débloquée.\n", phase.Icon.Glyph(), phase.Title)
		return nil
	})
}
