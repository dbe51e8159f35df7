package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose      bool
	workspaceDir string
	configPath   string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "acq",
	Short: "acq - Acquisition Framework OS",
	Long: `acq guides a client project through the acquisition curriculum:
identity, offer, content, funnel and backend phases.

Phases open with an unlock code. Inside a phase, each sub-module opens once
every task of the previous one is complete. Answers and progress are saved
in the workspace under .acqos/.

Run without arguments to show the project status.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: showStatus,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.acqos/config.yaml)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(phaseCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(identityCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(objectivesCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(brandingCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
