package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"acqos/internal/framework"
	"acqos/internal/progress"
	"acqos/internal/unlock"
)

// statusCmd shows the progress of every phase
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the project and the progress of every phase",
	RunE:  showStatus,
}

// phaseCmd groups phase commands
var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Inspect curriculum phases",
}

var phaseShowCmd = &cobra.Command{
	Use:   "show [phase-id]",
	Short: "Show a phase with its sub-modules and tasks",
	Long: `Shows the phase strategy, its sub-modules in order with their lock state
and progress, and every task. Defaults to the active phase.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showPhase,
}

func init() {
	phaseCmd.AddCommand(phaseShowCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		out := cmd.OutOrStdout()
		data := a.ws.Data()

		fmt.Fprintf(out, "%s", data.ClientName)
		if data.ClientDomain != "" {
			fmt.Fprintf(out, " (%s)", data.ClientDomain)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.Repeat("─", 48))

		active, _ := data.ActivePhase()
		for _, ps := range progress.Overview(a.catalog, data) {
			marker := " "
			if ps.Phase.ID == active {
				marker = "▶"
			}
			fmt.Fprintf(out, "%s %s %-28s %-9s %s %3d%%\n",
				marker, ps.Phase.Icon.Glyph(), ps.Phase.Title, ps.Status, bar(ps.Percent, 20), ps.Percent)
		}

		if phase, ok := a.catalog.Phase(active); ok && unlock.IsPhaseUnlocked(data, active) {
			if next, ok := unlock.NextAction(phase, data); ok {
				fmt.Fprintf(out, "\n%s  (acq task show %s)\n", next.Label(), next.Key)
			}
		}
		return nil
	})
}

func showPhase(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		data := a.ws.Data()
		id, _ := data.ActivePhase()
		if len(args) == 1 {
			id = args[0]
		}
		phase, ok := a.catalog.Phase(id)
		if !ok {
			return fmt.Errorf("%w: %q", unlock.ErrPhaseNotFound, id)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", phase.Icon.Glyph(), phase.Title)
		if phase.Subtitle != "" {
			fmt.Fprintln(out, phase.Subtitle)
		}
		if phase.Goal != "" {
			fmt.Fprintf(out, "Objectif : %s\n", phase.Goal)
		}
		fmt.Fprintf(out, "Progression : %d%%\n", progress.Phase(phase, data))

		if !unlock.IsPhaseUnlocked(data, phase.ID) {
			fmt.Fprintf(out, "\nPhase verrouillée. Débloquez-la avec : acq unlock %s <code>\n", phase.ID)
			return nil
		}

		writeList(out, "Stratégies", phase.Strategies)
		for i, sub := range phase.SubModules {
			done, total := progress.Count(phase.ID, sub, data)
			lock := ""
			if !unlock.IsSubModuleUnlocked(phase, i, data) {
				lock = " [verrouillé]"
			}
			fmt.Fprintf(out, "\n%d. %s (%d/%d)%s\n", i+1, sub.Title, done, total, lock)
			for _, t := range sub.Tasks {
				k := framework.TaskKey(phase.ID, sub.ID, t.ID)
				check := "[ ]"
				if data.IsCompleted(k) {
					check = "[x]"
				}
				fmt.Fprintf(out, "   %s %-40s %-11s %s\n", check, t.Title, t.Rank(), k)
			}
		}
		writeList(out, "Conseils", phase.OptimizationTips)
		if phase.UsefulInfo != "" {
			fmt.Fprintf(out, "\n%s\n", phase.UsefulInfo)
		}
		return nil
	})
}

func writeList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s :\n", title)
	for _, s := range items {
		fmt.Fprintf(out, "  - %s\n", s)
	}
}

// bar draws a plain progress bar of the given width.
func bar(percent, width int) string {
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
