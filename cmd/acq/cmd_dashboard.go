package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"acqos/cmd/acq/ui"
	"acqos/internal/state"
	"acqos/internal/store"
)

// dashboardCmd opens the interactive dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive progress dashboard",
	Long: `Shows every phase with its progress and the detail of one phase.
The dashboard reloads when the record changes on disk, for example when
another terminal runs acq task answer.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		reload := func() state.ClientData {
			a.ws.Reload(ctx)
			return a.ws.Data()
		}
		model := ui.NewDashboardModel(a.catalog, a.ws.Data(), reload)
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

		unsubscribe := a.ws.Subscribe(func(d state.ClientData) {
			go p.Send(ui.DataMsg{Data: d})
		})
		defer unsubscribe()

		w, err := store.Watch(ctx, a.store.Path(), func() { a.ws.Reload(ctx) })
		if err != nil {
			logger.Warn("live reload disabled", zap.Error(err))
		} else {
			defer w.Close()
		}

		_, err = p.Run()
		return err
	})
}
