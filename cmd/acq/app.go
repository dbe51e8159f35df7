package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"acqos/internal/config"
	"acqos/internal/framework"
	"acqos/internal/logging"
	"acqos/internal/store"
	"acqos/internal/workspace"
)

// app bundles everything a command needs.
type app struct {
	root    string
	cfg     *config.Config
	catalog *framework.Catalog
	store   *store.Store
	ws      *workspace.Workspace
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close store", zap.Error(err))
	}
	logging.CloseAll()
}

// resolveWorkspace returns the --workspace flag or the current directory.
func resolveWorkspace() (string, error) {
	if workspaceDir != "" {
		return workspaceDir, nil
	}
	return os.Getwd()
}

// openApp loads config, curriculum and record for the workspace.
func openApp(ctx context.Context) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	root, err := resolveWorkspace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	if err := logging.Initialize(root); err != nil {
		logger.Warn("logging disabled", zap.Error(err))
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath(root)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	logging.Boot("Config loaded from %s (backend %s)", path, cfg.Store.Backend)

	catalog, err := loadCatalog(cfg, root)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Backend, cfg.StorePath(root), cfg.Store.Driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debug("store opened",
		zap.String("backend", cfg.Store.Backend),
		zap.String("path", st.Path()))

	return &app{
		root:    root,
		cfg:     cfg,
		catalog: catalog,
		store:   st,
		ws:      workspace.New(ctx, catalog, st),
	}, nil
}

func loadCatalog(cfg *config.Config, root string) (*framework.Catalog, error) {
	var (
		catalog *framework.Catalog
		err     error
	)
	if p := cfg.CurriculumPath(root); p != "" {
		catalog, err = framework.LoadFile(p)
		logging.Boot("Curriculum loaded from %s", p)
	} else {
		catalog, err = framework.Default()
	}
	if err != nil {
		return nil, err
	}
	if _, ok := catalog.Phase(framework.OfferPhaseID); !ok {
		logging.BootWarn("Curriculum has no %q phase; saving the identity will not unlock anything", framework.OfferPhaseID)
	}
	if codes := cfg.Curriculum.UnlockCodes.Map(); len(codes) > 0 {
		logging.BootDebug("Applying %d unlock code overrides", len(codes))
		catalog = catalog.WithUnlockCodes(codes)
	}
	return catalog, nil
}

// cmdContext returns the command context, or Background for commands run
// outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// withApp opens the app, runs fn and closes it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
