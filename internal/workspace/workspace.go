// Package workspace owns the in-memory client record for one session.
//
// Every change goes through Update: the transform receives a copy, and on
// success the copy replaces the record, is persisted (best effort) and is
// broadcast to subscribers. The named operations below are thin transforms
// over the state, unlock and answers packages.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"acqos/internal/answers"
	"acqos/internal/framework"
	"acqos/internal/logging"
	"acqos/internal/state"
	"acqos/internal/unlock"
)

var (
	ErrPhaseLocked     = errors.New("phase is locked")
	ErrSubModuleLocked = errors.New("sub-module is locked")
	ErrInvalidAsset    = errors.New("branding asset needs a name, a value and a known type")
	ErrAssetNotFound   = errors.New("branding asset not found")
)

// Persister loads and saves the record. *store.Store satisfies it.
type Persister interface {
	Load(ctx context.Context) state.ClientData
	Save(ctx context.Context, data state.ClientData)
	Clear(ctx context.Context)
}

// Workspace holds the current record, the curriculum and the store.
type Workspace struct {
	mu      sync.Mutex
	catalog *framework.Catalog
	store   Persister
	data    state.ClientData

	subsMu  sync.Mutex
	subs    map[int]func(state.ClientData)
	nextSub int
}

// New loads the record from st.
func New(ctx context.Context, catalog *framework.Catalog, st Persister) *Workspace {
	w := &Workspace{
		catalog: catalog,
		store:   st,
		data:    st.Load(ctx),
		subs:    make(map[int]func(state.ClientData)),
	}
	logging.Workspace("Workspace loaded for %q", w.data.ClientName)
	return w
}

// Catalog returns the curriculum.
func (w *Workspace) Catalog() *framework.Catalog { return w.catalog }

// Data returns a copy of the current record.
func (w *Workspace) Data() state.ClientData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.Clone()
}

// Update applies fn to a copy of the record. When fn fails the record is left
// unchanged and the error is returned.
func (w *Workspace) Update(ctx context.Context, fn func(state.ClientData) (state.ClientData, error)) error {
	w.mu.Lock()
	next, err := fn(w.data.Clone())
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.data = next.Clone()
	w.store.Save(ctx, w.data)
	snapshot := w.data.Clone()
	w.mu.Unlock()

	w.notify(snapshot)
	return nil
}

// Subscribe registers fn to receive the record after every change. The
// returned function unregisters it.
func (w *Workspace) Subscribe(fn func(state.ClientData)) func() {
	w.subsMu.Lock()
	defer w.subsMu.Unlock()

	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	return func() {
		w.subsMu.Lock()
		defer w.subsMu.Unlock()
		delete(w.subs, id)
	}
}

func (w *Workspace) notify(data state.ClientData) {
	w.subsMu.Lock()
	fns := make([]func(state.ClientData), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.subsMu.Unlock()

	for _, fn := range fns {
		fn(data.Clone())
	}
}

// Reload replaces the in-memory record with the stored one.
func (w *Workspace) Reload(ctx context.Context) {
	w.mu.Lock()
	w.data = w.store.Load(ctx)
	snapshot := w.data.Clone()
	w.mu.Unlock()

	logging.WorkspaceDebug("Record reloaded from store")
	w.notify(snapshot)
}

// Reset erases the stored record and returns to the defaults.
func (w *Workspace) Reset(ctx context.Context) {
	w.mu.Lock()
	w.store.Clear(ctx)
	w.data = state.Default()
	snapshot := w.data.Clone()
	w.mu.Unlock()

	logging.Workspace("Record reset to defaults")
	w.notify(snapshot)
}

// IdentityForm is what the identity step edits.
type IdentityForm struct {
	ClientName   string
	ClientDomain string
	Identity     state.Identity
}

// SaveIdentity stores the form, unlocks the offer phase once name and domain
// are both set, and makes the offer phase active.
func (w *Workspace) SaveIdentity(ctx context.Context, form IdentityForm) error {
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		d.ClientName = form.ClientName
		d.ClientDomain = form.ClientDomain
		d.Identity = form.Identity
		out := unlock.AfterIdentitySave(d)
		logging.Workspace("Identity saved (offre unlocked: %v)", out.HasUnlocked(framework.OfferPhaseID))
		return out, nil
	})
}

// UpdateSettings changes the client name and domain.
func (w *Workspace) UpdateSettings(ctx context.Context, clientName, clientDomain string) error {
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		d.ClientName = clientName
		d.ClientDomain = clientDomain
		return d, nil
	})
}

func (w *Workspace) UpdateObjectives(ctx context.Context, o state.Objectives) error {
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		d.Objectives = o
		return d, nil
	})
}

func (w *Workspace) UpdateBrandVoice(ctx context.Context, v state.BrandVoice) error {
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		d.BrandVoice = v
		return d, nil
	})
}

// AddBrandingAsset appends a new asset with a fresh id.
func (w *Workspace) AddBrandingAsset(ctx context.Context, name, value string, kind state.AssetKind) (state.BrandingAsset, error) {
	asset := state.BrandingAsset{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Value: strings.TrimSpace(value),
		Kind:  kind,
	}
	if asset.Name == "" || asset.Value == "" || !kind.Valid() {
		return state.BrandingAsset{}, ErrInvalidAsset
	}
	err := w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		d.Branding = append(d.Branding, asset)
		return d, nil
	})
	return asset, err
}

func (w *Workspace) RemoveBrandingAsset(ctx context.Context, id string) error {
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		for i, a := range d.Branding {
			if a.ID == id {
				d.Branding = append(d.Branding[:i], d.Branding[i+1:]...)
				return d, nil
			}
		}
		return d, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
	})
}

// UpdateBrandingAsset replaces the asset with the same id.
func (w *Workspace) UpdateBrandingAsset(ctx context.Context, asset state.BrandingAsset) error {
	if strings.TrimSpace(asset.Name) == "" || strings.TrimSpace(asset.Value) == "" || !asset.Kind.Valid() {
		return ErrInvalidAsset
	}
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		for i, a := range d.Branding {
			if a.ID == asset.ID {
				d.Branding[i] = asset
				return d, nil
			}
		}
		return d, fmt.Errorf("%w: %s", ErrAssetNotFound, asset.ID)
	})
}

// UnlockPhase submits a code for a phase.
func (w *Workspace) UnlockPhase(ctx context.Context, phaseID, code string) error {
	err := w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		return unlock.UnlockPhase(w.catalog, d, phaseID, code)
	})
	switch {
	case err == nil:
		logging.Unlock("Phase %s unlocked", phaseID)
	case errors.Is(err, unlock.ErrInvalidCode):
		logging.UnlockWarn("Wrong code for phase %s", phaseID)
	}
	return err
}

// SetActivePhase records the phase being worked on. The phase must exist and
// be unlocked.
func (w *Workspace) SetActivePhase(ctx context.Context, phaseID string) error {
	if _, ok := w.catalog.Phase(phaseID); !ok {
		return fmt.Errorf("%w: %q", unlock.ErrPhaseNotFound, phaseID)
	}
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		if !unlock.IsPhaseUnlocked(d, phaseID) {
			return d, fmt.Errorf("%w: %s", ErrPhaseLocked, phaseID)
		}
		return d.WithActivePhase(phaseID), nil
	})
}

// OpenTask returns the task when its phase and sub-module are reachable.
func (w *Workspace) OpenTask(phaseID, subModuleID, taskID string) (framework.Task, error) {
	return w.guard(w.Data(), phaseID, subModuleID, taskID)
}

func (w *Workspace) guard(d state.ClientData, phaseID, subModuleID, taskID string) (framework.Task, error) {
	phase, ok := w.catalog.Phase(phaseID)
	if !ok {
		return framework.Task{}, fmt.Errorf("%w: %q", unlock.ErrPhaseNotFound, phaseID)
	}
	if !unlock.IsPhaseUnlocked(d, phaseID) {
		return framework.Task{}, fmt.Errorf("%w: %s", ErrPhaseLocked, phaseID)
	}
	sub, index, ok := phase.SubModule(subModuleID)
	if !ok {
		return framework.Task{}, fmt.Errorf("sub-module %s/%s: %w", phaseID, subModuleID, framework.ErrNotFound)
	}
	if !unlock.IsSubModuleUnlocked(phase, index, d) {
		return framework.Task{}, fmt.Errorf("%w: %s/%s", ErrSubModuleLocked, phaseID, subModuleID)
	}
	task, ok := sub.Task(taskID)
	if !ok {
		return framework.Task{}, fmt.Errorf("task %s/%s/%s: %w", phaseID, subModuleID, taskID, framework.ErrNotFound)
	}
	return task, nil
}

// RecordAnswer saves a task's answers. The task must be reachable.
func (w *Workspace) RecordAnswer(ctx context.Context, phaseID, subModuleID, taskID string, fields map[string]string, main string) error {
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		if _, err := w.guard(d, phaseID, subModuleID, taskID); err != nil {
			return d, err
		}
		out, err := answers.RecordAnswer(w.catalog, d, phaseID, subModuleID, taskID, fields, main)
		if err == nil {
			logging.AnswersDebug("Answer recorded for %s (completed: %v)",
				framework.TaskKey(phaseID, subModuleID, taskID), out.IsCompleted(framework.TaskKey(phaseID, subModuleID, taskID)))
		}
		return out, err
	})
}

// SetCompleted marks a reachable task done or not done.
func (w *Workspace) SetCompleted(ctx context.Context, k framework.Key, done bool) error {
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		if _, err := w.guard(d, k.Phase, k.SubModule, k.Task); err != nil {
			return d, err
		}
		logging.Answers("Task %s completed=%v", k.TaskOnly(), done)
		return answers.SetCompleted(d, k, done), nil
	})
}

// ToggleCompleted flips completion of a reachable task.
func (w *Workspace) ToggleCompleted(ctx context.Context, k framework.Key) error {
	return w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		if _, err := w.guard(d, k.Phase, k.SubModule, k.Task); err != nil {
			return d, err
		}
		return answers.Toggle(d, k), nil
	})
}
