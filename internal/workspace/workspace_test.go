package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acqos/internal/framework"
	"acqos/internal/state"
	"acqos/internal/store"
	"acqos/internal/unlock"
)

func newWorkspace(t *testing.T) (*Workspace, *store.Store) {
	t.Helper()
	catalog, err := framework.Default()
	require.NoError(t, err)

	fb, err := store.NewFileBackend(filepath.Join(t.TempDir(), "record.json"))
	require.NoError(t, err)
	st := store.New(fb)
	return New(context.Background(), catalog, st), st
}

// unlockedOffer returns a workspace past the identity step.
func unlockedOffer(t *testing.T) (*Workspace, *store.Store) {
	t.Helper()
	w, st := newWorkspace(t)
	require.NoError(t, w.SaveIdentity(context.Background(), IdentityForm{
		ClientName:   "Acme",
		ClientDomain: "acme.io",
		Identity:     state.Identity{Version: "V1", Mission: "Aider", SelectedDomainPrefix: "go"},
	}))
	return w, st
}

var avatarCore = framework.TaskKey("offre", "avatar-deep-dive", "avatar-core")

func TestNew_LoadsDefaults(t *testing.T) {
	w, _ := newWorkspace(t)
	assert.Equal(t, state.Default(), w.Data())
}

func TestUpdate_PersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	w, st := newWorkspace(t)

	var got []string
	cancel := w.Subscribe(func(d state.ClientData) { got = append(got, d.ClientName) })

	require.NoError(t, w.UpdateSettings(ctx, "Acme", "acme.io"))
	assert.Equal(t, "Acme", st.Load(ctx).ClientName)
	assert.Equal(t, []string{"Acme"}, got)

	cancel()
	require.NoError(t, w.UpdateSettings(ctx, "Other", ""))
	assert.Equal(t, []string{"Acme"}, got, "unsubscribed")
}

func TestUpdate_ErrorLeavesRecord(t *testing.T) {
	ctx := context.Background()
	w, st := newWorkspace(t)
	before := w.Data()

	boom := errors.New("boom")
	err := w.Update(ctx, func(d state.ClientData) (state.ClientData, error) {
		d.ClientName = "changed"
		return d, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, w.Data())
	assert.Equal(t, before, st.Load(ctx))
}

func TestData_IsACopy(t *testing.T) {
	w, _ := newWorkspace(t)
	d := w.Data()
	d.UnlockedPhases[0] = "mutated"
	d.UserInputs["x"] = "y"
	assert.Equal(t, state.Default(), w.Data())
}

func TestSaveIdentity(t *testing.T) {
	ctx := context.Background()
	w, _ := newWorkspace(t)

	require.NoError(t, w.SaveIdentity(ctx, IdentityForm{ClientName: "Acme"}))
	d := w.Data()
	assert.False(t, d.HasUnlocked("offre"), "domain missing")
	active, _ := d.ActivePhase()
	assert.Equal(t, "offre", active)

	w, _ = unlockedOffer(t)
	d = w.Data()
	assert.Equal(t, []string{"identity", "offre"}, d.UnlockedPhases)
	assert.Equal(t, "Aider", d.Identity.Mission)
}

func TestObjectivesAndVoice(t *testing.T) {
	ctx := context.Background()
	w, st := newWorkspace(t)

	o := state.Objectives{SmartGoal: "10k/mois", Deadline: "2027-01-01"}
	v := state.BrandVoice{Tone: "Direct", Forbidden: "jargon"}
	require.NoError(t, w.UpdateObjectives(ctx, o))
	require.NoError(t, w.UpdateBrandVoice(ctx, v))

	loaded := st.Load(ctx)
	assert.Equal(t, o, loaded.Objectives)
	assert.Equal(t, v, loaded.BrandVoice)
}

func TestBrandingAssets(t *testing.T) {
	ctx := context.Background()
	w, _ := newWorkspace(t)

	a, err := w.AddBrandingAsset(ctx, " Site ", "https://acme.io", state.AssetLink)
	require.NoError(t, err)
	_, err = uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Site", a.Name)

	d := w.Data()
	require.Len(t, d.Branding, 3)
	assert.Equal(t, a, d.Branding[2])

	a.Value = "https://acme.com"
	require.NoError(t, w.UpdateBrandingAsset(ctx, a))
	got, ok := w.Data().Asset(a.ID)
	require.True(t, ok)
	assert.Equal(t, "https://acme.com", got.Value)

	require.NoError(t, w.RemoveBrandingAsset(ctx, a.ID))
	assert.Len(t, w.Data().Branding, 2)

	assert.ErrorIs(t, w.RemoveBrandingAsset(ctx, a.ID), ErrAssetNotFound)
	assert.ErrorIs(t, w.UpdateBrandingAsset(ctx, a), ErrAssetNotFound)

	for _, bad := range []struct {
		name, value string
		kind        state.AssetKind
	}{
		{"", "x", state.AssetText},
		{"x", "  ", state.AssetText},
		{"x", "y", state.AssetKind("font")},
	} {
		_, err := w.AddBrandingAsset(ctx, bad.name, bad.value, bad.kind)
		assert.ErrorIs(t, err, ErrInvalidAsset)
	}
	assert.Len(t, w.Data().Branding, 2)
}

func TestUnlockPhase(t *testing.T) {
	ctx := context.Background()
	w, _ := newWorkspace(t)

	before := w.Data()
	require.ErrorIs(t, w.UnlockPhase(ctx, "offre", "WRONG"), unlock.ErrInvalidCode)
	if diff := cmp.Diff(before, w.Data()); diff != "" {
		t.Errorf("record changed on wrong code (-want +got):\n%s", diff)
	}

	require.NoError(t, w.UnlockPhase(ctx, "offre", " start "))
	assert.True(t, w.Data().HasUnlocked("offre"))

	require.ErrorIs(t, w.UnlockPhase(ctx, "nope", "x"), framework.ErrNotFound)
}

func TestSetActivePhase(t *testing.T) {
	ctx := context.Background()
	w, _ := newWorkspace(t)

	require.ErrorIs(t, w.SetActivePhase(ctx, "contenu"), ErrPhaseLocked)
	require.ErrorIs(t, w.SetActivePhase(ctx, "nope"), framework.ErrNotFound)

	require.NoError(t, w.UnlockPhase(ctx, "contenu", "scale"))
	require.NoError(t, w.SetActivePhase(ctx, "contenu"))
	active, _ := w.Data().ActivePhase()
	assert.Equal(t, "contenu", active)
}

func TestOpenTask_Guards(t *testing.T) {
	w, _ := newWorkspace(t)

	_, err := w.OpenTask("offre", "avatar-deep-dive", "avatar-core")
	require.ErrorIs(t, err, ErrPhaseLocked)

	w, _ = unlockedOffer(t)
	task, err := w.OpenTask("offre", "avatar-deep-dive", "avatar-core")
	require.NoError(t, err)
	assert.Equal(t, "avatar-core", task.ID)

	_, err = w.OpenTask("offre", "offer-ecosystem", "core-offer")
	require.ErrorIs(t, err, ErrSubModuleLocked)

	_, err = w.OpenTask("offre", "avatar-deep-dive", "missing")
	require.ErrorIs(t, err, framework.ErrNotFound)
	_, err = w.OpenTask("offre", "missing", "avatar-core")
	require.ErrorIs(t, err, framework.ErrNotFound)
}

func TestRecordAnswer(t *testing.T) {
	ctx := context.Background()
	w, st := unlockedOffer(t)

	require.NoError(t, w.RecordAnswer(ctx, "offre", "avatar-deep-dive", "avatar-core",
		map[string]string{"name": "Jean"}, ""))
	loaded := st.Load(ctx)
	assert.Equal(t, "Jean", loaded.Input(avatarCore.WithField("name")))
	assert.True(t, loaded.IsCompleted(avatarCore))

	err := w.RecordAnswer(ctx, "offre", "offer-ecosystem", "core-offer", nil, "Programme")
	require.ErrorIs(t, err, ErrSubModuleLocked)
	assert.NotContains(t, w.Data().UserInputs, framework.TaskKey("offre", "offer-ecosystem", "core-offer").String())
}

func TestSubModuleChain(t *testing.T) {
	ctx := context.Background()
	w, _ := unlockedOffer(t)

	for _, task := range []string{"avatar-core", "avatar-secondary", "avatar-anti"} {
		require.NoError(t, w.SetCompleted(ctx, framework.TaskKey("offre", "avatar-deep-dive", task), true))
	}
	_, err := w.OpenTask("offre", "offer-ecosystem", "core-offer")
	require.NoError(t, err)

	// Un-completing relocks the next sub-module.
	require.NoError(t, w.ToggleCompleted(ctx, framework.TaskKey("offre", "avatar-deep-dive", "avatar-anti")))
	_, err = w.OpenTask("offre", "offer-ecosystem", "core-offer")
	require.ErrorIs(t, err, ErrSubModuleLocked)

	require.ErrorIs(t, w.SetCompleted(ctx, framework.TaskKey("offre", "offer-ecosystem", "core-offer"), true), ErrSubModuleLocked)
}

func TestResetAndReload(t *testing.T) {
	ctx := context.Background()
	w, st := unlockedOffer(t)

	// Another writer changes the stored record.
	other := st.Load(ctx)
	other.ClientName = "Changed elsewhere"
	st.Save(ctx, other)

	var notified int
	w.Subscribe(func(state.ClientData) { notified++ })

	w.Reload(ctx)
	assert.Equal(t, "Changed elsewhere", w.Data().ClientName)

	w.Reset(ctx)
	assert.Equal(t, state.Default(), w.Data())
	assert.Equal(t, state.Default(), st.Load(ctx))
	assert.Equal(t, 2, notified)
}
