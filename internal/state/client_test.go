package state

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acqos/internal/framework"
)

func TestDefault(t *testing.T) {
	d := Default()

	assert.Equal(t, "Nouveau Projet", d.ClientName)
	assert.Equal(t, "V1", d.Identity.Version)
	assert.Equal(t, "go", d.Identity.SelectedDomainPrefix)
	assert.Equal(t, []string{"identity"}, d.UnlockedPhases)
	active, ok := d.ActivePhase()
	require.True(t, ok)
	assert.Equal(t, "identity", active)
	assert.Len(t, d.Branding, 2)
	assert.Len(t, d.AssetsOfKind(AssetColor), 1)
	assert.Len(t, d.AssetsOfKind(AssetText), 1)
	assert.Empty(t, d.AssetsOfKind(AssetLink))
}

func TestDefault_JSONShape(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"clientName", "clientDomain", "identity", "objectives", "brandVoice",
		"branding", "unlockedPhases", "activePhaseId", "completedItems", "userInputs",
	} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, `[]`, string(raw["completedItems"]))
	assert.JSONEq(t, `{}`, string(raw["userInputs"]))
	assert.JSONEq(t, `"identity"`, string(raw["activePhaseId"]))
	assert.Contains(t, string(raw["branding"]), `"type":"color"`)
}

func TestClone_IsIndependent(t *testing.T) {
	orig := Default()
	orig.UserInputs["a"] = "1"

	c := orig.Clone()
	c.UserInputs["a"] = "2"
	c.CompletedItems = append(c.CompletedItems, "x")
	c.Branding[0].Value = "#ffffff"
	*c.ActivePhaseID = "offre"

	assert.Equal(t, "1", orig.UserInputs["a"])
	assert.Empty(t, orig.CompletedItems)
	assert.Equal(t, "#000000", orig.Branding[0].Value)
	active, _ := orig.ActivePhase()
	assert.Equal(t, "identity", active)

	if diff := cmp.Diff(Default(), Default().Clone()); diff != "" {
		t.Errorf("clone of default differs (-want +got):\n%s", diff)
	}
}

func TestClone_NilCollections(t *testing.T) {
	c := ClientData{}.Clone()
	assert.NotNil(t, c.CompletedItems)
	assert.NotNil(t, c.UnlockedPhases)
	assert.NotNil(t, c.UserInputs)
	assert.Nil(t, c.ActivePhaseID)
	_, ok := c.ActivePhase()
	assert.False(t, ok)
}

func TestQueries(t *testing.T) {
	k := framework.TaskKey("offre", "avatar-deep-dive", "avatar-core")
	d := Default()
	d.CompletedItems = []string{k.String()}
	d.UserInputs[k.WithField("job").String()] = "Cadre"

	assert.True(t, d.IsCompleted(k))
	assert.True(t, d.IsCompleted(k.WithField("job")), "field keys resolve to their task")
	assert.Equal(t, "Cadre", d.Input(k.WithField("job")))
	assert.Empty(t, d.Input(k))
	assert.True(t, d.HasUnlocked("identity"))
	assert.False(t, d.HasUnlocked("offre"))

	a, ok := d.Asset("3")
	require.True(t, ok)
	assert.Equal(t, "Inter", a.Value)
	_, ok = d.Asset("nope")
	assert.False(t, ok)

	assert.True(t, AssetLink.Valid())
	assert.False(t, AssetKind("image").Valid())
}

func TestSetHelpers(t *testing.T) {
	items := []string{"a", "b"}

	out, changed := AppendUnique(items, "c")
	assert.True(t, changed)
	assert.Equal(t, []string{"a", "b", "c"}, out)
	assert.Equal(t, []string{"a", "b"}, items)

	out, changed = AppendUnique(items, "a")
	assert.False(t, changed)
	assert.Equal(t, items, out)

	out, changed = Without([]string{"a", "b", "a"}, "a")
	assert.True(t, changed)
	assert.Equal(t, []string{"b"}, out)

	_, changed = Without(items, "z")
	assert.False(t, changed)
}
