package framework

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCurriculum(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	phases := c.Phases()
	require.Len(t, phases, 5)
	ids := make([]string, len(phases))
	for i, p := range phases {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"identity", "offre", "contenu", "frontend", "backend"}, ids)

	identity, ok := c.Phase(IdentityPhaseID)
	require.True(t, ok)
	assert.Equal(t, PhaseSetup, identity.Type)
	assert.Equal(t, IconFingerprint, identity.Icon)
	assert.Empty(t, identity.SubModules)

	offre, ok := c.Phase(OfferPhaseID)
	require.True(t, ok)
	assert.Equal(t, "START", offre.UnlockCode)
	assert.Len(t, offre.SubModules, 6)
	assert.Equal(t, 3+4+4+10+1+1, offre.TaskCount())

	frontend, ok := c.Phase("frontend")
	require.True(t, ok)
	assert.Zero(t, frontend.TaskCount())
	assert.NotEmpty(t, frontend.Strategies)

	assert.Len(t, c.BrandingModules(), 3)
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	sub, idx, ok := c.SubModule("offre", "competitor-recon")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Len(t, sub.Tasks, 4)

	task, ok := c.Task("offre", "lead-magnet-def", "lm-core-1")
	require.True(t, ok)
	format, ok := task.Input("format")
	require.True(t, ok)
	assert.Equal(t, InputSelect, format.Kind)
	assert.Contains(t, format.Options, "Webinar")

	_, ok = c.Phase("missing")
	assert.False(t, ok)
	_, _, ok = c.SubModule("offre", "missing")
	assert.False(t, ok)
	_, ok = c.Task("offre", "avatar-deep-dive", "missing")
	assert.False(t, ok)
	_, ok = c.Task("missing", "avatar-deep-dive", "avatar-core")
	assert.False(t, ok)

	anti, ok := c.Task("offre", "avatar-deep-dive", "avatar-anti")
	require.True(t, ok)
	assert.Empty(t, anti.Inputs)
	assert.Equal(t, ImportanceOptional, anti.Rank())
	lm, _ := c.Task("offre", "lead-magnet-def", "lm-opt-4")
	assert.Equal(t, ImportanceOptional, lm.Rank())
}

func TestCatalog_ParseKeyRoundTrip(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	count := 0
	for _, p := range c.Phases() {
		for _, s := range p.SubModules {
			for _, task := range s.Tasks {
				k := TaskKey(p.ID, s.ID, task.ID)
				got, ok := c.ParseKey(k.String())
				require.True(t, ok, k.String())
				assert.Equal(t, k, got)
				count++

				for _, in := range task.Inputs {
					fk := k.WithField(in.ID)
					got, ok := c.ParseKey(fk.String())
					require.True(t, ok, fk.String())
					assert.Equal(t, fk, got)
					assert.Equal(t, k, got.TaskOnly())
				}
			}
		}
	}
	assert.Equal(t, 25, count)

	_, ok := c.ParseKey("offre-avatar-deep-dive")
	assert.False(t, ok)
	_, ok = c.ParseKey("offre-Valider l'Avatar")
	assert.False(t, ok)
}

func TestKey_String(t *testing.T) {
	k := TaskKey("offre", "avatar-deep-dive", "avatar-core")
	assert.Equal(t, "offre-avatar-deep-dive-avatar-core", k.String())
	assert.Equal(t, "offre-avatar-deep-dive-avatar-core-pain", k.WithField("pain").String())
	assert.False(t, k.IsField())
	assert.True(t, k.WithField("pain").IsField())
}

func testPhase(id string, subs ...SubModule) Phase {
	return Phase{ID: id, UnlockCode: "CODE", Type: PhaseExecution, Icon: IconTarget, SubModules: subs}
}

func identityPhase() Phase {
	return Phase{ID: IdentityPhaseID, UnlockCode: "OPEN", Type: PhaseSetup, Icon: IconFingerprint}
}

func TestNew_RejectsCollidingKeys(t *testing.T) {
	// "a-b" + "c" and "a" + "b-c" encode to the same task key.
	_, err := New([]Phase{
		identityPhase(),
		testPhase("p",
			SubModule{ID: "a-b", Tasks: []Task{{ID: "c"}}},
			SubModule{ID: "a", Tasks: []Task{{ID: "b-c"}}},
		),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key collision")

	// A field key may not shadow another task key either.
	_, err = New([]Phase{
		identityPhase(),
		testPhase("p",
			SubModule{ID: "s", Tasks: []Task{
				{ID: "t", Inputs: []Input{{ID: "x", Kind: InputText}}},
				{ID: "t-x"},
			}},
		),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key collision")
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		phases []Phase
		want   string
	}{
		{"no phases", nil, "no phases"},
		{"no identity", []Phase{testPhase("p")}, "identity"},
		{"duplicate phase", []Phase{identityPhase(), identityPhase()}, "duplicate id"},
		{"bad type", []Phase{identityPhase(), {ID: "p", UnlockCode: "X", Type: "other", Icon: IconTarget}}, "invalid type"},
		{"no code", []Phase{identityPhase(), {ID: "p", Type: PhaseExecution, Icon: IconTarget}}, "unlock code"},
		{"no icon", []Phase{identityPhase(), {ID: "p", UnlockCode: "X", Type: PhaseExecution}}, "icon"},
		{"duplicate sub", []Phase{identityPhase(), testPhase("p", SubModule{ID: "s"}, SubModule{ID: "s"})}, "duplicate sub-module"},
		{"duplicate task", []Phase{identityPhase(), testPhase("p", SubModule{ID: "s", Tasks: []Task{{ID: "t"}, {ID: "t"}}})}, "duplicate task"},
		{"bad importance", []Phase{identityPhase(), testPhase("p", SubModule{ID: "s", Tasks: []Task{{ID: "t", Importance: "urgent"}}})}, "importance"},
		{"select without options", []Phase{identityPhase(), testPhase("p", SubModule{ID: "s", Tasks: []Task{{ID: "t", Inputs: []Input{{ID: "f", Kind: InputSelect}}}}})}, "no options"},
		{"bad kind", []Phase{identityPhase(), testPhase("p", SubModule{ID: "s", Tasks: []Task{{ID: "t", Inputs: []Input{{ID: "f", Kind: "slider"}}}}})}, "invalid kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.phases, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_UnknownIcon(t *testing.T) {
	doc := `
phases:
  - id: identity
    unlock_code: OPEN
    type: setup
    icon: rocket
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown icon "rocket"`)
}

func TestWithUnlockCodes(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	overridden := c.WithUnlockCodes(map[string]string{
		"offre":   "  BONJOUR ",
		"contenu": "",
		"missing": "X",
	})

	p, _ := overridden.Phase("offre")
	assert.Equal(t, "BONJOUR", p.UnlockCode)
	p, _ = overridden.Phase("contenu")
	assert.Equal(t, "SCALE", p.UnlockCode)

	original, _ := c.Phase("offre")
	assert.Equal(t, "START", original.UnlockCode, "source catalog must not change")
}

func TestIcon(t *testing.T) {
	for icon, name := range iconNames {
		parsed, err := ParseIcon(name)
		require.NoError(t, err)
		assert.Equal(t, icon, parsed)
		assert.Equal(t, name, icon.String())
		assert.NotEqual(t, "•", icon.Glyph())
	}
	assert.Equal(t, "none", IconNone.String())
	text, err := IconMic.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "mic", string(text))
}

func TestCatalog_ParseKeyProperty(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	var keys []Key
	for _, p := range c.Phases() {
		for _, k := range c.TaskKeys(p.ID) {
			keys = append(keys, k)
			task, ok := c.Lookup(k)
			require.True(t, ok)
			for _, in := range task.Inputs {
				keys = append(keys, k.WithField(in.ID))
			}
		}
	}
	require.NotEmpty(t, keys)
	assert.Nil(t, c.TaskKeys("missing"))

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("stored key decodes to the same key", prop.ForAll(
		func(i int) bool {
			k := keys[i]
			got, ok := c.ParseKey(k.String())
			return ok && got == k
		},
		gen.IntRange(0, len(keys)-1),
	))
	properties.Property("unknown suffix never decodes", prop.ForAll(
		func(i int, suffix string) bool {
			_, ok := c.ParseKey(keys[i].String() + KeySeparator + "zz" + suffix)
			return !ok
		},
		gen.IntRange(0, len(keys)-1),
		gen.AlphaString(),
	))
	properties.TestingRun(t)
}
