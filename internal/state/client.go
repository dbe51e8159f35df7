// Package state defines ClientData, the single record holding everything a
// user has entered: project identity, objectives, brand voice, branding
// assets, unlocked phases, completed tasks and free-form task answers.
//
// ClientData is a value type. Transforms take a record and return a new one;
// Clone gives a copy whose slices and maps can be mutated safely.
package state

import (
	"slices"

	"acqos/internal/framework"
)

// AssetKind is the kind of a branding asset.
type AssetKind string

const (
	AssetColor AssetKind = "color"
	AssetLink  AssetKind = "link"
	AssetText  AssetKind = "text"
)

// Valid reports whether k is one of the known kinds.
func (k AssetKind) Valid() bool {
	switch k {
	case AssetColor, AssetLink, AssetText:
		return true
	}
	return false
}

// BrandingAsset is one entry of the branding reference library.
type BrandingAsset struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Value string    `json:"value"`
	Kind  AssetKind `json:"type"`
}

// Identity describes the project.
type Identity struct {
	Version               string `json:"version"`
	Mission               string `json:"mission"`
	TargetAudienceSummary string `json:"targetAudienceSummary"`
	SelectedDomainPrefix  string `json:"selectedDomainPrefix"`
}

// Objectives is the SMART goal block.
type Objectives struct {
	SmartGoal        string `json:"smartGoal"`
	Deadline         string `json:"deadline"`
	CurrentSituation string `json:"currentSituation"`
	Motivation       string `json:"motivation"`
}

// BrandVoice holds the writing rules of the brand.
type BrandVoice struct {
	Tone       string `json:"tone"`
	Archetype  string `json:"archetype"`
	Vocabulary string `json:"vocabulary"`
	Forbidden  string `json:"forbidden"`
}

// ClientData is the persisted aggregate. JSON names match the records
// written by earlier versions of the application.
type ClientData struct {
	ClientName     string            `json:"clientName"`
	ClientDomain   string            `json:"clientDomain"`
	Identity       Identity          `json:"identity"`
	Objectives     Objectives        `json:"objectives"`
	BrandVoice     BrandVoice        `json:"brandVoice"`
	Branding       []BrandingAsset   `json:"branding"`
	UnlockedPhases []string          `json:"unlockedPhases"`
	ActivePhaseID  *string           `json:"activePhaseId"`
	CompletedItems []string          `json:"completedItems"`
	UserInputs     map[string]string `json:"userInputs"`
}

// Default returns a fresh record for a new project.
func Default() ClientData {
	active := framework.IdentityPhaseID
	return ClientData{
		ClientName:   "Nouveau Projet",
		ClientDomain: "",
		Identity: Identity{
			Version:              "V1",
			SelectedDomainPrefix: "go",
		},
		Branding: []BrandingAsset{
			{ID: "1", Name: "Couleur Principale", Value: "#000000", Kind: AssetColor},
			{ID: "3", Name: "Police Principale", Value: "Inter", Kind: AssetText},
		},
		UnlockedPhases: []string{framework.IdentityPhaseID},
		ActivePhaseID:  &active,
		CompletedItems: []string{},
		UserInputs:     map[string]string{},
	}
}

// Clone returns a deep copy. Nil collections come back empty so the record
// always serializes them as [] and {}.
func (d ClientData) Clone() ClientData {
	out := d
	out.Branding = append([]BrandingAsset{}, d.Branding...)
	out.UnlockedPhases = append([]string{}, d.UnlockedPhases...)
	out.CompletedItems = append([]string{}, d.CompletedItems...)
	out.UserInputs = make(map[string]string, len(d.UserInputs))
	for k, v := range d.UserInputs {
		out.UserInputs[k] = v
	}
	if d.ActivePhaseID != nil {
		id := *d.ActivePhaseID
		out.ActivePhaseID = &id
	}
	return out
}

// ActivePhase returns the active phase id, if any.
func (d ClientData) ActivePhase() (string, bool) {
	if d.ActivePhaseID == nil {
		return "", false
	}
	return *d.ActivePhaseID, true
}

// WithActivePhase returns a copy whose active phase is id.
func (d ClientData) WithActivePhase(id string) ClientData {
	out := d.Clone()
	out.ActivePhaseID = &id
	return out
}

// HasUnlocked reports whether phaseID is in the unlocked set.
func (d ClientData) HasUnlocked(phaseID string) bool {
	return slices.Contains(d.UnlockedPhases, phaseID)
}

// IsCompleted reports whether the task key is in the completed set.
func (d ClientData) IsCompleted(k framework.Key) bool {
	return slices.Contains(d.CompletedItems, k.TaskOnly().String())
}

// Input returns the stored answer for k.
func (d ClientData) Input(k framework.Key) string {
	return d.UserInputs[k.String()]
}

// Asset looks up a branding asset by id.
func (d ClientData) Asset(id string) (BrandingAsset, bool) {
	for _, a := range d.Branding {
		if a.ID == id {
			return a, true
		}
	}
	return BrandingAsset{}, false
}

// AssetsOfKind filters the branding library, keeping order.
func (d ClientData) AssetsOfKind(kind AssetKind) []BrandingAsset {
	var out []BrandingAsset
	for _, a := range d.Branding {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
