// Package framework holds the static acquisition curriculum: phases,
// sub-modules and tasks, the unlock codes gating each phase, and the
// composite keys that address task progress and answers in a client record.
//
// The curriculum is immutable configuration. It is loaded once (the default
// is embedded in the binary), validated, and never persisted. Stored keys
// only stay meaningful while the ids in the curriculum stay stable.
package framework

import "errors"

// ErrNotFound is returned when a phase, sub-module or task id does not exist
// in the curriculum (for example a stale key after a curriculum change).
var ErrNotFound = errors.New("not found in curriculum")

// IdentityPhaseID is the setup phase that is always unlocked.
const IdentityPhaseID = "identity"

// OfferPhaseID is the phase unlocked automatically by a complete identity.
const OfferPhaseID = "offre"

// PhaseType distinguishes the one-off setup phase from execution phases.
type PhaseType string

const (
	PhaseSetup     PhaseType = "setup"
	PhaseExecution PhaseType = "execution"
)

// Importance ranks a task inside its sub-module.
type Importance string

const (
	ImportanceMandatory   Importance = "mandatory"
	ImportanceRecommended Importance = "recommended"
	ImportanceOptional    Importance = "optional"
)

// InputKind is the widget used to collect a structured task field.
type InputKind string

const (
	InputText     InputKind = "text"
	InputTextarea InputKind = "textarea"
	InputNumber   InputKind = "number"
	InputSelect   InputKind = "select"
)

// MediaType describes the supporting material attached to a task.
type MediaType string

const (
	MediaText  MediaType = "text"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// Input is a named field of a task.
type Input struct {
	ID          string    `yaml:"id" json:"id"`
	Label       string    `yaml:"label" json:"label"`
	Kind        InputKind `yaml:"kind" json:"kind"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Options     []string  `yaml:"options,omitempty" json:"options,omitempty"` // select only
}

// Task is the atomic unit of work inside a sub-module.
type Task struct {
	ID           string     `yaml:"id" json:"id"`
	Title        string     `yaml:"title" json:"title"`
	Description  string     `yaml:"description" json:"description"`
	MediaType    MediaType  `yaml:"media_type,omitempty" json:"mediaType,omitempty"`
	MediaContent string     `yaml:"media_content,omitempty" json:"mediaContent,omitempty"`
	Importance   Importance `yaml:"importance,omitempty" json:"importance,omitempty"`
	Inputs       []Input    `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Placeholder  string     `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// Input returns the named field of the task.
func (t Task) Input(id string) (Input, bool) {
	for _, in := range t.Inputs {
		if in.ID == id {
			return in, true
		}
	}
	return Input{}, false
}

// Rank returns the task importance, treating an unset value as optional.
func (t Task) Rank() Importance {
	if t.Importance == "" {
		return ImportanceOptional
	}
	return t.Importance
}

// SubModule is an ordered stage of a phase. Sub-modules unlock in sequence.
type SubModule struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Goal        string `yaml:"goal" json:"goal"`
	Focus       string `yaml:"focus" json:"focus"`
	Objectives  string `yaml:"objectives" json:"objectives"`
	Tasks       []Task `yaml:"tasks" json:"tasks"`
}

// Task looks up a task of the sub-module by id.
func (s SubModule) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Phase is a top-level curriculum module.
type Phase struct {
	ID               string      `yaml:"id" json:"id"`
	Title            string      `yaml:"title" json:"title"`
	Subtitle         string      `yaml:"subtitle" json:"subtitle"`
	Goal             string      `yaml:"goal" json:"goal"`
	UnlockCode       string      `yaml:"unlock_code" json:"-"`
	Strategies       []string    `yaml:"strategies" json:"strategies"`
	SubModules       []SubModule `yaml:"sub_modules" json:"subModules"`
	OptimizationTips []string    `yaml:"optimization_tips" json:"optimizationTips"`
	Focus            string      `yaml:"focus" json:"focus"`
	Objectives       string      `yaml:"objectives" json:"objectives"`
	UsefulInfo       string      `yaml:"useful_info" json:"usefulInfo"`
	Icon             Icon        `yaml:"icon" json:"icon"`
	Type             PhaseType   `yaml:"type" json:"type"`
}

// SubModule looks up a sub-module by id and returns its index in the phase.
func (p Phase) SubModule(id string) (SubModule, int, bool) {
	for i, s := range p.SubModules {
		if s.ID == id {
			return s, i, true
		}
	}
	return SubModule{}, -1, false
}

// TaskCount is the number of tasks across all sub-modules.
func (p Phase) TaskCount() int {
	n := 0
	for _, s := range p.SubModules {
		n += len(s.Tasks)
	}
	return n
}

// BrandingModule describes one section of the branding reference library.
type BrandingModule struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        Icon   `yaml:"icon" json:"icon"`
}
