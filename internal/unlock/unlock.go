// Package unlock implements the gating rules of the curriculum.
//
// Two independent dimensions are gated. A phase is reachable once its id is
// in the record's unlocked set; identity always is, and other phases are
// added by presenting the phase's unlock code. Inside a phase, sub-modules
// unlock in strict sequence: the first is always open and each following one
// opens when every task of its predecessor is complete.
//
// Unlock codes are plain configuration values shipped with the curriculum.
// They gate progression through the program and are not an access control.
package unlock

import (
	"errors"
	"fmt"
	"strings"

	"acqos/internal/framework"
	"acqos/internal/state"
)

var (
	// ErrInvalidCode is returned when a submitted code does not match. The
	// record is left untouched and the user may retry.
	ErrInvalidCode = errors.New("incorrect unlock code")

	// ErrPhaseNotFound is returned for an unknown phase id.
	ErrPhaseNotFound = fmt.Errorf("phase %w", framework.ErrNotFound)
)

// IsPhaseUnlocked reports whether the phase is reachable.
func IsPhaseUnlocked(data state.ClientData, phaseID string) bool {
	return phaseID == framework.IdentityPhaseID || data.HasUnlocked(phaseID)
}

// CodeMatches compares a submitted code with the phase code, ignoring case
// and surrounding whitespace.
func CodeMatches(phase framework.Phase, code string) bool {
	submitted := strings.ToUpper(strings.TrimSpace(code))
	return submitted != "" && submitted == strings.ToUpper(strings.TrimSpace(phase.UnlockCode))
}

// UnlockPhase checks code against the phase and, on a match, adds the phase
// to the unlocked set. Unlocking an already unlocked phase is a no-op.
func UnlockPhase(catalog *framework.Catalog, data state.ClientData, phaseID, code string) (state.ClientData, error) {
	phase, ok := catalog.Phase(phaseID)
	if !ok {
		return data, fmt.Errorf("%w: %q", ErrPhaseNotFound, phaseID)
	}
	if !CodeMatches(phase, code) {
		return data, ErrInvalidCode
	}

	out := data.Clone()
	out.UnlockedPhases, _ = state.AppendUnique(out.UnlockedPhases, phase.ID)
	return out, nil
}

// AfterIdentitySave applies the side effects of saving the identity form:
// when both the client name and domain are set, the offer phase is unlocked
// (once), and the offer phase becomes the active phase.
func AfterIdentitySave(data state.ClientData) state.ClientData {
	out := data.Clone()
	if out.ClientName != "" && out.ClientDomain != "" {
		out.UnlockedPhases, _ = state.AppendUnique(out.UnlockedPhases, framework.OfferPhaseID)
	}
	return out.WithActivePhase(framework.OfferPhaseID)
}

// IsSubModuleComplete reports whether every task of sub is complete.
// A sub-module without tasks is complete.
func IsSubModuleComplete(phaseID string, sub framework.SubModule, data state.ClientData) bool {
	for _, t := range sub.Tasks {
		if !data.IsCompleted(framework.TaskKey(phaseID, sub.ID, t.ID)) {
			return false
		}
	}
	return true
}

// IsSubModuleUnlocked reports whether the sub-module at index may be opened.
// Out-of-range indexes are locked.
func IsSubModuleUnlocked(phase framework.Phase, index int, data state.ClientData) bool {
	if index < 0 || index >= len(phase.SubModules) {
		return false
	}
	if index == 0 {
		return true
	}
	return IsSubModuleComplete(phase.ID, phase.SubModules[index-1], data)
}

// Action points at the next task to work on.
type Action struct {
	SubModule framework.SubModule
	Task      framework.Task
	Key       framework.Key
}

// Label is the call to action shown to the user.
func (a Action) Label() string {
	return "Continuer : " + a.Task.Title
}

// NextAction returns the first incomplete task of the first incomplete
// sub-module. It reports false when the phase is finished or has no tasks.
func NextAction(phase framework.Phase, data state.ClientData) (Action, bool) {
	for _, sub := range phase.SubModules {
		for _, t := range sub.Tasks {
			k := framework.TaskKey(phase.ID, sub.ID, t.ID)
			if !data.IsCompleted(k) {
				return Action{SubModule: sub, Task: t, Key: k}, true
			}
		}
	}
	return Action{}, false
}

// NextSubModule returns the sub-module following subModuleID.
func NextSubModule(phase framework.Phase, subModuleID string) (framework.SubModule, bool) {
	_, i, ok := phase.SubModule(subModuleID)
	if !ok || i+1 >= len(phase.SubModules) {
		return framework.SubModule{}, false
	}
	return phase.SubModules[i+1], true
}
