// Package progress computes completion percentages from a client record.
// Every function is pure: same curriculum and record, same result.
package progress

import (
	"math"

	"acqos/internal/framework"
	"acqos/internal/state"
)

// Identity score weights. They sum to 100.
const (
	identityDomainWeight  = 33
	identityMissionWeight = 34
	identityPrefixWeight  = 33
)

// Percent returns round(100 × done / total), rounding halves up. A zero
// total yields 0.
func Percent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return int(math.Floor(float64(done)/float64(total)*100 + 0.5))
}

// Identity scores the setup phase from three fields of the record.
func Identity(data state.ClientData) int {
	score := 0
	if data.ClientDomain != "" {
		score += identityDomainWeight
	}
	if data.Identity.Mission != "" {
		score += identityMissionWeight
	}
	if data.Identity.SelectedDomainPrefix != "" {
		score += identityPrefixWeight
	}
	return score
}

// Phase returns the completion percentage of a phase. The identity phase uses
// the fixed three-factor score; every other phase counts completed tasks
// across all its sub-modules. Strategies never count.
func Phase(p framework.Phase, data state.ClientData) int {
	if p.ID == framework.IdentityPhaseID {
		return Identity(data)
	}
	done, total := 0, 0
	for _, sub := range p.SubModules {
		d, t := Count(p.ID, sub, data)
		done += d
		total += t
	}
	return Percent(done, total)
}

// SubModule returns the completion percentage of one sub-module.
func SubModule(phaseID string, sub framework.SubModule, data state.ClientData) int {
	return Percent(Count(phaseID, sub, data))
}

// Count returns the completed and total task counts of a sub-module.
func Count(phaseID string, sub framework.SubModule, data state.ClientData) (done, total int) {
	for _, t := range sub.Tasks {
		if data.IsCompleted(framework.TaskKey(phaseID, sub.ID, t.ID)) {
			done++
		}
	}
	return done, len(sub.Tasks)
}
