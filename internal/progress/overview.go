package progress

import (
	"acqos/internal/framework"
	"acqos/internal/state"
)

// Status is the display state of a phase.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// PhaseStatus summarises one phase for a dashboard or status listing.
type PhaseStatus struct {
	Phase    framework.Phase
	Unlocked bool
	Percent  int
	Status   Status
}

// Overview lists every phase of the curriculum with its progress.
func Overview(catalog *framework.Catalog, data state.ClientData) []PhaseStatus {
	phases := catalog.Phases()
	out := make([]PhaseStatus, 0, len(phases))
	for _, p := range phases {
		unlocked := p.ID == framework.IdentityPhaseID || data.HasUnlocked(p.ID)
		pct := Phase(p, data)

		status := StatusLocked
		switch {
		case unlocked && pct == 100:
			status = StatusCompleted
		case unlocked:
			status = StatusActive
		}

		out = append(out, PhaseStatus{
			Phase:    p,
			Unlocked: unlocked,
			Percent:  pct,
			Status:   status,
		})
	}
	return out
}
