package movie

// LoadPhase is the seed loading state machine: not-started -> in-flight -> loaded | failed.
type LoadPhase string

const (
	PhaseNotStarted LoadPhase = "not-started"
	PhaseInFlight   LoadPhase = "in-flight"
	PhaseLoaded     LoadPhase = "loaded"
	PhaseFailed     LoadPhase = "failed"
)

// LoadState is a snapshot of the seed loading state.
// Error is only ever set when Phase is PhaseFailed.
type LoadState struct {
	Phase LoadPhase `json:"phase"`
	Error string    `json:"error,omitempty"`
}

func phaseState(phase LoadPhase) LoadState {
	return LoadState{Phase: phase}
}

func failedState(message string) LoadState {
	return LoadState{Phase: PhaseFailed, Error: message}
}
