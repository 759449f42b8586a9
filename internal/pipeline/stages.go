package pipeline

import "strings"

// Stage identifies a candidate's canonical pipeline position.
type Stage string

const (
	// StageApplied is the entry stage assigned when a candidate is registered.
	StageApplied Stage = "applied"
	// StageScreening covers CV and phone screening.
	StageScreening Stage = "screening"
	// StageInterview covers all interview rounds.
	StageInterview Stage = "interview"
	// StageOffer covers offer preparation and negotiation.
	StageOffer Stage = "offer"
	// StageHired marks a candidate who accepted an offer.
	StageHired Stage = "hired"
	// StageRejected is the terminal stage for unsuccessful candidates.
	StageRejected Stage = "rejected"
)

// stageOrder lists every recognised stage in pipeline order. Rejected sits
// last because it is reachable from any other stage.
var stageOrder = []Stage{
	StageApplied,
	StageScreening,
	StageInterview,
	StageOffer,
	StageHired,
	StageRejected,
}

// stageStatus maps each stage to the derived status label kept in lockstep
// with it. The two fields exist separately because status is decorative and
// may diverge in external record imports; transitions always resync them.
var stageStatus = map[Stage]string{
	StageApplied:   "applied",
	StageScreening: "screening",
	StageInterview: "interview",
	StageOffer:     "offer",
	StageHired:     "hired",
	StageRejected:  "rejected",
}

// Stages returns every recognised stage key in pipeline order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Normalize maps a raw stage value onto its canonical Stage key. The second
// return value reports whether the value is recognised.
func Normalize(raw string) (Stage, bool) {
	candidate := Stage(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := stageStatus[candidate]; !ok {
		return "", false
	}
	return candidate, true
}

// StatusFor returns the status label kept in lockstep with the given stage.
func StatusFor(stage Stage) string {
	if status, ok := stageStatus[stage]; ok {
		return status
	}
	return string(stage)
}

// IsTerminal reports whether a stage admits no further transitions. Rejected
// and hired candidates stay where they are; re-opening a closed candidacy
// means registering a new candidate record.
func IsTerminal(stage Stage) bool {
	return stage == StageRejected || stage == StageHired
}

// CanonicalSteps is the fixed five step journey surfaced on candidate passes.
var CanonicalSteps = []string{"Application", "Screening", "Interview", "Offer", "Onboarding"}

// stepIndex maps each non-terminal stage onto its canonical step position.
var stepIndex = map[Stage]int{
	StageApplied:   0,
	StageScreening: 1,
	StageInterview: 2,
	StageOffer:     3,
	StageHired:     4,
}

// Step progress labels surfaced on pass views.
const (
	StepCompleted = "completed"
	StepCurrent   = "current"
	StepPending   = "pending"
)

// StepState pairs a canonical step name with its progress label.
type StepState struct {
	Name   string
	Status string
}

// StepStates projects a stage onto the canonical five step list. Steps before
// the current stage read completed, the current one reads current, the rest
// pending. Rejected candidates show every step pending; the status label
// carries the rejection.
func StepStates(stage Stage) []StepState {
	current, ok := stepIndex[stage]
	if !ok {
		current = -1
	}

	steps := make([]StepState, 0, len(CanonicalSteps))
	for i, name := range CanonicalSteps {
		state := StepState{Name: name, Status: StepPending}
		switch {
		case current < 0:
		case i < current:
			state.Status = StepCompleted
		case i == current:
			state.Status = StepCurrent
		}
		steps = append(steps, state)
	}
	return steps
}

// statusLabels maps known status slugs to their human facing display form.
var statusLabels = map[string]string{
	"applied":             "Applied",
	"screening":           "Screening",
	"under_screening":     "Under Screening",
	"interview":           "Interview",
	"interview_scheduled": "Interview Scheduled",
	"offer":               "Offer",
	"offer_extended":      "Offer Extended",
	"hired":               "Hired",
	"rejected":            "Rejected",
}

// DisplayStatus translates a status slug into its display label. Unknown
// slugs pass through unchanged so imported records degrade gracefully
// instead of failing the whole view.
func DisplayStatus(slug string) string {
	if label, ok := statusLabels[strings.ToLower(strings.TrimSpace(slug))]; ok {
		return label
	}
	return slug
}
