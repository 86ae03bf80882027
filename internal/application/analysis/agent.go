// Package analysis contains the staged analysis pipeline: record
// extraction, the two metric analyzers, the sequential reasoning chain
// (hypothesis, validation, advice), and the coordinator that assembles
// the final report.
//
// Every stage is a pure function over well-typed, immutable input. The
// only structure between stages is dependency order: the two analyzers
// are independent of each other, everything after them is strictly
// sequential.
package analysis

import "context"

// Agent is the capability contract every analysis stage implements:
// one named, pure transformation from typed input to typed output.
type Agent[In, Out any] interface {
	// Name identifies the stage in logs and failure messages.
	Name() string

	// Analyze runs the stage. It must not mutate its input and must be
	// deterministic: identical input yields identical output.
	Analyze(ctx context.Context, in In) (Out, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// THRESHOLDS
// ══════════════════════════════════════════════════════════════════════════════

// Thresholds holds the numeric constants the reasoning stages compare
// against. The defaults are the documented calibration; the worked
// reference case in the tests pins them down.
type Thresholds struct {
	// CriticalScore marks a subject critical when its overall mean is
	// below this value.
	CriticalScore float64

	// SignificantDrop is the grade drop (in points) beyond which a drop
	// counts as significant.
	SignificantDrop float64

	// LowPresence is the presence percentage below which attendance
	// counts as low.
	LowPresence float64

	// StableAttendance is the per-subject presence percentage at or above
	// which a subject's attendance counts as stable during validation.
	StableAttendance float64

	// MinGradeEvidence and MinAttendanceEvidence are the entry counts
	// below which the validator flags the evidence as weak.
	MinGradeEvidence      int
	MinAttendanceEvidence int
}

// DefaultThresholds returns the documented default calibration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalScore:         6.0,
		SignificantDrop:       2.0,
		LowPresence:           70.0,
		StableAttendance:      80.0,
		MinGradeEvidence:      2,
		MinAttendanceEvidence: 4,
	}
}
