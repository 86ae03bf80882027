// Package diagnosis contains the domain model for the analysis artifacts:
// analyzer reports, metric snapshots, hypotheses, and diagnosis keys.
// Everything here is immutable once produced - one artifact per stage per run.
package diagnosis

import "github.com/veloedu/risk-radar/internal/domain/academic"

// ══════════════════════════════════════════════════════════════════════════════
// REPORT STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status describes how an analyzer run went.
type Status string

const (
	// StatusOK means the analyzer had enough data for every metric.
	StatusOK Status = "ok"
	// StatusDegraded means some metrics are undefined (e.g. a term with no
	// grades). Degraded reports are valid pipeline input, not failures.
	StatusDegraded Status = "degraded"
	// StatusFailed means the analyzer could not produce a report at all.
	StatusFailed Status = "failed"
)

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// Undefined metrics are nil pointers, never zero values. Downstream stages
// must treat nil as "not applicable", not as 0.
// ══════════════════════════════════════════════════════════════════════════════

// PerformanceMetrics is the grade-side metric snapshot.
type PerformanceMetrics struct {
	// MeanCurrent is the mean of current-term scores; nil when the term
	// has no grades.
	MeanCurrent *float64

	// MeanPrevious is the mean of previous-term scores; nil when there is
	// no prior history.
	MeanPrevious *float64

	// Drop is MeanPrevious - MeanCurrent rounded to one decimal; nil when
	// either mean is undefined. Negative means the student improved.
	Drop *float64

	// CriticalSubjects lists subjects whose overall mean is below the
	// critical threshold, sorted.
	CriticalSubjects []academic.SubjectID
}

// EngagementMetrics is the attendance-side metric snapshot.
type EngagementMetrics struct {
	// PresencePct is the percentage of events the student attended; nil
	// when there are no attendance events at all.
	PresencePct *float64

	// AbsenceTotal counts the absence events.
	AbsenceTotal int

	// AbsencesBySubject counts absences per subject.
	AbsencesBySubject map[academic.SubjectID]int

	// Concentration is the subject with the most absences; empty when the
	// student has no absences.
	Concentration academic.SubjectID
}

// Snapshot joins both metric sets for the sequential reasoning stages.
type Snapshot struct {
	Performance PerformanceMetrics
	Engagement  EngagementMetrics
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORTS
// ══════════════════════════════════════════════════════════════════════════════

// PerformanceReport is the performance analyzer's artifact.
type PerformanceReport struct {
	Agent   string
	Status  Status
	Summary string
	Metrics PerformanceMetrics
}

// EngagementReport is the engagement analyzer's artifact.
type EngagementReport struct {
	Agent   string
	Status  Status
	Summary string
	Metrics EngagementMetrics
}
