package diagnosis

// ══════════════════════════════════════════════════════════════════════════════
// DIAGNOSIS LABELS
// ══════════════════════════════════════════════════════════════════════════════

// Label is the enumerated diagnosis category a hypothesis asserts.
type Label string

const (
	// LabelGeneralDisengagement - falling grades across the board combined
	// with low overall attendance.
	LabelGeneralDisengagement Label = "general_disengagement"

	// LabelSpecificDifficulty - the problem concentrates in one subject,
	// in grades and absences alike.
	LabelSpecificDifficulty Label = "specific_subject_difficulty"

	// LabelUnstablePerformance - no strong pattern: stable performance or
	// a localized wobble that does not meet either threshold.
	LabelUnstablePerformance Label = "unstable_performance"
)

// Key is the enumerated short code surfaced as diagnosticoChave in the
// final report. The output contract keeps the original Portuguese codes.
type Key string

const (
	KeyGeneralDisengagement Key = "DESENGAJAMENTO_GERAL"
	KeySpecificDifficulty   Key = "DIFICULDADE_PONTUAL_EM_DISCIPLINA_CRITICA"
	KeyUnstablePerformance  Key = "DESEMPENHO_INSTAVEL"
)

// Key maps a label to its report code. The mapping is fixed.
func (l Label) Key() Key {
	switch l {
	case LabelGeneralDisengagement:
		return KeyGeneralDisengagement
	case LabelSpecificDifficulty:
		return KeySpecificDifficulty
	default:
		return KeyUnstablePerformance
	}
}

// KnownKey reports whether k is one of the enumerated diagnosis codes.
func KnownKey(k Key) bool {
	switch k {
	case KeyGeneralDisengagement, KeySpecificDifficulty, KeyUnstablePerformance:
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// HYPOTHESIS
// ══════════════════════════════════════════════════════════════════════════════

// Confidence indicates how strongly the evidence triggered a hypothesis.
type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceHigh     Confidence = "high"
)

// Hypothesis is the initial diagnosis formed from the two analyzer reports.
type Hypothesis struct {
	Label      Label
	Rationale  string
	Confidence Confidence
}

// ValidatedHypothesis is the devil's-advocate stage output: the original
// hypothesis plus the verdict reached after re-examining the raw record.
type ValidatedHypothesis struct {
	// Original is the hypothesis as generated.
	Original Hypothesis

	// Validated is false when the counter-evidence search refuted the label.
	Validated bool

	// FinalLabel may differ from Original.Label when the hypothesis was
	// refuted and demoted to a narrower diagnosis.
	FinalLabel Label

	// Nuances are caveats attached during validation.
	Nuances []string

	// Evidence are the supporting observations found in the raw record.
	Evidence []string

	// Summary always states the boolean outcome plus nuances and evidence.
	Summary string
}
