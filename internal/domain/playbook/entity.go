// Package playbook contains the domain model for the intervention catalog:
// pre-authored actions, their trigger conditions, and the catalog contract.
// The catalog is data, not branching logic - the advisor only walks it.
package playbook

import "github.com/veloedu/risk-radar/internal/domain/diagnosis"

// ══════════════════════════════════════════════════════════════════════════════
// ACTION
// ══════════════════════════════════════════════════════════════════════════════

// Action is one recommended pedagogical intervention. The message template
// keeps its placeholders ({id_aluno}, [Nome]) unresolved; substitution is
// a presentation-layer concern.
type Action struct {
	PlaybookID string
	Canal      string
	Titulo     string
	Template   string
}

// FallbackID identifies the default action used when no catalog entry
// matches a validated diagnosis.
const FallbackID = "PB_PEDAG_00"

// Fallback returns the mandatory default action. The coordinator applies it
// whenever the advisor reports no catalog match, so the pipeline never
// surfaces that condition to the caller.
func Fallback() Action {
	return Action{
		PlaybookID: FallbackID,
		Canal:      "Sistema Acadêmico",
		Titulo:     "Acompanhamento de Rotina",
		Template:   "AVISO: Aluno [Nome] (ID: {id_aluno}) sem sinais de risco acentuado. Sugestão: manter acompanhamento de rotina pelo coordenador do curso.",
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TRIGGER
// ══════════════════════════════════════════════════════════════════════════════

// Trigger is the condition set that makes a catalog entry applicable.
// Nil bounds are unconstrained. A bound on an undefined metric (nil drop,
// nil presence) never matches: absence of evidence is not evidence.
type Trigger struct {
	// Keys restricts the entry to these diagnosis codes; empty means any.
	Keys []diagnosis.Key

	// MinDrop requires a defined grade drop of at least this many points.
	MinDrop *float64

	// MinPresence / MaxPresence bound the defined presence percentage.
	MinPresence *float64
	MaxPresence *float64

	// MinCritical / MaxCritical bound the number of critical subjects.
	MinCritical *int
	MaxCritical *int
}

// Matches reports whether the trigger applies to the validated diagnosis
// key and the metric snapshot.
func (t Trigger) Matches(key diagnosis.Key, m diagnosis.Snapshot) bool {
	if len(t.Keys) > 0 && !containsKey(t.Keys, key) {
		return false
	}

	if t.MinDrop != nil {
		drop := m.Performance.Drop
		if drop == nil || *drop < *t.MinDrop {
			return false
		}
	}

	if t.MinPresence != nil || t.MaxPresence != nil {
		pct := m.Engagement.PresencePct
		if pct == nil {
			return false
		}
		if t.MinPresence != nil && *pct < *t.MinPresence {
			return false
		}
		if t.MaxPresence != nil && *pct >= *t.MaxPresence {
			return false
		}
	}

	critical := len(m.Performance.CriticalSubjects)
	if t.MinCritical != nil && critical < *t.MinCritical {
		return false
	}
	if t.MaxCritical != nil && critical > *t.MaxCritical {
		return false
	}

	return true
}

func containsKey(keys []diagnosis.Key, key diagnosis.Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry couples an action with its trigger. Catalog declaration order is
// significant: the first matching entry wins, so catalogs list the most
// specific entries first.
type Entry struct {
	Action  Action
	Trigger Trigger
}
