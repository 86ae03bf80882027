package analysis

import (
	"context"
	"fmt"

	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
	"github.com/veloedu/risk-radar/internal/domain/playbook"
	"github.com/veloedu/risk-radar/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTION ADVISOR
// The strategist. Walks the intervention catalog in declaration order and
// returns the first entry whose trigger matches the validated diagnosis.
// The catalog is external data; the advisor holds no branching of its own.
// ══════════════════════════════════════════════════════════════════════════════

// AdvisorInput is the advice stage input.
type AdvisorInput struct {
	Validated diagnosis.ValidatedHypothesis
	Snapshot  diagnosis.Snapshot
}

// ActionAdvisor selects one recommended action from the catalog.
type ActionAdvisor struct {
	catalog playbook.Catalog
}

// NewActionAdvisor creates the advisor over the given catalog.
func NewActionAdvisor(catalog playbook.Catalog) *ActionAdvisor {
	return &ActionAdvisor{catalog: catalog}
}

// Name identifies the stage.
func (a *ActionAdvisor) Name() string { return "Conselheiro Acadêmico" }

var _ Agent[AdvisorInput, playbook.Action] = (*ActionAdvisor)(nil)

// Analyze returns the first matching catalog entry's action. When nothing
// matches it fails with a no-matching-playbook error; the coordinator is
// required to recover with the fallback action, so this error never
// reaches the caller.
func (a *ActionAdvisor) Analyze(_ context.Context, in AdvisorInput) (playbook.Action, error) {
	key := in.Validated.FinalLabel.Key()

	for _, entry := range a.catalog.Entries() {
		if entry.Trigger.Matches(key, in.Snapshot) {
			return entry.Action, nil
		}
	}

	return playbook.Action{}, shared.NewDomainError("playbook", "Advise", shared.ErrNoMatchingPlaybook,
		fmt.Sprintf("no catalog entry matches diagnosis %s", key))
}
