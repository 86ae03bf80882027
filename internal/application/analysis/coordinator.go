package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
	"github.com/veloedu/risk-radar/internal/domain/playbook"
	"github.com/veloedu/risk-radar/internal/domain/shared"
	"github.com/veloedu/risk-radar/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COORDINATOR
// The maestro. Enforces the dependency order - extraction, then the two
// analyzers joined in parallel, then the strictly sequential reasoning
// chain - and assembles the final report. Any stage failure aborts the
// whole run: no partial report ever leaves.
// ══════════════════════════════════════════════════════════════════════════════

// Clock supplies the analysis timestamp; injectable so reports are
// deterministic under test.
type Clock func() time.Time

// Coordinator sequences the pipeline for one student per invocation.
type Coordinator struct {
	extractor   *RecordExtractor
	performance *PerformanceAnalyzer
	engagement  *EngagementAnalyzer
	generator   *HypothesisGenerator
	validator   *HypothesisValidator
	advisor     *ActionAdvisor
	clock       Clock
	log         *logger.Logger
}

// CoordinatorDeps wires the coordinator.
type CoordinatorDeps struct {
	Source     academic.RecordSource
	Catalog    playbook.Catalog
	Thresholds Thresholds
	Clock      Clock
	Logger     *logger.Logger
}

// NewCoordinator creates a fully wired coordinator.
func NewCoordinator(deps CoordinatorDeps) *Coordinator {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.Default()
	}
	return &Coordinator{
		extractor:   NewRecordExtractor(deps.Source),
		performance: NewPerformanceAnalyzer(deps.Thresholds),
		engagement:  NewEngagementAnalyzer(),
		generator:   NewHypothesisGenerator(deps.Thresholds),
		validator:   NewHypothesisValidator(deps.Thresholds),
		advisor:     NewActionAdvisor(deps.Catalog),
		clock:       deps.Clock,
		log:         deps.Logger,
	}
}

// Name identifies the stage.
func (c *Coordinator) Name() string { return "Coordenador de Análise" }

// Result is the coordinator output: the report plus run context the
// presentation layer may want (the student's name for alert rendering).
type Result struct {
	Report      *FinalReport
	StudentName string
	RunID       string
}

var _ Agent[academic.StudentID, *Result] = (*Coordinator)(nil)

// Analyze runs the whole pipeline for one student.
func (c *Coordinator) Analyze(ctx context.Context, id academic.StudentID) (*Result, error) {
	runID := uuid.NewString()
	log := c.log.With(logger.String("run_id", runID), logger.String("student_id", id.String()))

	record, err := c.extractor.Analyze(ctx, id)
	if err != nil {
		return nil, stageFailure(c.extractor.Name(), err)
	}
	log.Debug("record extracted",
		logger.Int("grades", len(record.Grades)),
		logger.Int("attendance_events", len(record.Attendance)))

	// The analyzers have no data dependency on each other; both read the
	// same immutable record, so running them concurrently cannot change
	// the result. The join below is the barrier before the reasoning chain.
	var (
		wg      sync.WaitGroup
		perf    diagnosis.PerformanceReport
		perfErr error
		eng     diagnosis.EngagementReport
		engErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		perf, perfErr = c.performance.Analyze(ctx, record)
	}()
	go func() {
		defer wg.Done()
		eng, engErr = c.engagement.Analyze(ctx, record)
	}()
	wg.Wait()

	if perfErr != nil {
		return nil, stageFailure(c.performance.Name(), perfErr)
	}
	if engErr != nil {
		return nil, stageFailure(c.engagement.Name(), engErr)
	}

	snapshot := diagnosis.Snapshot{Performance: perf.Metrics, Engagement: eng.Metrics}

	hypothesis, err := c.generator.Analyze(ctx, Reports{Performance: perf, Engagement: eng})
	if err != nil {
		return nil, stageFailure(c.generator.Name(), err)
	}
	log.Debug("hypothesis formed", logger.String("label", string(hypothesis.Label)))

	validated, err := c.validator.Analyze(ctx, ValidatorInput{
		Hypothesis: hypothesis,
		Record:     record,
		Snapshot:   snapshot,
	})
	if err != nil {
		return nil, stageFailure(c.validator.Name(), err)
	}
	if !validated.Validated {
		log.Info("hypothesis refuted",
			logger.String("original", string(hypothesis.Label)),
			logger.String("final", string(validated.FinalLabel)))
	}

	action, err := c.advisor.Analyze(ctx, AdvisorInput{Validated: validated, Snapshot: snapshot})
	if err != nil {
		if !shared.IsNoMatchingPlaybook(err) {
			return nil, stageFailure(c.advisor.Name(), err)
		}
		// Mandatory recovery: the catalog having no entry for a diagnosis
		// must never fail the run.
		action = playbook.Fallback()
		log.Warn("no matching playbook, using fallback action",
			logger.String("playbook_id", action.PlaybookID))
	}

	report := c.assemble(id, perf, eng, hypothesis, validated, action, snapshot)
	if err := report.Validate(); err != nil {
		return nil, stageFailure(c.Name(), err)
	}

	log.Info("analysis complete",
		logger.Int("risk_score", report.ScoreRiscoEvasao),
		logger.String("diagnosis", report.DiagnosticoChave),
		logger.String("playbook_id", report.Acao.PlaybookID))

	return &Result{Report: report, StudentName: record.Name, RunID: runID}, nil
}

// assemble builds the final report from the intermediate artifacts. The
// four stage texts are carried over unchanged.
func (c *Coordinator) assemble(
	id academic.StudentID,
	perf diagnosis.PerformanceReport,
	eng diagnosis.EngagementReport,
	hypothesis diagnosis.Hypothesis,
	validated diagnosis.ValidatedHypothesis,
	action playbook.Action,
	snapshot diagnosis.Snapshot,
) *FinalReport {
	return &FinalReport{
		IDAluno:          id.String(),
		DataAnalise:      c.clock().UTC().Format(time.RFC3339),
		ScoreRiscoEvasao: RiskScore(snapshot),
		DiagnosticoChave: string(validated.FinalLabel.Key()),
		Justificativa:    validated.Summary,
		Processo: ProcessoDeAnalise{
			RelatorioDesempenho:  perf.Summary,
			RelatorioEngajamento: eng.Summary,
			HipoteseInicial:      hypothesis.Rationale,
			ValidacaoDaHipotese:  validated.Summary,
		},
		Metricas: MetricasAluno{
			MediaGeralSemestreAtual:    roundedOrZero(snapshot.Performance.MeanCurrent),
			MediaGeralSemestreAnterior: roundedOrZero(snapshot.Performance.MeanPrevious),
			FrequenciaPresencaAtual:    presenceString(snapshot.Engagement.PresencePct),
			DisciplinaCritica:          criticalString(snapshot.Performance.CriticalSubjects),
		},
		Acao: AcaoRecomendada{
			PlaybookID:       action.PlaybookID,
			Canal:            action.Canal,
			Titulo:           action.Titulo,
			TemplateMensagem: action.Template,
		},
	}
}

// roundedOrZero surfaces an undefined mean as 0 in the JSON number field.
// Only the serialized report flattens it; internal metrics stay nil so no
// stage ever reasons on a fake zero.
func roundedOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return round1(*v)
}

func presenceString(pct *float64) string {
	if pct == nil {
		return PresenceUnavailable
	}
	return fmt.Sprintf("%.0f%%", *pct)
}

func criticalString(subjects []academic.SubjectID) string {
	if len(subjects) == 0 {
		return NoCriticalSubject
	}
	return subjects[0].String()
}

// stageFailure wraps a stage error with the originating stage name; the
// caller sees one top-level failure per run.
func stageFailure(stage string, err error) error {
	return fmt.Errorf("stage %s: %w", stage, err)
}
