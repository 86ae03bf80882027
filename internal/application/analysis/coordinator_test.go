package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/playbook"
	"github.com/veloedu/risk-radar/internal/infrastructure/catalog"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func newTestCoordinator(t *testing.T, source academic.RecordSource) *Coordinator {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)
	return NewCoordinator(CoordinatorDeps{
		Source:     source,
		Catalog:    cat,
		Thresholds: DefaultThresholds(),
		Clock:      fixedClock,
	})
}

// unstableStudentRows is the reference case: a 1.5 point drop with 66.7%
// presence concentrated in one non-critical subject.
func unstableStudentRows() []academic.Row {
	return []academic.Row{
		examRow("alu_101", "2025-1", "CS101", 9.0),
		examRow("alu_101", "2025-1", "MAT201", 8.8),
		examRow("alu_101", "2025-1", "FIS101", 8.9),
		examRow("alu_101", "2025-2", "CS101", 6.5),
		examRow("alu_101", "2025-2", "CS101", 5.0),
		examRow("alu_101", "2025-2", "MAT201", 8.5),
		examRow("alu_101", "2025-2", "FIS101", 9.6),
		classRow("alu_101", "2025-2", "CS101", 0),
		classRow("alu_101", "2025-2", "CS101", 0),
		classRow("alu_101", "2025-2", "CS101", 0),
		classRow("alu_101", "2025-2", "MAT201", 1),
		classRow("alu_101", "2025-2", "MAT201", 1),
		classRow("alu_101", "2025-2", "MAT201", 1),
		classRow("alu_101", "2025-2", "FIS101", 1),
		classRow("alu_101", "2025-2", "FIS101", 1),
		classRow("alu_101", "2025-2", "FIS101", 1),
	}
}

func TestCoordinator_UnstablePerformanceCase(t *testing.T) {
	source := &memSource{rows: map[academic.StudentID][]academic.Row{
		"alu_101": unstableStudentRows(),
	}}
	c := newTestCoordinator(t, source)

	result, err := c.Analyze(context.Background(), "alu_101")
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", result.StudentName)
	assert.NotEmpty(t, result.RunID)

	report := result.Report
	require.NoError(t, report.Validate())

	assert.Equal(t, "alu_101", report.IDAluno)
	assert.Equal(t, "2026-08-30T12:00:00Z", report.DataAnalise)
	assert.Equal(t, 70, report.ScoreRiscoEvasao)
	assert.Equal(t, "DESEMPENHO_INSTAVEL", report.DiagnosticoChave)
	assert.Equal(t, "Hipótese validada: true.", report.Justificativa)
	assert.Equal(t, report.Justificativa, report.Processo.ValidacaoDaHipotese)

	assert.Equal(t,
		"Detectada queda de 1.5 pontos na média geral, de 8.9 para 7.4. Nenhuma disciplina com desempenho crítico.",
		report.Processo.RelatorioDesempenho)
	assert.Equal(t,
		"Frequência de presença: 66.7%. Total de ausências identificadas: 3. Maior concentração de ausências em: CS101.",
		report.Processo.RelatorioEngajamento)
	assert.Equal(t,
		"Desempenho relativamente estável com possível desengajamento localizado (queda: 1.5 pontos, presença: 66.7%).",
		report.Processo.HipoteseInicial)

	assert.Equal(t, 7.4, report.Metricas.MediaGeralSemestreAtual)
	assert.Equal(t, 8.9, report.Metricas.MediaGeralSemestreAnterior)
	assert.Equal(t, "67%", report.Metricas.FrequenciaPresencaAtual)
	assert.Equal(t, NoCriticalSubject, report.Metricas.DisciplinaCritica)

	assert.Equal(t, "PB_PEDAG_03", report.Acao.PlaybookID)
	assert.Contains(t, report.Acao.TemplateMensagem, "{id_aluno}")
}

func TestCoordinator_Deterministic(t *testing.T) {
	source := &memSource{rows: map[academic.StudentID][]academic.Row{
		"alu_101": unstableStudentRows(),
	}}
	c := newTestCoordinator(t, source)

	first, err := c.Analyze(context.Background(), "alu_101")
	require.NoError(t, err)
	second, err := c.Analyze(context.Background(), "alu_101")
	require.NoError(t, err)

	// Same data, same clock: byte-for-byte the same report. Only the run
	// correlation id differs.
	assert.Equal(t, first.Report, second.Report)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestCoordinator_RefutesGeneralDisengagement(t *testing.T) {
	rows := []academic.Row{
		examRow("alu_202", "2025-1", "CS101", 9.0),
		examRow("alu_202", "2025-1", "MAT201", 9.0),
		examRow("alu_202", "2025-2", "CS101", 5.5),
		examRow("alu_202", "2025-2", "MAT201", 6.9),
	}
	// All four absences sit in CS101; MAT201 attendance is spotless.
	for i := 0; i < 4; i++ {
		rows = append(rows, classRow("alu_202", "2025-2", "CS101", 0))
	}
	rows = append(rows, classRow("alu_202", "2025-2", "CS101", 1))
	for i := 0; i < 5; i++ {
		rows = append(rows, classRow("alu_202", "2025-2", "MAT201", 1))
	}

	source := &memSource{rows: map[academic.StudentID][]academic.Row{"alu_202": rows}}
	c := newTestCoordinator(t, source)

	result, err := c.Analyze(context.Background(), "alu_202")
	require.NoError(t, err)
	report := result.Report

	// Drop 2.8 with 60% presence reads as general disengagement, but the
	// validator demotes it to a localized difficulty.
	assert.Contains(t, report.Processo.HipoteseInicial, "desengajamento geral")
	assert.Equal(t, "DIFICULDADE_PONTUAL_EM_DISCIPLINA_CRITICA", report.DiagnosticoChave)
	assert.Contains(t, report.Justificativa, "Hipótese validada: false.")
	assert.Contains(t, report.Justificativa, "isoladas em CS101")

	// PB_PEDAG_02 needs presence at or above 70, so the tutoring entry wins.
	assert.Equal(t, "PB_PEDAG_03", report.Acao.PlaybookID)
	assert.Equal(t, 80, report.ScoreRiscoEvasao)
}

func TestCoordinator_FallbackAction(t *testing.T) {
	rows := []academic.Row{
		examRow("alu_303", "2025-1", "CS101", 8.6),
		examRow("alu_303", "2025-1", "MAT201", 8.2),
		examRow("alu_303", "2025-2", "CS101", 8.3),
		examRow("alu_303", "2025-2", "MAT201", 8.1),
	}
	for i := 0; i < 19; i++ {
		rows = append(rows, classRow("alu_303", "2025-2", "CS101", 1))
	}
	rows = append(rows, classRow("alu_303", "2025-2", "MAT201", 0))

	source := &memSource{rows: map[academic.StudentID][]academic.Row{"alu_303": rows}}
	c := newTestCoordinator(t, source)

	result, err := c.Analyze(context.Background(), "alu_303")
	require.NoError(t, err)
	report := result.Report

	// A stable student matches nothing in the catalog; the run still
	// completes with the fallback action, never an error.
	assert.Equal(t, playbook.FallbackID, report.Acao.PlaybookID)
	assert.Equal(t, "DESEMPENHO_INSTAVEL", report.DiagnosticoChave)
	assert.Equal(t, 0, report.ScoreRiscoEvasao)
	require.NoError(t, report.Validate())
}

func TestCoordinator_ZeroAttendanceBoundary(t *testing.T) {
	source := &memSource{rows: map[academic.StudentID][]academic.Row{
		"alu_404": {
			examRow("alu_404", "2025-1", "CS101", 8.0),
			examRow("alu_404", "2025-2", "CS101", 8.0),
		},
	}}
	c := newTestCoordinator(t, source)

	result, err := c.Analyze(context.Background(), "alu_404")
	require.NoError(t, err)
	report := result.Report

	assert.Equal(t, PresenceUnavailable, report.Metricas.FrequenciaPresencaAtual)
	assert.Equal(t, 0, report.ScoreRiscoEvasao)
	assert.Equal(t, "DESEMPENHO_INSTAVEL", report.DiagnosticoChave)
	assert.Equal(t, playbook.FallbackID, report.Acao.PlaybookID)
	assert.Contains(t, report.Justificativa, "Evidência limitada")
}

func TestCoordinator_NoPartialReportOnFailure(t *testing.T) {
	c := newTestCoordinator(t, &memSource{rows: map[academic.StudentID][]academic.Row{}})

	result, err := c.Analyze(context.Background(), "alu_999")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "Extrator de Registros")
}
