package analysis

import (
	"fmt"
	"strings"

	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
	"github.com/veloedu/risk-radar/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FINAL REPORT
// The output contract. Field names and shapes are fixed: they are the
// public JSON surface of the analyzer and keep the original Portuguese
// key names. The report is constructed once at the end of the pipeline
// and schema-checked before it leaves.
// ══════════════════════════════════════════════════════════════════════════════

// NoCriticalSubject is the disciplinaCritica value when no subject is
// below the critical threshold.
const NoCriticalSubject = "Nenhuma"

// PresenceUnavailable is the frequenciaPresencaAtual value when the
// student has no attendance events.
const PresenceUnavailable = "N/D"

// ProcessoDeAnalise carries the four intermediate stage texts, unchanged.
type ProcessoDeAnalise struct {
	RelatorioDesempenho  string `json:"relatorioDesempenho"`
	RelatorioEngajamento string `json:"relatorioEngajamento"`
	HipoteseInicial      string `json:"hipoteseInicial"`
	ValidacaoDaHipotese  string `json:"validacaoDaHipotese"`
}

// MetricasAluno is the computed metrics snapshot of the report.
type MetricasAluno struct {
	MediaGeralSemestreAtual    float64 `json:"mediaGeralSemestreAtual"`
	MediaGeralSemestreAnterior float64 `json:"mediaGeralSemestreAnterior"`
	FrequenciaPresencaAtual    string  `json:"frequenciaPresencaAtual"`
	DisciplinaCritica          string  `json:"disciplinaCritica"`
}

// AcaoRecomendada is the selected intervention. TemplateMensagem keeps its
// {id_aluno} placeholder unresolved.
type AcaoRecomendada struct {
	PlaybookID       string `json:"playbookId"`
	Canal            string `json:"canal"`
	Titulo           string `json:"titulo"`
	TemplateMensagem string `json:"templateMensagem"`
}

// FinalReport is the complete diagnostic report for one student. Entirely
// derived; never partially mutated.
type FinalReport struct {
	IDAluno          string            `json:"idAluno"`
	DataAnalise      string            `json:"dataAnalise"`
	ScoreRiscoEvasao int               `json:"scoreRiscoEvasao"`
	DiagnosticoChave string            `json:"diagnosticoChave"`
	Justificativa    string            `json:"justificativa"`
	Processo         ProcessoDeAnalise `json:"processoDeAnalise"`
	Metricas         MetricasAluno     `json:"metricasAluno"`
	Acao             AcaoRecomendada   `json:"acaoRecomendada"`
}

// Validate schema-checks the report at the pipeline boundary. A report
// that fails here is a pipeline bug, not a data problem.
func (r *FinalReport) Validate() error {
	fail := func(msg string) error {
		return shared.NewDomainError("analysis", "Assemble", shared.ErrInvalidEntity, msg)
	}

	if strings.TrimSpace(r.IDAluno) == "" {
		return fail("idAluno is empty")
	}
	if r.DataAnalise == "" {
		return fail("dataAnalise is empty")
	}
	if r.ScoreRiscoEvasao < 0 || r.ScoreRiscoEvasao > 100 {
		return fail(fmt.Sprintf("scoreRiscoEvasao %d outside [0,100]", r.ScoreRiscoEvasao))
	}
	if !diagnosis.KnownKey(diagnosis.Key(r.DiagnosticoChave)) {
		return fail(fmt.Sprintf("unknown diagnosticoChave %q", r.DiagnosticoChave))
	}
	if r.Justificativa == "" {
		return fail("justificativa is empty")
	}

	for name, text := range map[string]string{
		"relatorioDesempenho":  r.Processo.RelatorioDesempenho,
		"relatorioEngajamento": r.Processo.RelatorioEngajamento,
		"hipoteseInicial":      r.Processo.HipoteseInicial,
		"validacaoDaHipotese":  r.Processo.ValidacaoDaHipotese,
	} {
		if text == "" {
			return fail(fmt.Sprintf("processoDeAnalise.%s is empty", name))
		}
	}

	if r.Metricas.FrequenciaPresencaAtual == "" {
		return fail("metricasAluno.frequenciaPresencaAtual is empty")
	}
	if r.Metricas.DisciplinaCritica == "" {
		return fail("metricasAluno.disciplinaCritica is empty")
	}

	switch {
	case r.Acao.PlaybookID == "":
		return fail("acaoRecomendada.playbookId is empty")
	case r.Acao.Canal == "":
		return fail("acaoRecomendada.canal is empty")
	case r.Acao.Titulo == "":
		return fail("acaoRecomendada.titulo is empty")
	case !strings.Contains(r.Acao.TemplateMensagem, "{id_aluno}"):
		return fail("acaoRecomendada.templateMensagem lost its {id_aluno} placeholder")
	}

	return nil
}
