// Package notify implements the optional alert dispatch for recommended
// actions. This is presentation-layer territory: template placeholders are
// resolved here, after the report is assembled, never inside the pipeline.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/veloedu/risk-radar/internal/application/analysis"
	"github.com/veloedu/risk-radar/internal/domain/shared"
	"github.com/veloedu/risk-radar/pkg/logger"
	"github.com/veloedu/risk-radar/pkg/retry"
)

// TelegramConfig contains configuration for the Telegram alert channel.
type TelegramConfig struct {
	// Token is the Telegram Bot API token.
	Token string

	// ChatID is the destination chat (the coordination team's channel).
	ChatID string

	// BaseURL is the Bot API base URL (default https://api.telegram.org).
	BaseURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// RetryAttempts is the number of attempts for transient failures.
	RetryAttempts int
}

// DefaultTelegramConfig returns sensible defaults.
func DefaultTelegramConfig(token, chatID string) TelegramConfig {
	return TelegramConfig{
		Token:         token,
		ChatID:        chatID,
		BaseURL:       "https://api.telegram.org",
		Timeout:       30 * time.Second,
		RetryAttempts: 3,
	}
}

// TelegramNotifier sends the rendered recommended action as an alert.
type TelegramNotifier struct {
	cfg     TelegramConfig
	client  *http.Client
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewTelegramNotifier creates the notifier.
func NewTelegramNotifier(cfg TelegramConfig, log *logger.Logger) *TelegramNotifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.telegram.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Default()
	}
	return &TelegramNotifier{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		retrier: retry.New(retry.Config{MaxAttempts: cfg.RetryAttempts}),
		log:     log.With(logger.String("component", "notify.telegram")),
	}
}

// RenderMessage resolves the action template placeholders for delivery.
// Only this layer does substitution; the report JSON keeps {id_aluno}.
func RenderMessage(result *analysis.Result) string {
	report := result.Report
	name := result.StudentName
	if name == "" {
		name = "Aluno"
	}

	msg := report.Acao.TemplateMensagem
	msg = strings.ReplaceAll(msg, "{id_aluno}", report.IDAluno)
	msg = strings.ReplaceAll(msg, "[Nome]", name)

	return fmt.Sprintf("%s\n\n%s\n\nScore de risco: %d | Diagnóstico: %s",
		report.Acao.Titulo, msg, report.ScoreRiscoEvasao, report.DiagnosticoChave)
}

// Send delivers the alert for an analysis result. Transient API failures
// (429, 5xx, network errors) are retried; anything else is permanent.
func (n *TelegramNotifier) Send(ctx context.Context, result *analysis.Result) error {
	if n.cfg.Token == "" || n.cfg.ChatID == "" {
		return shared.NewDomainError("notify", "Send", shared.ErrInvalidInput,
			"telegram token and chat id are required")
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": n.cfg.ChatID,
		"text":    RenderMessage(result),
	})
	if err != nil {
		return shared.WrapError("notify", "Send", shared.ErrInvalidFormat,
			"marshaling sendMessage payload", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.BaseURL, n.cfg.Token)

	err = n.retrier.Do(ctx, func(ctx context.Context) error {
		return n.post(ctx, url, payload)
	})
	if err != nil {
		return shared.WrapError("notify", "Send", shared.ErrExternalService,
			"delivering telegram alert", err)
	}

	n.log.Info("alert dispatched",
		logger.String("student_id", result.Report.IDAluno),
		logger.String("playbook_id", result.Report.Acao.PlaybookID))
	return nil
}

func (n *TelegramNotifier) post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return retry.Retryable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := fmt.Errorf("telegram API status %d: %s", resp.StatusCode, string(body))

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return retry.Retryable(apiErr)
	}
	return retry.Permanent(apiErr)
}
