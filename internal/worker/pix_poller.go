package worker

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// PixPollerConfig limita o acompanhamento de uma cobrança pendente
type PixPollerConfig struct {
	MaxAttempts int
	Interval    time.Duration
}

// PixPollerConfigFromEnv lê a configuração do poller das variáveis de
// ambiente (PIX_POLL_MAX_ATTEMPTS, PIX_POLL_INTERVAL em segundos)
func PixPollerConfigFromEnv() PixPollerConfig {
	cfg := PixPollerConfig{MaxAttempts: 120, Interval: time.Second}
	if v, err := strconv.Atoi(os.Getenv("PIX_POLL_MAX_ATTEMPTS")); err == nil && v > 0 {
		cfg.MaxAttempts = v
	}
	if v, err := strconv.Atoi(os.Getenv("PIX_POLL_INTERVAL")); err == nil && v > 0 {
		cfg.Interval = time.Duration(v) * time.Second
	}
	return cfg
}

// PixPoller acompanha cobranças PIX pendentes consultando o gateway em
// intervalos fixos. É o fallback do webhook: a transição no banco é
// condicional, então quem chegar primeiro liquida e o outro é descartado.
// O acompanhamento é limitado; cobranças que permanecerem pendentes ficam
// a cargo do webhook ou de uma nova cobrança.
type PixPoller struct {
	pix    *service.PixService
	cfg    PixPollerConfig
	logger logger.Logger
}

// NewPixPoller cria uma nova instância de PixPoller
func NewPixPoller(pix *service.PixService, cfg PixPollerConfig, logger logger.Logger) *PixPoller {
	return &PixPoller{pix: pix, cfg: cfg, logger: logger}
}

// Process acompanha uma cobrança até a liquidação ou o esgotamento das
// tentativas
func (w *PixPoller) Process(ctx context.Context, raw json.RawMessage) {
	var payload PixPollJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		w.logger.Error("trabalho de acompanhamento PIX com carga inválida", "error", err.Error())
		return
	}

	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		done, err := w.pix.Poll(ctx, payload.TenantID, payload.TransactionID)
		if err != nil {
			w.logger.Warn("consulta de cobrança PIX falhou",
				"transaction_id", payload.TransactionID,
				"attempt", attempt,
				"error", err.Error())
		} else if done {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.cfg.Interval):
		}
	}

	w.logger.Warn("acompanhamento PIX esgotou as tentativas",
		"transaction_id", payload.TransactionID)
}
