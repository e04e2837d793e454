package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// FiscalWorker processa os trabalhos de emissão de cupom fiscal.
// Falhas são retentadas com backoff; esgotadas as tentativas, a venda
// permanece com status fiscal de erro e o trabalho é descartado.
type FiscalWorker struct {
	fiscal      *service.FiscalService
	logger      logger.Logger
	maxAttempts int
	baseBackoff time.Duration
}

// NewFiscalWorker cria uma nova instância de FiscalWorker
func NewFiscalWorker(fiscal *service.FiscalService, logger logger.Logger) *FiscalWorker {
	return &FiscalWorker{
		fiscal:      fiscal,
		logger:      logger,
		maxAttempts: 3,
		baseBackoff: time.Second,
	}
}

// Process emite o cupom fiscal da venda, com retentativas
func (w *FiscalWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload FiscalJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		w.logger.Error("trabalho fiscal com carga inválida", "error", err.Error())
		return
	}

	backoff := w.baseBackoff
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.fiscal.ProcessIssuance(ctx, payload.TenantID, payload.SaleID)
		if err == nil {
			return
		}

		w.logger.Warn("tentativa de emissão fiscal falhou",
			"sale_id", payload.SaleID,
			"attempt", attempt,
			"error", err.Error())

		if attempt == w.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	w.logger.Error("emissão fiscal esgotou as tentativas",
		"sale_id", payload.SaleID)
}
