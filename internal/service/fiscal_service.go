package service

import (
	"context"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/fiscal"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// FiscalService conduz a emissão do cupom fiscal junto ao serviço emissor
// externo. Falha na emissão marca a venda com status fiscal de erro e
// nunca a reverte.
type FiscalService struct {
	sales  sale.Repository
	issuer fiscal.Issuer
	logger logger.Logger
}

// NewFiscalService cria uma nova instância de FiscalService
func NewFiscalService(sales sale.Repository, issuer fiscal.Issuer, logger logger.Logger) *FiscalService {
	return &FiscalService{sales: sales, issuer: issuer, logger: logger}
}

// ProcessIssuance emite o cupom fiscal de uma venda. Chamado pelo worker
// de emissão; o retorno de erro sinaliza retentativa, não reversão.
func (s *FiscalService) ProcessIssuance(ctx context.Context, tenantID, saleID string) error {
	venda, err := s.sales.FindByID(ctx, tenantID, saleID)
	if err != nil {
		return err
	}
	if venda.FiscalStatus == sale.FiscalIssued {
		return nil
	}

	if err := s.sales.UpdateFiscalStatus(ctx, tenantID, saleID, sale.FiscalProcessing, ""); err != nil {
		return err
	}

	result, err := s.issuer.IssueReceipt(ctx, tenantID, saleID)
	if err != nil {
		s.logger.Error("emissão fiscal falhou",
			"sale_id", saleID, "error", err.Error())
		if updErr := s.sales.UpdateFiscalStatus(ctx, tenantID, saleID, sale.FiscalError, ""); updErr != nil {
			s.logger.Error("falha ao registrar erro fiscal na venda",
				"sale_id", saleID, "error", updErr.Error())
		}
		return err
	}

	if err := s.sales.UpdateFiscalStatus(ctx, tenantID, saleID, sale.FiscalIssued, result.ReceiptKey); err != nil {
		return err
	}

	s.logger.Info("cupom fiscal emitido",
		"sale_id", saleID,
		"receipt_key", result.ReceiptKey)

	return nil
}
