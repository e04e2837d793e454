package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/pix"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// ErrSaleNotAwaitingPix ocorre quando uma cobrança é solicitada para uma
// venda que não está aguardando pagamento PIX
var ErrSaleNotAwaitingPix = errors.New("a venda não está aguardando pagamento PIX")

// PixService conduz o protocolo assíncrono de liquidação PIX: solicita a
// cobrança ao gateway, recebe a confirmação por webhook ou polling e, na
// aprovação, conclui a venda atomicamente. Webhook e polling disputam a
// mesma transição condicional no banco; o segundo a chegar é descartado.
type PixService struct {
	transactions pix.Repository
	sales        sale.Repository
	gateway      pix.Gateway
	audit        *AuditService
	dispatcher   Dispatcher
	logger       logger.Logger
}

// NewPixService cria uma nova instância de PixService
func NewPixService(transactions pix.Repository, sales sale.Repository, gateway pix.Gateway, audit *AuditService, dispatcher Dispatcher, logger logger.Logger) *PixService {
	return &PixService{
		transactions: transactions,
		sales:        sales,
		gateway:      gateway,
		audit:        audit,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// RequestCharge cria uma cobrança PIX para uma venda aguardando pagamento
// e agenda o acompanhamento da confirmação
func (s *PixService) RequestCharge(ctx context.Context, rc auth.RequestContext, saleID string) (*pix.Transaction, error) {
	venda, err := s.sales.FindByID(ctx, rc.TenantID, saleID)
	if err != nil {
		return nil, err
	}
	if venda.PaymentMethod != sale.PaymentPix || venda.Status != sale.StatusPendingPayment {
		return nil, ErrSaleNotAwaitingPix
	}

	charge, err := s.gateway.CreateCharge(ctx, rc.TenantID, venda.Total, venda.ID)
	if err != nil {
		return nil, err
	}

	t, err := pix.NewTransaction(rc.TenantID, venda.ID, charge.ExternalID,
		charge.QRPayload, venda.Total, charge.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("cobrança PIX criada",
		"transaction_id", t.ID,
		"sale_id", venda.ID,
		"external_id", t.ExternalID,
		"amount", t.Amount.String())

	if err := s.dispatcher.EnqueuePixPoll(ctx, rc.TenantID, t.ID); err != nil {
		s.logger.Error("falha ao agendar acompanhamento da cobrança PIX",
			"transaction_id", t.ID, "error", err.Error())
	}

	return t, nil
}

// HandleWebhook processa um evento de mudança de status vindo do gateway,
// chaveado pelo ID externo da cobrança
func (s *PixService) HandleWebhook(ctx context.Context, externalID string, status pix.Status, metadata json.RawMessage) error {
	t, err := s.transactions.FindByExternalID(ctx, externalID)
	if err != nil {
		return err
	}

	_, err = s.applyGatewayStatus(ctx, t, status, metadata)
	return err
}

// Poll consulta o gateway sobre uma cobrança pendente. Retorna true quando
// a cobrança saiu do estado pendente e o acompanhamento pode parar.
func (s *PixService) Poll(ctx context.Context, tenantID, transactionID string) (bool, error) {
	t, err := s.transactions.FindByID(ctx, tenantID, transactionID)
	if err != nil {
		return false, err
	}
	if !t.IsPending() {
		return true, nil
	}

	status, metadata, err := s.gateway.GetChargeStatus(ctx, tenantID, t.ExternalID)
	if err != nil {
		return false, err
	}

	return s.applyGatewayStatus(ctx, t, status, metadata)
}

// applyGatewayStatus aplica o status reportado pelo gateway. A transição
// no banco é condicional ao status corrente: se o webhook e o poller
// chegarem com o mesmo evento, só o primeiro tem efeito. Retorna true
// quando a cobrança está liquidada (não pendente).
func (s *PixService) applyGatewayStatus(ctx context.Context, t *pix.Transaction, status pix.Status, metadata json.RawMessage) (bool, error) {
	switch status {
	case pix.StatusPending:
		return false, nil

	case pix.StatusApproved:
		err := s.transactions.UpdateStatus(ctx, t.TenantID, t.ID,
			pix.StatusPending, pix.StatusApproved, metadata)
		if err != nil {
			if errors.Is(err, pix.ErrInvalidTransition) {
				return true, s.refundIfSaleCancelled(ctx, t)
			}
			return false, err
		}

		venda, err := s.sales.FinalizePix(ctx, t.TenantID, t.SaleID)
		if err != nil {
			// Aprovação tardia: a venda pode ter sido finalizada por
			// outro caminho ou já estar cancelada
			if errors.Is(err, sale.ErrNotPendingPayment) {
				return true, s.refundIfSaleCancelled(ctx, t)
			}
			return false, err
		}

		s.logger.Info("pagamento PIX aprovado",
			"transaction_id", t.ID,
			"sale_id", venda.ID,
			"number", venda.Number)

		s.audit.Record(ctx, audit.NewEntry(t.TenantID, "", "",
			audit.ActionPixApproved, "venda", venda.ID,
			map[string]interface{}{"status": sale.StatusPendingPayment},
			map[string]interface{}{"status": venda.Status}, ""))

		if err := s.dispatcher.EnqueueFiscalIssuance(ctx, t.TenantID, venda.ID); err != nil {
			s.logger.Error("falha ao enfileirar emissão fiscal",
				"sale_id", venda.ID, "error", err.Error())
		}
		return true, nil

	case pix.StatusRejected:
		err := s.transactions.UpdateStatus(ctx, t.TenantID, t.ID,
			pix.StatusPending, pix.StatusRejected, metadata)
		if err != nil && !errors.Is(err, pix.ErrInvalidTransition) {
			return false, err
		}
		s.logger.Info("cobrança PIX rejeitada",
			"transaction_id", t.ID, "sale_id", t.SaleID)
		return true, nil

	case pix.StatusRefunded:
		err := s.transactions.UpdateStatus(ctx, t.TenantID, t.ID,
			pix.StatusApproved, pix.StatusRefunded, metadata)
		if err != nil && !errors.Is(err, pix.ErrInvalidTransition) {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// refundIfSaleCancelled trata a aprovação que chega depois da venda ter
// saído do estado aguardando pagamento. Se a venda foi cancelada, o
// cliente pagou por nada: a cobrança é estornada junto ao gateway e
// marcada como estornada. Venda finalizada por outro caminho não tem
// nada a estornar. Falha no estorno retorna erro para que a entrega do
// evento seja repetida.
func (s *PixService) refundIfSaleCancelled(ctx context.Context, t *pix.Transaction) error {
	current, err := s.transactions.FindByID(ctx, t.TenantID, t.ID)
	if err != nil {
		return err
	}
	if current.Status != pix.StatusApproved {
		return nil
	}

	venda, err := s.sales.FindByID(ctx, t.TenantID, t.SaleID)
	if err != nil {
		return err
	}
	if venda.Status != sale.StatusCancelled {
		return nil
	}

	if err := s.gateway.Refund(ctx, t.TenantID, t.ExternalID); err != nil {
		return err
	}
	if err := s.transactions.UpdateStatus(ctx, t.TenantID, t.ID,
		pix.StatusApproved, pix.StatusRefunded, nil); err != nil {
		if !errors.Is(err, pix.ErrInvalidTransition) {
			return err
		}
	}

	s.logger.Info("aprovação tardia de venda cancelada, cobrança estornada",
		"transaction_id", t.ID, "sale_id", t.SaleID)

	s.audit.Record(ctx, audit.NewEntry(t.TenantID, "", "",
		audit.ActionPixRefunded, "pix", t.ID,
		map[string]interface{}{"status": pix.StatusApproved},
		map[string]interface{}{"status": pix.StatusRefunded}, ""))

	return nil
}

// GetStatus retorna o status persistido de uma cobrança. É o fallback de
// polling do cliente: responde do banco, sem consultar o gateway.
func (s *PixService) GetStatus(ctx context.Context, rc auth.RequestContext, transactionID string) (*pix.Transaction, error) {
	return s.transactions.FindByID(ctx, rc.TenantID, transactionID)
}

// RefundForSale estorna a cobrança aprovada de uma venda junto ao
// gateway. O estorno precisa ser confirmado antes de qualquer mudança
// persistida do cancelamento; falha aqui aborta o cancelamento.
func (s *PixService) RefundForSale(ctx context.Context, rc auth.RequestContext, saleID string) error {
	t, err := s.transactions.FindBySale(ctx, rc.TenantID, saleID)
	if err != nil {
		return err
	}

	switch t.Status {
	case pix.StatusRefunded:
		return nil
	case pix.StatusApproved:
		// segue para o estorno
	default:
		return pix.ErrChargeNotApproved
	}

	if err := s.gateway.Refund(ctx, rc.TenantID, t.ExternalID); err != nil {
		return err
	}

	if err := s.transactions.UpdateStatus(ctx, rc.TenantID, t.ID,
		pix.StatusApproved, pix.StatusRefunded, nil); err != nil {
		if !errors.Is(err, pix.ErrInvalidTransition) {
			return err
		}
	}

	s.logger.Info("cobrança PIX estornada",
		"transaction_id", t.ID, "sale_id", saleID)

	s.audit.Record(ctx, audit.NewEntry(rc.TenantID, rc.UserID, rc.OperatorID,
		audit.ActionPixRefunded, "pix", t.ID,
		map[string]interface{}{"status": pix.StatusApproved},
		map[string]interface{}{"status": pix.StatusRefunded}, ""))

	return nil
}
