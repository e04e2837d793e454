package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/pix"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/shopspring/decimal"
)

// SaleItemInput representa um item do carrinho na finalização da venda.
// ProductID vazio indica item avulso (fora do catálogo).
type SaleItemInput struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// FinalizeSaleInput agrupa os dados da finalização de uma venda
type FinalizeSaleInput struct {
	Items         []SaleItemInput
	Discount      decimal.Decimal
	PaymentMethod sale.PaymentMethod
	CustomerID    string
	RegisterID    string
}

// SaleService orquestra a finalização e o cancelamento de vendas.
// A finalização grava venda, itens, baixas de estoque e movimentação de
// caixa em uma única transação; o cancelamento estorna exatamente o que
// foi gravado, com estorno PIX antes de qualquer mudança persistida.
type SaleService struct {
	sales       sale.Repository
	products    product.Repository
	pixService  *PixService
	supervisors *SupervisorService
	audit       *AuditService
	dispatcher  Dispatcher
	logger      logger.Logger

	// compensateOnCancel controla a movimentação compensatória de caixa no
	// cancelamento. Ligado por padrão; desligado reproduz o comportamento
	// legado em que o saldo do caixa mantém o valor da venda cancelada.
	compensateOnCancel bool
}

// NewSaleService cria uma nova instância de SaleService
func NewSaleService(sales sale.Repository, products product.Repository, pixService *PixService, supervisors *SupervisorService, audit *AuditService, dispatcher Dispatcher, logger logger.Logger, compensateOnCancel bool) *SaleService {
	return &SaleService{
		sales:              sales,
		products:           products,
		pixService:         pixService,
		supervisors:        supervisors,
		audit:              audit,
		dispatcher:         dispatcher,
		logger:             logger,
		compensateOnCancel: compensateOnCancel,
	}
}

// FinalizarVenda monta o carrinho a partir dos itens informados e comete
// a venda. Vendas PIX nascem aguardando pagamento; a cobrança é
// solicitada em seguida via PixService.RequestCharge.
func (s *SaleService) FinalizarVenda(ctx context.Context, rc auth.RequestContext, input FinalizeSaleInput) (*sale.Sale, error) {
	cart, err := s.buildCart(ctx, rc.TenantID, input.Items)
	if err != nil {
		return nil, err
	}

	var customerID, registerID *string
	if input.CustomerID != "" {
		customerID = &input.CustomerID
	}
	if input.RegisterID != "" {
		registerID = &input.RegisterID
	}

	venda, err := sale.NewSale(rc.TenantID, rc.Operator(), cart,
		input.Discount, input.PaymentMethod, customerID, registerID)
	if err != nil {
		return nil, err
	}

	// A revalidação de estoque contra o estado persistido acontece dentro
	// da transação, pelo decremento condicional — uma corrida desde a
	// montagem do carrinho resulta em rejeição nomeando o produto
	if err := s.sales.CommitSale(ctx, venda); err != nil {
		return nil, err
	}

	s.logger.Info("venda finalizada",
		"sale_id", venda.ID,
		"number", venda.Number,
		"total", venda.Total.String(),
		"payment_method", string(venda.PaymentMethod),
		"status", string(venda.Status))

	s.audit.Record(ctx, audit.NewEntry(rc.TenantID, rc.UserID, rc.OperatorID,
		audit.ActionSaleCreated, "venda", venda.ID, nil, map[string]interface{}{
			"number":         venda.Number,
			"total":          venda.Total,
			"payment_method": venda.PaymentMethod,
			"line_count":     len(venda.Lines),
		}, ""))

	// Emissão fiscal só após a venda estar de fato finalizada; vendas PIX
	// enfileiram na confirmação do pagamento
	if venda.Status == sale.StatusFinalized {
		if err := s.dispatcher.EnqueueFiscalIssuance(ctx, rc.TenantID, venda.ID); err != nil {
			s.logger.Error("falha ao enfileirar emissão fiscal",
				"sale_id", venda.ID, "error", err.Error())
		}
	}

	return venda, nil
}

// buildCart carrega os produtos de catálogo e acumula os itens no
// carrinho, aplicando as regras de mesclagem e a checagem de snapshot
func (s *SaleService) buildCart(ctx context.Context, tenantID string, items []SaleItemInput) (*sale.Cart, error) {
	if len(items) == 0 {
		return nil, sale.ErrEmptyCart
	}

	cart := sale.NewCart()
	for _, item := range items {
		if item.ProductID == "" {
			if err := cart.AddManual(item.Description, item.Quantity, item.UnitPrice); err != nil {
				return nil, err
			}
			continue
		}

		p, err := s.products.FindByID(ctx, tenantID, item.ProductID)
		if err != nil {
			return nil, err
		}
		if err := cart.AddProduct(p, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	return cart, nil
}

// CancelarVenda cancela uma venda com autorização de supervisor.
// Para vendas PIX aprovadas, o estorno junto ao gateway precisa ser
// concluído antes de qualquer estado persistido mudar: falha no estorno
// aborta o cancelamento inteiro.
func (s *SaleService) CancelarVenda(ctx context.Context, rc auth.RequestContext, saleID, reason, supervisorCode string) (*sale.Sale, error) {
	sup, err := s.supervisors.Authorize(ctx, rc, supervisorCode)
	if err != nil {
		return nil, err
	}

	venda, err := s.sales.FindByID(ctx, rc.TenantID, saleID)
	if err != nil {
		return nil, err
	}
	if venda.Status == sale.StatusCancelled {
		return nil, sale.ErrAlreadyCancelled
	}

	// Estorno primeiro: nada é persistido enquanto o gateway não confirmar
	if venda.PaymentMethod == sale.PaymentPix {
		if err := s.pixService.RefundForSale(ctx, rc, saleID); err != nil {
			if !errors.Is(err, pix.ErrTransactionNotFound) && !errors.Is(err, pix.ErrChargeNotApproved) {
				return nil, fmt.Errorf("estorno PIX falhou, cancelamento abortado: %w", err)
			}
		}
	}

	before := map[string]interface{}{"status": venda.Status}

	// Só compensa o caixa quando a venda chegou a registrar entrada:
	// vendas aguardando pagamento nunca movimentaram o caixa
	compensate := s.compensateOnCancel && venda.Status == sale.StatusFinalized

	if err := venda.Cancel(sup.ID, reason); err != nil {
		return nil, err
	}

	if err := s.sales.CancelSale(ctx, venda, compensate); err != nil {
		return nil, err
	}

	s.logger.Info("venda cancelada",
		"sale_id", venda.ID,
		"number", venda.Number,
		"cancelled_by", sup.ID)

	s.audit.Record(ctx, audit.NewEntry(rc.TenantID, rc.UserID, rc.OperatorID,
		audit.ActionSaleCancelled, "venda", venda.ID, before,
		map[string]interface{}{"status": venda.Status}, reason))

	return venda, nil
}

// BuscarPorID busca uma venda com seus itens
func (s *SaleService) BuscarPorID(ctx context.Context, rc auth.RequestContext, saleID string) (*sale.Sale, error) {
	return s.sales.FindByID(ctx, rc.TenantID, saleID)
}

// Listar lista as vendas do tenant
func (s *SaleService) Listar(ctx context.Context, rc auth.RequestContext, limit, offset int) ([]*sale.Sale, error) {
	return s.sales.List(ctx, rc.TenantID, limit, offset)
}
