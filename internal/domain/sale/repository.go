package sale

import (
	"context"
)

// Repository define a interface para operações de repositório de vendas.
// A finalização e o cancelamento são operações compostas aplicadas em uma
// única transação no banco: venda + itens + baixas/estornos de estoque +
// movimentação de caixa nunca ficam parcialmente gravados.
type Repository interface {
	// CommitSale persiste a venda com seus itens, aplica a baixa de
	// estoque de cada item de catálogo por decremento condicional
	// (rejeita com *stock.InsufficientStockError na primeira falta,
	// nomeando o produto) e, para vendas já finalizadas, registra a
	// movimentação de caixa incrementando o saldo corrente. Tudo em uma
	// única transação; o número sequencial da venda é atribuído pelo
	// banco e preenchido em s.Number.
	CommitSale(ctx context.Context, s *Sale) error

	// CancelSale persiste o cancelamento: status e metadados da venda,
	// estorno de estoque por item de catálogo e, quando compensateCash
	// está habilitado, a sangria compensatória no caixa — em uma única
	// transação.
	CancelSale(ctx context.Context, s *Sale, compensateCash bool) error

	// FinalizePix conclui uma venda PIX aguardando pagamento: muda o
	// status para finalizada e registra a movimentação de caixa na
	// mesma transação. Retorna ErrNotPendingPayment se a venda não
	// estiver aguardando confirmação.
	FinalizePix(ctx context.Context, tenantID, saleID string) (*Sale, error)

	// FindByID busca uma venda com seus itens
	FindByID(ctx context.Context, tenantID, id string) (*Sale, error)

	// List lista as vendas de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Sale, error)

	// UpdateFiscalStatus atualiza o estado de emissão do cupom fiscal.
	// Falhas de emissão nunca revertem a venda.
	UpdateFiscalStatus(ctx context.Context, tenantID, id string, status FiscalStatus, receiptKey string) error
}
