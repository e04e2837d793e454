package fiscal

import (
	"context"
	"errors"
)

// ErrIssuanceFailed indica falha na emissão do cupom fiscal.
// A falha é registrada na venda e nunca a reverte.
var ErrIssuanceFailed = errors.New("falha na emissão do cupom fiscal")

// Result representa o resultado da emissão de um cupom fiscal (NFC-e)
// pelo serviço emissor externo
type Result struct {
	ReceiptKey     string `json:"receipt_key"`     // Chave de acesso da NFC-e
	ProtocolNumber string `json:"protocol_number"` // Protocolo de autorização
	DocumentBlob   []byte `json:"document_blob"`   // XML autorizado
}

// Issuer define o contrato com o serviço emissor de cupons fiscais.
// Geração de XML e transmissão à SEFAZ são responsabilidade do serviço
// externo.
type Issuer interface {
	IssueReceipt(ctx context.Context, tenantID, saleID string) (*Result, error)
}
