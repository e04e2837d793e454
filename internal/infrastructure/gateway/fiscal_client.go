package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/fiscal"
)

// FiscalClient é o cliente HTTP do serviço emissor de cupons fiscais.
// O emissor é uma caixa-preta: recebe o ID da venda e devolve a chave
// de acesso e o protocolo da NFC-e autorizada.
type FiscalClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

// NewFiscalClient cria um novo cliente do emissor fiscal
func NewFiscalClient(baseURL, apiKey string) *FiscalClient {
	return &FiscalClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker:    NewCircuitBreaker(DefaultBreakerConfig()),
	}
}

type issueRequest struct {
	TenantID string `json:"tenant_id"`
	SaleID   string `json:"sale_id"`
}

type issueResponse struct {
	Status         string `json:"status"`
	ReceiptKey     string `json:"receipt_key"`
	ProtocolNumber string `json:"protocol_number"`
	DocumentBlob   []byte `json:"document_blob"`
	Message        string `json:"message,omitempty"`
}

// IssueReceipt solicita a emissão do cupom fiscal de uma venda
func (c *FiscalClient) IssueReceipt(ctx context.Context, tenantID, saleID string) (*fiscal.Result, error) {
	body, err := json.Marshal(issueRequest{TenantID: tenantID, SaleID: saleID})
	if err != nil {
		return nil, fmt.Errorf("fiscal: erro ao serializar requisição: %w", err)
	}

	var out issueResponse
	err = c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/receipts", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("fiscal: erro ao montar requisição: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fiscal: emissor inacessível: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("fiscal: emissor retornou %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		return nil, err
	}

	if out.Status != "issued" {
		return nil, fmt.Errorf("%w: %s", fiscal.ErrIssuanceFailed, out.Message)
	}

	return &fiscal.Result{
		ReceiptKey:     out.ReceiptKey,
		ProtocolNumber: out.ProtocolNumber,
		DocumentBlob:   out.DocumentBlob,
	}, nil
}
