package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/pix"
	"github.com/shopspring/decimal"
)

// PixClient é o cliente HTTP do gateway de pagamentos PIX.
// As chamadas passam por um circuit breaker para não insistir em um
// gateway indisponível.
type PixClient struct {
	baseURL     string
	credentials pix.CredentialsProvider
	httpClient  *http.Client
	breaker     *CircuitBreaker
}

// NewPixClient cria um novo cliente do gateway PIX
func NewPixClient(baseURL string, credentials pix.CredentialsProvider) *PixClient {
	return &PixClient{
		baseURL:     baseURL,
		credentials: credentials,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		breaker:     NewCircuitBreaker(DefaultBreakerConfig()),
	}
}

type pixChargeRequest struct {
	Amount    string `json:"amount"`
	Reference string `json:"reference"`
}

type pixChargeResponse struct {
	ID        string     `json:"id"`
	QRPayload string     `json:"qr_payload"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type pixStatusResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Detail json.RawMessage `json:"detail,omitempty"`
}

type pixRefundResponse struct {
	Status string `json:"status"`
}

// CreateCharge cria uma cobrança PIX no gateway
func (c *PixClient) CreateCharge(ctx context.Context, tenantID string, amount decimal.Decimal, reference string) (*pix.Charge, error) {
	body, err := json.Marshal(pixChargeRequest{
		Amount:    amount.StringFixed(2),
		Reference: reference,
	})
	if err != nil {
		return nil, fmt.Errorf("pix: erro ao serializar cobrança: %w", err)
	}

	var out pixChargeResponse
	err = c.breaker.Execute(func() error {
		return c.do(ctx, tenantID, http.MethodPost, "/v1/charges", body, &out)
	})
	if err != nil {
		return nil, err
	}

	return &pix.Charge{
		ExternalID: out.ID,
		QRPayload:  out.QRPayload,
		ExpiresAt:  out.ExpiresAt,
	}, nil
}

// GetChargeStatus consulta o status de uma cobrança no gateway
func (c *PixClient) GetChargeStatus(ctx context.Context, tenantID, externalID string) (pix.Status, json.RawMessage, error) {
	var out pixStatusResponse
	err := c.breaker.Execute(func() error {
		return c.do(ctx, tenantID, http.MethodGet, "/v1/charges/"+externalID, nil, &out)
	})
	if err != nil {
		return "", nil, err
	}
	return pix.StatusFromProvider(out.Status), out.Detail, nil
}

// Refund solicita o estorno de uma cobrança aprovada
func (c *PixClient) Refund(ctx context.Context, tenantID, externalID string) error {
	var out pixRefundResponse
	err := c.breaker.Execute(func() error {
		return c.do(ctx, tenantID, http.MethodPost, "/v1/charges/"+externalID+"/refund", nil, &out)
	})
	if err != nil {
		return err
	}
	if out.Status != "refunded" {
		return fmt.Errorf("pix: estorno não confirmado pelo gateway (status %q)", out.Status)
	}
	return nil
}

func (c *PixClient) do(ctx context.Context, tenantID, method, path string, body []byte, out interface{}) error {
	creds, err := c.credentials.Credentials(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("pix: erro ao resolver credenciais do tenant: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("pix: erro ao montar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pix: gateway inacessível: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pix: gateway retornou %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("pix: erro ao decodificar resposta: %w", err)
	}
	return nil
}

// EnvCredentialsProvider resolve as credenciais do gateway a partir de
// variáveis de ambiente, com chave opcional por tenant
// (PIX_API_KEY_<tenant> sobrepõe PIX_API_KEY).
type EnvCredentialsProvider struct{}

// Credentials implementa pix.CredentialsProvider
func (EnvCredentialsProvider) Credentials(_ context.Context, tenantID string) (*pix.Credentials, error) {
	if key := os.Getenv("PIX_API_KEY_" + tenantID); key != "" {
		return &pix.Credentials{APIKey: key}, nil
	}
	key := os.Getenv("PIX_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("credenciais PIX não configuradas para o tenant %s", tenantID)
	}
	return &pix.Credentials{APIKey: key}, nil
}
