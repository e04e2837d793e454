package controller

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/pix"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// PixController gerencia as requisições do protocolo de liquidação PIX
type PixController struct {
	pixService *service.PixService
	logger     logger.Logger
}

// NewPixController cria uma nova instância de PixController
func NewPixController(pixService *service.PixService, logger logger.Logger) *PixController {
	return &PixController{
		pixService: pixService,
		logger:     logger,
	}
}

// RequestCharge solicita uma cobrança PIX para uma venda aguardando pagamento
// @Summary Solicitar cobrança PIX
// @Description Cria a cobrança no gateway e retorna o payload do QR Code
// @Tags pix
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Success 201 {object} dto.PixTransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /vendas/{id}/pix [post]
func (c *PixController) RequestCharge(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	t, err := c.pixService.RequestCharge(ctx, rc, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, sale.ErrSaleNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", err.Error()))
		case errors.Is(err, service.ErrSaleNotAwaitingPix):
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "venda não aguarda PIX", err.Error()))
		default:
			ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "erro ao solicitar cobrança", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPixTransactionResponse(t))
}

// GetStatus retorna o status persistido de uma cobrança PIX.
// É o fallback de polling do terminal: responde do banco, sem consultar
// o gateway.
// @Summary Consultar status de cobrança PIX
// @Tags pix
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da cobrança"
// @Success 200 {object} dto.PixTransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /pix/{id}/status [get]
func (c *PixController) GetStatus(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	t, err := c.pixService.GetStatus(ctx, rc, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, pix.ErrTransactionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cobrança não encontrada", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao consultar cobrança", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPixTransactionResponse(t))
}

// Webhook recebe eventos de mudança de status do gateway PIX.
// A rota é autenticada por token compartilhado no cabeçalho, não por JWT.
// @Summary Webhook do gateway PIX
// @Accept json
// @Produce json
// @Param X-Webhook-Token header string true "Token compartilhado do gateway"
// @Param evento body dto.PixWebhookRequest true "Evento de mudança de status"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /webhooks/pix [post]
func (c *PixController) Webhook(ctx *gin.Context) {
	expected := os.Getenv("PIX_WEBHOOK_TOKEN")
	if expected == "" || ctx.GetHeader("X-Webhook-Token") != expected {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "token de webhook inválido", ""))
		return
	}

	var req dto.PixWebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "evento inválido", err.Error()))
		return
	}

	err := c.pixService.HandleWebhook(ctx, req.ExternalID, pix.StatusFromProvider(req.Status), req.Detail)
	if err != nil {
		if errors.Is(err, pix.ErrTransactionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cobrança não encontrada", err.Error()))
			return
		}
		c.logger.Error("falha ao processar webhook PIX",
			"external_id", req.ExternalID, "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao processar evento", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("evento processado", nil))
}
