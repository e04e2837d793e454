package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// VendaController gerencia as requisições relacionadas a vendas
type VendaController struct {
	saleService *service.SaleService
	logger      logger.Logger
}

// NewVendaController cria uma nova instância de VendaController
func NewVendaController(saleService *service.SaleService, logger logger.Logger) *VendaController {
	return &VendaController{
		saleService: saleService,
		logger:      logger,
	}
}

// Finalizar finaliza uma venda
// @Summary Finalizar venda
// @Description Finaliza a venda com baixa de estoque e movimentação de caixa atômicas. Vendas PIX ficam aguardando pagamento.
// @Tags vendas
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param venda body dto.VendaRequest true "Dados da venda"
// @Success 201 {object} dto.VendaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /vendas [post]
func (c *VendaController) Finalizar(ctx *gin.Context) {
	var req dto.VendaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	input := service.FinalizeSaleInput{
		Discount:      req.Discount,
		PaymentMethod: sale.PaymentMethod(req.PaymentMethod),
		CustomerID:    req.CustomerID,
		RegisterID:    req.RegisterID,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.SaleItemInput{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	rc := auth.FromGinContext(ctx)
	venda, err := c.saleService.FinalizarVenda(ctx, rc, input)
	if err != nil {
		c.respondVendaError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToVendaResponse(venda))
}

func (c *VendaController) respondVendaError(ctx *gin.Context, err error) {
	switch {
	case stock.IsInsufficientStock(err):
		// A mensagem nomeia o produto e o estoque disponível
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "estoque insuficiente", err.Error()))
	case errors.Is(err, stock.ErrProductNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
	case errors.Is(err, sale.ErrEmptyCart),
		errors.Is(err, sale.ErrInvalidPaymentMethod),
		errors.Is(err, sale.ErrInvalidDiscount),
		errors.Is(err, sale.ErrInvalidQuantity),
		errors.Is(err, sale.ErrFractionalQuantity),
		errors.Is(err, sale.ErrEmptyDescription):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "venda inválida", err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao finalizar venda", err.Error()))
	}
}

// Cancelar cancela uma venda com autorização de supervisor
// @Summary Cancelar venda
// @Description Cancela a venda estornando o estoque. Vendas PIX aprovadas exigem estorno confirmado pelo gateway.
// @Tags vendas
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Param cancelamento body dto.CancelamentoVendaRequest true "Motivo e autorização"
// @Success 200 {object} dto.VendaResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /vendas/{id}/cancelamento [post]
func (c *VendaController) Cancelar(ctx *gin.Context) {
	var req dto.CancelamentoVendaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	venda, err := c.saleService.CancelarVenda(ctx, rc, ctx.Param("id"), req.Reason, req.SupervisorCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthorizationDenied):
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "autorização negada", err.Error()))
		case errors.Is(err, service.ErrTooManyAttempts):
			ctx.JSON(http.StatusTooManyRequests, dto.NewErrorResponse(http.StatusTooManyRequests, "limite de tentativas", err.Error()))
		case errors.Is(err, sale.ErrSaleNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", err.Error()))
		case errors.Is(err, sale.ErrAlreadyCancelled):
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "venda já cancelada", err.Error()))
		default:
			// Inclui falha de estorno no gateway: nada foi persistido
			ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "erro ao cancelar venda", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.ToVendaResponse(venda))
}

// Get busca uma venda pelo ID
// @Summary Buscar venda
// @Tags vendas
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.VendaResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /vendas/{id} [get]
func (c *VendaController) Get(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	venda, err := c.saleService.BuscarPorID(ctx, rc, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, sale.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar venda", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToVendaResponse(venda))
}

// List lista as vendas do tenant
// @Summary Listar vendas
// @Tags vendas
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} dto.VendaResponse
// @Router /vendas [get]
func (c *VendaController) List(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	p := dto.GetPagination(queryInt(ctx, "page"), queryInt(ctx, "page_size"))

	vendas, err := c.saleService.Listar(ctx, rc, p.PageSize, p.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar vendas", err.Error()))
		return
	}

	out := make([]dto.VendaResponse, 0, len(vendas))
	for _, v := range vendas {
		out = append(out, dto.ToVendaResponse(v))
	}
	ctx.JSON(http.StatusOK, out)
}
