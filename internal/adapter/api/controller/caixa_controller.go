package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/register"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// CaixaController gerencia as requisições relacionadas às sessões de caixa
type CaixaController struct {
	caixaService *service.CaixaService
	logger       logger.Logger
}

// NewCaixaController cria uma nova instância de CaixaController
func NewCaixaController(caixaService *service.CaixaService, logger logger.Logger) *CaixaController {
	return &CaixaController{
		caixaService: caixaService,
		logger:       logger,
	}
}

// Abrir abre uma nova sessão de caixa
// @Summary Abrir caixa
// @Description Abre uma nova sessão de caixa para o operador autenticado
// @Tags caixas
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param caixa body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.CaixaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /caixas [post]
func (c *CaixaController) Abrir(ctx *gin.Context) {
	var req dto.AbrirCaixaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	reg, err := c.caixaService.Abrir(ctx, rc, req.OpeningBalance, req.Notes)
	if err != nil {
		if errors.Is(err, register.ErrAlreadyOpen) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "caixa já aberto", err.Error()))
			return
		}
		if errors.Is(err, register.ErrNegativeOpeningBalance) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "abertura inválida", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao abrir caixa", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCaixaResponse(reg))
}

// Sangria registra uma retirada autorizada de dinheiro do caixa
// @Summary Registrar sangria
// @Description Registra uma retirada de dinheiro, com autorização de supervisor
// @Tags caixas
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do caixa"
// @Param movimento body dto.MovimentoCaixaRequest true "Dados da sangria"
// @Success 200 {object} dto.CaixaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /caixas/{id}/sangria [post]
func (c *CaixaController) Sangria(ctx *gin.Context) {
	c.movimento(ctx, register.MovementSangria)
}

// Suprimento registra um reforço de troco no caixa
// @Summary Registrar suprimento
// @Description Registra um reforço de troco, com autorização de supervisor
// @Tags caixas
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do caixa"
// @Param movimento body dto.MovimentoCaixaRequest true "Dados do suprimento"
// @Success 200 {object} dto.CaixaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /caixas/{id}/suprimento [post]
func (c *CaixaController) Suprimento(ctx *gin.Context) {
	c.movimento(ctx, register.MovementSuprimento)
}

func (c *CaixaController) movimento(ctx *gin.Context, kind register.MovementKind) {
	var req dto.MovimentoCaixaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	registerID := ctx.Param("id")

	var reg *register.CashRegister
	var err error
	if kind == register.MovementSangria {
		reg, err = c.caixaService.Sangria(ctx, rc, registerID, req.Amount, req.Description, req.SupervisorCode)
	} else {
		reg, err = c.caixaService.Suprimento(ctx, rc, registerID, req.Amount, req.Description, req.SupervisorCode)
	}
	if err != nil {
		c.respondMovimentoError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCaixaResponse(reg))
}

func (c *CaixaController) respondMovimentoError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthorizationDenied):
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "autorização negada", err.Error()))
	case errors.Is(err, service.ErrTooManyAttempts):
		ctx.JSON(http.StatusTooManyRequests, dto.NewErrorResponse(http.StatusTooManyRequests, "limite de tentativas", err.Error()))
	case errors.Is(err, register.ErrInsufficientBalance):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "saldo insuficiente", err.Error()))
	case errors.Is(err, register.ErrNoOpenRegister), errors.Is(err, register.ErrAlreadyClosed):
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "caixa não está aberto", err.Error()))
	case errors.Is(err, register.ErrRegisterNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "caixa não encontrado", err.Error()))
	case errors.Is(err, register.ErrInvalidAmount):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "valor inválido", err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao movimentar caixa", err.Error()))
	}
}

// Fechar encerra uma sessão de caixa
// @Summary Fechar caixa
// @Description Fecha a sessão registrando o valor conferido e a conferência por forma de pagamento
// @Tags caixas
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do caixa"
// @Param fechamento body dto.FecharCaixaRequest true "Dados do fechamento"
// @Success 200 {object} dto.CaixaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /caixas/{id}/fechamento [post]
func (c *CaixaController) Fechar(ctx *gin.Context) {
	var req dto.FecharCaixaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	reg, err := c.caixaService.Fechar(ctx, rc, ctx.Param("id"), req.CountedTotal, req.Notes, req.Breakdown.ToBreakdown(), req.SupervisorCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthorizationDenied):
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "autorização negada", err.Error()))
		case errors.Is(err, service.ErrTooManyAttempts):
			ctx.JSON(http.StatusTooManyRequests, dto.NewErrorResponse(http.StatusTooManyRequests, "limite de tentativas", err.Error()))
		case errors.Is(err, register.ErrAlreadyClosed):
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "caixa já fechado", err.Error()))
		case errors.Is(err, register.ErrRegisterNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "caixa não encontrado", err.Error()))
		case errors.Is(err, register.ErrNegativeCountedTotal):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "fechamento inválido", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao fechar caixa", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCaixaResponse(reg))
}

// Get busca uma sessão de caixa pelo ID
// @Summary Buscar caixa
// @Tags caixas
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.CaixaResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /caixas/{id} [get]
func (c *CaixaController) Get(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	reg, err := c.caixaService.BuscarPorID(ctx, rc, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, register.ErrRegisterNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "caixa não encontrado", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar caixa", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCaixaResponse(reg))
}

// GetAberto busca a sessão aberta do operador autenticado
// @Summary Buscar caixa aberto
// @Tags caixas
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.CaixaResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /caixas/aberto [get]
func (c *CaixaController) GetAberto(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	reg, err := c.caixaService.BuscarAberto(ctx, rc)
	if err != nil {
		if errors.Is(err, register.ErrNoOpenRegister) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "não há caixa aberto", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar caixa", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCaixaResponse(reg))
}

// ListMovimentos lista as movimentações de uma sessão de caixa
// @Summary Listar movimentações do caixa
// @Tags caixas
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do caixa"
// @Success 200 {array} dto.MovimentoCaixaResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /caixas/{id}/movimentos [get]
func (c *CaixaController) ListMovimentos(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	movements, err := c.caixaService.ListarMovimentos(ctx, rc, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, register.ErrRegisterNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "caixa não encontrado", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar movimentações", err.Error()))
		return
	}

	out := make([]dto.MovimentoCaixaResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovimentoCaixaResponse(m))
	}
	ctx.JSON(http.StatusOK, out)
}

// List lista as sessões de caixa do tenant
// @Summary Listar caixas
// @Tags caixas
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} dto.CaixaResponse
// @Router /caixas [get]
func (c *CaixaController) List(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	p := dto.GetPagination(queryInt(ctx, "page"), queryInt(ctx, "page_size"))

	registers, err := c.caixaService.Listar(ctx, rc, p.PageSize, p.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar caixas", err.Error()))
		return
	}

	out := make([]dto.CaixaResponse, 0, len(registers))
	for _, reg := range registers {
		out = append(out, dto.ToCaixaResponse(reg))
	}
	ctx.JSON(http.StatusOK, out)
}
