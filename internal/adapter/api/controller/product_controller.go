package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// ProductController gerencia as requisições relacionadas a produtos
type ProductController struct {
	productRepo  product.Repository
	stockService *service.StockService
	logger       logger.Logger
}

// NewProductController cria uma nova instância de ProductController
func NewProductController(productRepo product.Repository, stockService *service.StockService, logger logger.Logger) *ProductController {
	return &ProductController{
		productRepo:  productRepo,
		stockService: stockService,
		logger:       logger,
	}
}

// Create cria um novo produto
// @Summary Criar produto
// @Tags products
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /products [post]
func (c *ProductController) Create(ctx *gin.Context) {
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	p, err := product.NewProduct(rc.TenantID, req.Name, product.Unit(req.Unit), req.Price)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar produto", err.Error()))
		return
	}
	if err := p.Update(req.Name, req.Barcode, product.Unit(req.Unit), req.MinStock, req.Price); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar produto", err.Error()))
		return
	}

	if err := c.productRepo.Create(ctx, p); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao criar produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToProductResponse(p))
}

// Get busca um produto pelo ID
// @Summary Buscar produto
// @Tags products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (c *ProductController) Get(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	p, err := c.productRepo.FindByID(ctx, rc.TenantID, ctx.Param("id"))
	if err != nil {
		c.respondProductError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// GetByBarcode busca um produto pelo código de barras
// @Summary Buscar produto por código de barras
// @Tags products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param barcode path string true "Código de barras"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/barcode/{barcode} [get]
func (c *ProductController) GetByBarcode(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	p, err := c.productRepo.FindByBarcode(ctx, rc.TenantID, ctx.Param("barcode"))
	if err != nil {
		c.respondProductError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// List lista os produtos do tenant
// @Summary Listar produtos
// @Tags products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} dto.ProductResponse
// @Router /products [get]
func (c *ProductController) List(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	p := dto.GetPagination(queryInt(ctx, "page"), queryInt(ctx, "page_size"))

	products, err := c.productRepo.List(ctx, rc.TenantID, p.PageSize, p.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar produtos", err.Error()))
		return
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, prod := range products {
		out = append(out, dto.ToProductResponse(prod))
	}
	ctx.JSON(http.StatusOK, out)
}

// Update atualiza os dados cadastrais de um produto
// @Summary Atualizar produto
// @Tags products
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [put]
func (c *ProductController) Update(ctx *gin.Context) {
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	p, err := c.productRepo.FindByID(ctx, rc.TenantID, ctx.Param("id"))
	if err != nil {
		c.respondProductError(ctx, err)
		return
	}

	if err := p.Update(req.Name, req.Barcode, product.Unit(req.Unit), req.MinStock, req.Price); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao atualizar produto", err.Error()))
		return
	}

	if err := c.productRepo.Update(ctx, p); err != nil {
		c.respondProductError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// MovimentarEstoque registra uma movimentação manual de estoque
// @Summary Movimentar estoque
// @Description Registra entrada de mercadoria ou acerto de inventário. Baixas por venda não passam por aqui.
// @Tags products
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Param movimento body dto.MovimentoEstoqueRequest true "Movimentação"
// @Success 200 {object} dto.MovimentoEstoqueResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /products/{id}/estoque [post]
func (c *ProductController) MovimentarEstoque(ctx *gin.Context) {
	var req dto.MovimentoEstoqueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	m, err := c.stockService.ApplyMovement(ctx, rc, ctx.Param("id"),
		stock.Kind(req.Kind), req.Quantity, req.Note)
	if err != nil {
		switch {
		case stock.IsInsufficientStock(err):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "estoque insuficiente", err.Error()))
		case errors.Is(err, stock.ErrProductNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
		case errors.Is(err, stock.ErrInvalidKind), errors.Is(err, stock.ErrInvalidQuantity):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "movimentação inválida", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao movimentar estoque", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMovimentoEstoqueResponse(m))
}

// ListMovimentos lista as movimentações de estoque de um produto
// @Summary Listar movimentações de estoque
// @Tags products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} dto.MovimentoEstoqueResponse
// @Router /products/{id}/estoque [get]
func (c *ProductController) ListMovimentos(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	p := dto.GetPagination(queryInt(ctx, "page"), queryInt(ctx, "page_size"))

	movements, err := c.stockService.ListByProduct(ctx, rc, ctx.Param("id"), p.PageSize, p.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar movimentações", err.Error()))
		return
	}

	out := make([]dto.MovimentoEstoqueResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovimentoEstoqueResponse(m))
	}
	ctx.JSON(http.StatusOK, out)
}

func (c *ProductController) respondProductError(ctx *gin.Context, err error) {
	if errors.Is(err, stock.ErrProductNotFound) {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
		return
	}
	ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao processar produto", err.Error()))
}
