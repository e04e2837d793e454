package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/customer"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// CustomerController gerencia as requisições relacionadas a clientes
type CustomerController struct {
	customerRepo customer.Repository
	logger       logger.Logger
}

// NewCustomerController cria uma nova instância de CustomerController
func NewCustomerController(customerRepo customer.Repository, logger logger.Logger) *CustomerController {
	return &CustomerController{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create cria um novo cliente
// @Summary Criar cliente
// @Tags customers
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param customer body dto.CustomerRequest true "Dados do cliente"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /customers [post]
func (c *CustomerController) Create(ctx *gin.Context) {
	var req dto.CustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	cust, err := customer.NewCustomer(rc.TenantID, req.Name, req.Document)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar cliente", err.Error()))
		return
	}
	cust.Email = req.Email
	cust.Phone = req.Phone

	if err := c.customerRepo.Create(ctx, cust); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao criar cliente", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCustomerResponse(cust))
}

// Get busca um cliente pelo ID
// @Summary Buscar cliente
// @Tags customers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do cliente"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/{id} [get]
func (c *CustomerController) Get(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	cust, err := c.customerRepo.FindByID(ctx, rc.TenantID, ctx.Param("id"))
	if err != nil {
		c.respondCustomerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCustomerResponse(cust))
}

// FindByDocument busca um cliente pelo documento (CPF/CNPJ)
// @Summary Buscar cliente por documento
// @Tags customers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param document path string true "CPF/CNPJ"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/document/{document} [get]
func (c *CustomerController) FindByDocument(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	cust, err := c.customerRepo.FindByDocument(ctx, rc.TenantID, ctx.Param("document"))
	if err != nil {
		c.respondCustomerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCustomerResponse(cust))
}

// List lista os clientes do tenant
// @Summary Listar clientes
// @Tags customers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} dto.CustomerResponse
// @Router /customers [get]
func (c *CustomerController) List(ctx *gin.Context) {
	rc := auth.FromGinContext(ctx)
	p := dto.GetPagination(queryInt(ctx, "page"), queryInt(ctx, "page_size"))

	customers, err := c.customerRepo.List(ctx, rc.TenantID, p.PageSize, p.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar clientes", err.Error()))
		return
	}

	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		out = append(out, dto.ToCustomerResponse(cust))
	}
	ctx.JSON(http.StatusOK, out)
}

// Update atualiza os dados de um cliente
// @Summary Atualizar cliente
// @Tags customers
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do cliente"
// @Param customer body dto.CustomerRequest true "Dados do cliente"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/{id} [put]
func (c *CustomerController) Update(ctx *gin.Context) {
	var req dto.CustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	rc := auth.FromGinContext(ctx)
	cust, err := c.customerRepo.FindByID(ctx, rc.TenantID, ctx.Param("id"))
	if err != nil {
		c.respondCustomerError(ctx, err)
		return
	}

	if err := cust.Update(req.Name, req.Document, req.Email, req.Phone); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao atualizar cliente", err.Error()))
		return
	}

	if err := c.customerRepo.Update(ctx, cust); err != nil {
		c.respondCustomerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCustomerResponse(cust))
}

func (c *CustomerController) respondCustomerError(ctx *gin.Context, err error) {
	if errors.Is(err, customer.ErrCustomerNotFound) {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cliente não encontrado", err.Error()))
		return
	}
	ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao processar cliente", err.Error()))
}
