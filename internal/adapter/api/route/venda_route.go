package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// RegisterVendaRoutes registra as rotas do módulo de vendas
func RegisterVendaRoutes(r *gin.RouterGroup, vendaController *controller.VendaController, pixController *controller.PixController) {
	vendas := r.Group("/vendas")
	vendas.Use(auth.JWTAuthMiddleware())
	{
		vendas.POST("", vendaController.Finalizar)
		vendas.GET("", vendaController.List)
		vendas.GET("/:id", vendaController.Get)
		vendas.POST("/:id/cancelamento", vendaController.Cancelar)
		vendas.POST("/:id/pix", pixController.RequestCharge)
	}
}
