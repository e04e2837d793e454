package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// RegisterCaixaRoutes registra as rotas do módulo de caixa
func RegisterCaixaRoutes(r *gin.RouterGroup, caixaController *controller.CaixaController) {
	caixas := r.Group("/caixas")
	caixas.Use(auth.JWTAuthMiddleware())
	{
		caixas.POST("", caixaController.Abrir)
		caixas.GET("", caixaController.List)
		caixas.GET("/aberto", caixaController.GetAberto)
		caixas.GET("/:id", caixaController.Get)
		caixas.POST("/:id/sangria", caixaController.Sangria)
		caixas.POST("/:id/suprimento", caixaController.Suprimento)
		caixas.POST("/:id/fechamento", caixaController.Fechar)
		caixas.GET("/:id/movimentos", caixaController.ListMovimentos)
	}
}
