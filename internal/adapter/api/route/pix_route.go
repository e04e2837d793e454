package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// RegisterPixRoutes registra as rotas de consulta e webhook do PIX
func RegisterPixRoutes(r *gin.RouterGroup, pixController *controller.PixController) {
	pix := r.Group("/pix")
	pix.Use(auth.JWTAuthMiddleware())
	{
		pix.GET("/:id/status", pixController.GetStatus)
	}

	// Webhook do gateway: autenticado por token compartilhado, não por JWT
	r.POST("/webhooks/pix", pixController.Webhook)
}
