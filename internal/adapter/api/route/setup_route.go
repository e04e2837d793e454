package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
)

// SetupSetupRoutes configura as rotas para configuração inicial do sistema
func SetupSetupRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	setupRouter := router.Group("/setup")
	{
		// Rota para criar o primeiro usuário administrador de um tenant
		// Esta rota não requer autenticação
		setupRouter.POST("/admin", authController.CreateAdminUser)
	}
}
