package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// SetupAuthRoutes configura as rotas para autenticação e usuários
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		// Rota de login (não requer autenticação)
		authRouter.POST("/login", authController.Login)

		// Rota para obter informações do usuário logado (requer autenticação)
		authRouter.GET("/me", auth.JWTAuthMiddleware(), authController.Me)
	}

	// Gestão de usuários: apenas administradores
	users := router.Group("/users")
	users.Use(auth.JWTAuthMiddleware(), auth.RoleAuthMiddleware("admin"))
	{
		users.POST("", authController.CreateUser)
		users.GET("", authController.ListUsers)
	}
}
