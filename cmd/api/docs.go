package main

// @title           PDV Supermercado API
// @version         1.0
// @description     API do núcleo de ponto de venda: caixa, vendas, estoque e liquidação PIX

// @contact.name   API Support
// @contact.email  suporte@pdv-supermercado.dev

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
