package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/route"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-supermercado/internal/infrastructure/gateway"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/internal/worker"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// App representa a aplicação e suas dependências
type App struct {
	router  *gin.Engine
	db      *database.PostgresDB
	rdb     *redis.Client
	workers *worker.Pool
	logger  logger.Logger
	cancel  context.CancelFunc
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	db, err := database.NewPostgresDB()
	if err != nil {
		return nil, err
	}

	// Cliente Redis para a fila de trabalhos assíncronos
	rdb := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	// Criar repositórios
	pool := db.Pool()
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	registerRepo := repository.NewRegisterRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)
	stockRepo := repository.NewStockRepository(pool)
	pixRepo := repository.NewPixRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	// Gateways externos
	pixGateway := gateway.NewPixClient(
		getEnv("PIX_GATEWAY_URL", "http://localhost:9000"),
		gateway.EnvCredentialsProvider{})
	fiscalClient := gateway.NewFiscalClient(
		getEnv("FISCAL_SERVICE_URL", "http://localhost:9001"),
		os.Getenv("FISCAL_API_KEY"))

	// Criar serviços
	dispatcher := worker.NewDispatcher(rdb)
	auditService := service.NewAuditService(auditRepo, log)
	supervisorService := service.NewSupervisorService(userRepo, log)
	caixaService := service.NewCaixaService(registerRepo, supervisorService, auditService, log)
	stockService := service.NewStockService(stockRepo, auditService)
	pixService := service.NewPixService(pixRepo, saleRepo, pixGateway, auditService, dispatcher, log)
	fiscalService := service.NewFiscalService(saleRepo, fiscalClient, log)
	saleService := service.NewSaleService(saleRepo, productRepo, pixService, supervisorService,
		auditService, dispatcher, log, getEnv("CAIXA_COMPENSATE_ON_CANCEL", "true") == "true")

	// Workers assíncronos: emissão fiscal e acompanhamento de cobranças PIX
	fiscalWorker := worker.NewFiscalWorker(fiscalService, log)
	pixPoller := worker.NewPixPoller(pixService, worker.PixPollerConfigFromEnv(), log)
	workers := worker.NewPool(rdb, fiscalWorker, pixPoller, log)

	// Criar controllers
	authController := controller.NewAuthController(userRepo, log)
	caixaController := controller.NewCaixaController(caixaService, log)
	vendaController := controller.NewVendaController(saleService, log)
	pixController := controller.NewPixController(pixService, log)
	productController := controller.NewProductController(productRepo, stockService, log)
	customerController := controller.NewCustomerController(customerRepo, log)

	// Configurar router
	router := gin.Default()
	router.Use(gin.Recovery())

	// Configurar CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "operator-id")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api/v1")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// Registrar rotas
	route.SetupSetupRoutes(api, authController)
	route.SetupAuthRoutes(api, authController)
	route.RegisterCaixaRoutes(api, caixaController)
	route.RegisterVendaRoutes(api, vendaController, pixController)
	route.RegisterPixRoutes(api, pixController)
	route.RegisterProductRoutes(api, productController)
	route.RegisterCustomerRoutes(api, customerController)

	return &App{
		router:  router,
		db:      db,
		rdb:     rdb,
		workers: workers,
		logger:  log,
	}, nil
}

// Start inicia os workers e o servidor HTTP
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	numWorkers, err := strconv.Atoi(getEnv("WORKER_POOL_SIZE", "4"))
	if err != nil || numWorkers < 1 {
		numWorkers = 4
	}
	a.workers.Start(ctx, numWorkers)

	port := getEnv("PORT", "8080")
	a.logger.Info("servidor iniciado", "port", port)
	return a.router.Run(":" + port)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
