package main

import (
	"log"
	"os"

	"github.com/hugohenrick/pdv-supermercado/internal/infrastructure/database"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	// Schema alvo: "public" para instalações simples; instalações
	// multi-tenant isolam cada tenant em um schema próprio
	schema := os.Getenv("TENANT_SCHEMA")
	if schema == "" {
		schema = "public"
	}

	if err := database.RunTenantMigrations(schema); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}

	log.Printf("Migrações aplicadas com sucesso no schema %s", schema)
}
