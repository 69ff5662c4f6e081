package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"tiny_crm_backend/internal/database"
	"tiny_crm_backend/internal/router"
	"tiny_crm_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	utils.InitLogger()

	// DATABASE_URL is the single connection string; when unset, assemble it
	// from the individual DB_* variables.
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		dbHost := utils.Getenv("DB_HOST", "localhost")
		dbPort := utils.Getenv("DB_PORT", "5432")
		dbUser := utils.Getenv("DB_USER", "tiny_crm_user")
		dbPassword := utils.Getenv("DB_PASSWORD", "tiny_crm_password")
		dbName := utils.Getenv("DB_NAME", "tiny_crm_db")
		dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
	}
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	database.InitDB(connStr, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"schema_applied": true})

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	// CORS: allow-list restricted to the frontend dev origin by default.
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:5173"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	// Health check
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "I am Tiny CRM and I am alive!"})
	})

	router.Setup(engine, database.GetDB())

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
