package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dmorales/crewsched-api-go/pkg/auth"
	"github.com/dmorales/crewsched-api-go/pkg/database"
	"github.com/dmorales/crewsched-api-go/pkg/engine"
	"github.com/dmorales/crewsched-api-go/pkg/handlers"
	"github.com/dmorales/crewsched-api-go/pkg/store"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)

	eng := engine.New(store.NewGorm(db), engine.ConfigFromEnv(), nil)
	h := &handlers.Handler{DB: db, Engine: eng}

	r := gin.Default()
	h.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
