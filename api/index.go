package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dmorales/crewsched-api-go/pkg/auth"
	"github.com/dmorales/crewsched-api-go/pkg/database"
	"github.com/dmorales/crewsched-api-go/pkg/engine"
	"github.com/dmorales/crewsched-api-go/pkg/handlers"
	"github.com/dmorales/crewsched-api-go/pkg/store"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)

	eng := engine.New(store.NewGorm(db), engine.ConfigFromEnv(), nil)
	h := &handlers.Handler{DB: db, Engine: eng}

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	h.RegisterRoutes(r)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
