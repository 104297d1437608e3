package router

import (
	"log/slog"
	"net/http"
	"time"

	"budget-tracker/internal/config"
	"budget-tracker/internal/handler"
	"budget-tracker/internal/ledger"
	"budget-tracker/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowedOrigins
	return c
}

// SetupRouter configures the gin engine and the route table.
func SetupRouter(cfg *config.Config, svc *ledger.Service, log *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.CORS)))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(svc)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	budgetHandler := handler.NewBudgetHandler(svc)
	r.POST("/set_budget", budgetHandler.SetBudget)
	r.GET("/get_user/:user_id", middleware.AccountLoader(svc), budgetHandler.GetUser)

	expenditureHandler := handler.NewExpenditureHandler(svc)
	r.POST("/add_expenditure", expenditureHandler.AddExpenditure)
	r.GET("/get_expenditures/:user_id", expenditureHandler.ListExpenditures)

	exportHandler := handler.NewExportHandler(svc)
	r.GET("/export_expenditures/:user_id", middleware.AccountLoader(svc), exportHandler.Export)

	return r
}
