package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"macro_dashboard_backend/controllers"
	"macro_dashboard_backend/middleware"
	"macro_dashboard_backend/services"
	"macro_dashboard_backend/store"
)

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, st *store.Store, timer controllers.TimerSource, stream *services.StreamService) {
	financeController := controllers.NewFinanceController(st, timer)

	// Per-IP limit sized for a dashboard polling every few seconds.
	apiLimiter := middleware.NewRateLimiter(120, time.Minute)

	api := router.Group("/api", apiLimiter.Middleware())
	{
		finance := api.Group("/finance")
		{
			finance.GET("/stocks", financeController.GetStocks)
			finance.GET("/rates", financeController.GetRates)
			finance.GET("/exchange", financeController.GetExchange)
			finance.GET("/economy", financeController.GetEconomy)
			finance.GET("/history", financeController.GetHistory)
		}

		api.GET("/timer", financeController.GetTimer)
	}

	if stream != nil {
		router.GET("/ws", func(c *gin.Context) {
			stream.HandleWebSocket(c.Writer, c.Request)
		})
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
