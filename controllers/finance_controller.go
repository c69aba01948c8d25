package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"macro_dashboard_backend/models"
	"macro_dashboard_backend/store"
)

// TimerSource reports the last and next stocks refresh times.
type TimerSource interface {
	Timer() (last, next time.Time)
}

// FinanceController serves the cached dashboard data. Handlers never touch
// the upstream providers and never block on a refresh: whatever the cache
// holds right now is the answer, status 200 always.
type FinanceController struct {
	store *store.Store
	timer TimerSource
}

// NewFinanceController creates a new finance controller
func NewFinanceController(st *store.Store, timer TimerSource) *FinanceController {
	return &FinanceController{store: st, timer: timer}
}

// GetStocks returns the stocks category
// GET /api/finance/stocks
func (fc *FinanceController) GetStocks(c *gin.Context) {
	c.JSON(http.StatusOK, fc.store.Read(models.CategoryStocks))
}

// GetRates returns the rates category
// GET /api/finance/rates
func (fc *FinanceController) GetRates(c *gin.Context) {
	c.JSON(http.StatusOK, fc.store.Read(models.CategoryRates))
}

// GetExchange returns the exchange category
// GET /api/finance/exchange
func (fc *FinanceController) GetExchange(c *gin.Context) {
	c.JSON(http.StatusOK, fc.store.Read(models.CategoryExchange))
}

// GetEconomy returns the economy category
// GET /api/finance/economy
func (fc *FinanceController) GetEconomy(c *gin.Context) {
	c.JSON(http.StatusOK, fc.store.Read(models.CategoryEconomy))
}

// GetHistory returns the historical series mapping
// GET /api/finance/history
func (fc *FinanceController) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, fc.store.ReadHistory())
}

// GetTimer returns the refresh timer in epoch milliseconds; null before the
// first completed cycle.
// GET /api/timer
func (fc *FinanceController) GetTimer(c *gin.Context) {
	var lastMs, nextMs interface{}
	if fc.timer != nil {
		last, next := fc.timer.Timer()
		if !last.IsZero() {
			lastMs = last.UnixMilli()
		}
		if !next.IsZero() {
			nextMs = next.UnixMilli()
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"last_update": lastMs,
		"next_update": nextMs,
	})
}
