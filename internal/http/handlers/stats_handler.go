package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lynndabel/Bloconnect/internal/ledger"
)

// StatsHandler отдаёт сводную статистику платформы.
type StatsHandler struct {
	ledger *ledger.Ledger
}

// NewStatsHandler создаёт новый хэндлер.
func NewStatsHandler(l *ledger.Ledger) *StatsHandler {
	return &StatsHandler{ledger: l}
}

// PlatformStats обрабатывает GET /api/stats.
func (h *StatsHandler) PlatformStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.PlatformStats())
}

// Counters обрабатывает GET /api/stats/counters.
func (h *StatsHandler) Counters(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Counters())
}

// Escrow обрабатывает GET /api/stats/escrow.
func (h *StatsHandler) Escrow(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_escrowed": h.ledger.TotalEscrowed(),
		"held_total":     h.ledger.HeldTotal(),
	})
}

// Config обрабатывает GET /api/stats/config.
func (h *StatsHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fee_bps":    h.ledger.FeeBps(),
		"paused":     h.ledger.Paused(),
		"arbitrator": h.ledger.Arbitrator(),
	})
}
