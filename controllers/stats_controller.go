package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proudshop/store"
)

type StatsController struct {
	stats store.StatsStore
}

func NewStatsController(stats store.StatsStore) *StatsController {
	return &StatsController{stats: stats}
}

func (sc *StatsController) Get(c *gin.Context) {
	counts, err := sc.stats.Counts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	recent, err := sc.stats.RecentOrderNumbers(c.Request.Context(), 5)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts": gin.H{
			"products":   counts.Products,
			"categories": counts.Categories,
			"orders":     counts.Orders,
		},
		"recentOrders": recent,
	})
}

// Currency serves a static EUR-based rate table until a live provider is
// wired in.
func (sc *StatsController) Currency(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"base": "EUR",
		"rates": gin.H{
			"EUR": 1,
			"USD": 1.08,
			"ALL": 102.5,
		},
	})
}
