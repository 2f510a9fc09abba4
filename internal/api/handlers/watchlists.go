package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hedgex/hedgex/backend/internal/database"
	"github.com/hedgex/hedgex/backend/internal/metrics"
	"github.com/hedgex/hedgex/backend/internal/models"
)

type WatchlistHandler struct{}

func NewWatchlistHandler() *WatchlistHandler {
	return &WatchlistHandler{}
}

// GetWatchlists lists every watchlist.
func (h *WatchlistHandler) GetWatchlists(c *gin.Context) {
	db := database.GetDB()

	watchlists := make([]models.Watchlist, 0)
	if err := db.Find(&watchlists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, watchlists)
}

// CreateWatchlist creates an empty watchlist by name.
func (h *WatchlistHandler) CreateWatchlist(c *gin.Context) {
	var req models.CreateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	db := database.GetDB()

	watchlist := models.Watchlist{Name: req.Name}
	if err := db.Create(&watchlist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var count int64
	db.Model(&models.Watchlist{}).Count(&count)
	metrics.WatchlistsTotal.Set(float64(count))

	c.JSON(http.StatusCreated, watchlist)
}

// AddStock links a stock symbol to a watchlist.
func (h *WatchlistHandler) AddStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req models.AddWatchlistStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol is required"})
		return
	}

	db := database.GetDB()

	item := models.WatchlistItem{
		WatchlistID: uint(id),
		StockSymbol: req.Symbol,
		AddedAt:     time.Now(),
	}
	if err := db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Stock added to watchlist"})
}

// GetStocks returns the full stock rows linked to a watchlist.
func (h *WatchlistHandler) GetStocks(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	db := database.GetDB()

	stocks := make([]models.Stock, 0)
	queryErr := db.Table("stocks").
		Select("stocks.*").
		Joins("JOIN watchlist_items ON watchlist_items.stock_symbol = stocks.symbol").
		Where("watchlist_items.watchlist_id = ?", id).
		Scan(&stocks).Error
	if queryErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": queryErr.Error()})
		return
	}

	c.JSON(http.StatusOK, stocks)
}
