package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hedgex/hedgex/backend/internal/database"
	"github.com/hedgex/hedgex/backend/internal/metrics"
	"github.com/hedgex/hedgex/backend/internal/models"
)

// Stock rows updated within this window count as "latest".
const stockFreshness = 5 * time.Minute

type StockHandler struct{}

func NewStockHandler() *StockHandler {
	return &StockHandler{}
}

// GetStocks lists every stock in the database.
func (h *StockHandler) GetStocks(c *gin.Context) {
	db := database.GetDB()

	stocks := make([]models.Stock, 0)
	if err := db.Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stocks)
}

// GetLatestStocks lists stocks updated within the last five minutes.
func (h *StockHandler) GetLatestStocks(c *gin.Context) {
	db := database.GetDB()

	stocks := make([]models.Stock, 0)
	cutoff := time.Now().Add(-stockFreshness)
	if err := db.Where("updated_at > ?", cutoff).Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stocks)
}

// timeframeDays maps a named timeframe to its lookback window in days.
// Anything unrecognized gets the widest window, like "All".
func timeframeDays(timeframe string) int {
	switch timeframe {
	case "1D":
		return 1
	case "1W":
		return 7
	case "1M":
		return 30
	case "6M":
		return 180
	case "1Y":
		return 365
	default: // All
		return 1825
	}
}

// GetHistoricalData returns a symbol's daily series within the requested
// timeframe, ordered by ascending date.
func (h *StockHandler) GetHistoricalData(c *gin.Context) {
	symbol := c.Param("symbol")
	timeframe := c.DefaultQuery("timeframe", "1M")

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -timeframeDays(timeframe))

	db := database.GetDB()

	points := make([]models.HistoricalDataPoint, 0)
	err := db.Where("stock_symbol = ? AND date BETWEEN ? AND ?", symbol, startDate, endDate).
		Order("date").
		Find(&points).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, points)
}

// InitStocks replaces all stocks with the provided set. Delete and insert
// run in one transaction; any failure rolls the whole replacement back.
func (h *StockHandler) InitStocks(c *gin.Context) {
	var req models.InitStocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.StocksInitTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM stocks").Error; err != nil {
			return err
		}

		now := time.Now()
		for _, s := range req.Stocks {
			stock := models.Stock{
				Symbol:        s.Symbol,
				Name:          s.Name,
				Price:         s.Price,
				Change:        s.Change,
				ChangePercent: s.ChangePercent,
				Volume:        s.Volume,
				Sector:        s.Sector,
				High:          s.High,
				Low:           s.Low,
				Open:          s.Open,
				UpdatedAt:     now,
			}
			if err := tx.Create(&stock).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.StocksInitTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.StocksInitTotal.WithLabelValues("success").Inc()
	metrics.StocksTracked.Set(float64(len(req.Stocks)))
	c.JSON(http.StatusCreated, gin.H{"message": "Stocks initialized successfully"})
}
