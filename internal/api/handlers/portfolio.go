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

// Portfolio rows updated within this window count as "latest".
const portfolioFreshness = 5 * time.Minute

type PortfolioHandler struct{}

func NewPortfolioHandler() *PortfolioHandler {
	return &PortfolioHandler{}
}

// currentPortfolio returns the canonical portfolio row. The table holds a
// single row by construction (seed + replace-all init), so highest id wins.
func currentPortfolio(db *gorm.DB, since *time.Time) (*models.Portfolio, error) {
	query := db.Order("id DESC")
	if since != nil {
		query = query.Where("updated_at > ?", *since)
	}

	var portfolio models.Portfolio
	err := query.First(&portfolio).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func holdingsWithPrices(db *gorm.DB) ([]models.HoldingWithPrice, error) {
	holdings := make([]models.HoldingWithPrice, 0)
	err := db.Table("portfolio_holdings").
		Select("portfolio_holdings.id, portfolio_holdings.stock_id, portfolio_holdings.shares, portfolio_holdings.avg_cost, stocks.symbol, stocks.price").
		Joins("JOIN stocks ON portfolio_holdings.stock_id = stocks.symbol").
		Scan(&holdings).Error
	return holdings, err
}

func (h *PortfolioHandler) respondWithPortfolio(c *gin.Context, since *time.Time) {
	db := database.GetDB()

	portfolio, err := currentPortfolio(db, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if portfolio == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	holdings, err := holdingsWithPrices(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.PortfolioResponse{Portfolio: *portfolio, Holdings: holdings})
}

// GetPortfolio returns the current portfolio with its holdings, each joined
// with the stock's live price. JSON null when no portfolio exists.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	h.respondWithPortfolio(c, nil)
}

// GetLatestPortfolio is GetPortfolio restricted to rows updated within the
// last five minutes.
func (h *PortfolioHandler) GetLatestPortfolio(c *gin.Context) {
	since := time.Now().Add(-portfolioFreshness)
	h.respondWithPortfolio(c, &since)
}

// GetAllocation aggregates holdings value by sector with a percentage of the
// total. Percentages are 0 when the total value is 0.
func (h *PortfolioHandler) GetAllocation(c *gin.Context) {
	db := database.GetDB()

	allocations := make([]models.SectorAllocation, 0)
	err := db.Table("portfolio_holdings").
		Select("stocks.sector AS sector, SUM(portfolio_holdings.shares * stocks.price) AS value").
		Joins("JOIN stocks ON portfolio_holdings.stock_id = stocks.symbol").
		Group("stocks.sector").
		Scan(&allocations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var total float64
	for _, a := range allocations {
		total += a.Value
	}

	for i := range allocations {
		if total > 0 {
			allocations[i].Percentage = allocations[i].Value / total * 100
		}
	}

	c.JSON(http.StatusOK, allocations)
}

// InitPortfolio replaces the portfolio and its holdings wholesale. The
// delete-and-insert runs in one transaction so a mid-sequence failure
// leaves no partial writes.
func (h *PortfolioHandler) InitPortfolio(c *gin.Context) {
	var req models.InitPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.PortfolioInitTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	p := req.Portfolio

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM portfolio").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM portfolio_holdings").Error; err != nil {
			return err
		}

		portfolio := models.Portfolio{
			Cash:                 p.Cash,
			TotalValue:           p.TotalValue,
			DailyChange:          p.DailyChange,
			DailyChangePercent:   p.DailyChangePercent,
			WeeklyChange:         p.WeeklyChange,
			WeeklyChangePercent:  p.WeeklyChangePercent,
			MonthlyChange:        p.MonthlyChange,
			MonthlyChangePercent: p.MonthlyChangePercent,
			UpdatedAt:            time.Now(),
		}
		if err := tx.Create(&portfolio).Error; err != nil {
			return err
		}

		for _, hi := range p.Holdings {
			holding := models.PortfolioHolding{
				StockID: hi.StockID,
				Shares:  hi.Shares,
				AvgCost: hi.AvgCost,
			}
			if err := tx.Create(&holding).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.PortfolioInitTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.PortfolioInitTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Portfolio initialized successfully"})
}
