package database

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hedgex/hedgex/backend/internal/models"
)

// Fixture rows inserted on first run so the API is usable without an
// external data feed. Each block checks its natural key and inserts only
// when absent; rows from older fixture versions are left alone.

var sampleStocks = []models.Stock{
	{Symbol: "AAPL", Name: "Apple Inc.", Price: 174.23, Change: 1.25, ChangePercent: 0.72, Volume: 48956321, Sector: "Technology", High: 175.10, Low: 173.05, Open: 173.50},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Price: 328.79, Change: 2.56, ChangePercent: 0.78, Volume: 21542632, Sector: "Technology", High: 330.15, Low: 326.90, Open: 327.20},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 138.45, Change: -0.75, ChangePercent: -0.54, Volume: 15678932, Sector: "Technology", High: 139.20, Low: 137.80, Open: 138.90},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 145.68, Change: 1.32, ChangePercent: 0.91, Volume: 32456789, Sector: "Consumer Cyclical", High: 146.50, Low: 144.75, Open: 145.10},
	{Symbol: "TSLA", Name: "Tesla Inc.", Price: 248.50, Change: -3.25, ChangePercent: -1.29, Volume: 28765432, Sector: "Consumer Cyclical", High: 252.30, Low: 247.80, Open: 251.75},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Price: 152.34, Change: 0.87, ChangePercent: 0.57, Volume: 12345678, Sector: "Financial Services", High: 153.20, Low: 151.60, Open: 151.80},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Price: 165.78, Change: 0.45, ChangePercent: 0.27, Volume: 8765432, Sector: "Healthcare", High: 166.30, Low: 165.20, Open: 165.50},
	{Symbol: "V", Name: "Visa Inc.", Price: 245.67, Change: 1.23, ChangePercent: 0.50, Volume: 9876543, Sector: "Financial Services", High: 246.50, Low: 244.80, Open: 245.10},
}

var samplePortfolio = models.Portfolio{
	Cash:                 25000.00,
	TotalValue:           163524.87,
	DailyChange:          1432.56,
	DailyChangePercent:   0.88,
	WeeklyChange:         3256.78,
	WeeklyChangePercent:  2.03,
	MonthlyChange:        6789.12,
	MonthlyChangePercent: 4.32,
}

var sampleHoldings = []models.PortfolioHolding{
	{StockID: "AAPL", Shares: 50, AvgCost: 165.42},
	{StockID: "MSFT", Shares: 20, AvgCost: 320.15},
	{StockID: "GOOGL", Shares: 15, AvgCost: 135.20},
	{StockID: "AMZN", Shares: 10, AvgCost: 142.75},
}

var sampleWatchlists = []struct {
	Name   string
	Stocks []string
}{
	{Name: "Tech Giants", Stocks: []string{"AAPL", "MSFT", "GOOGL"}},
	{Name: "E-Commerce", Stocks: []string{"AMZN", "BABA"}},
	{Name: "Financial", Stocks: []string{"JPM", "V"}},
}

var sampleUsers = []struct {
	Name     string
	Email    string
	Password string
}{
	{Name: "Demo User", Email: "demo@example.com", Password: "password123"},
}

const historicalDays = 180

// GenerateHistoricalData produces a deterministic daily walk ending today:
// the price drifts down then up around the base price at 2% volatility,
// and volume tapers from ~6M to ~11M going back in time.
func GenerateHistoricalData(symbol string, basePrice float64, days int) []models.HistoricalDataPoint {
	const volatility = 0.02

	data := make([]models.HistoricalDataPoint, 0, days+1)
	currentPrice := basePrice
	now := time.Now()

	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)

		change := (0.5 - float64(i)/float64(days)) * volatility * currentPrice
		currentPrice += change
		if currentPrice < 0.1 {
			currentPrice = 0.1
		}

		volume := int64((0.5+float64(i)/float64(days))*10000000) + 1000000

		data = append(data, models.HistoricalDataPoint{
			StockSymbol: symbol,
			Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			Open:        currentPrice * (1 - 0.005),
			High:        currentPrice * (1 + 0.01),
			Low:         currentPrice * (1 - 0.01),
			Close:       currentPrice,
			Volume:      volume,
		})
	}

	return data
}

// Seed inserts the demo fixtures into an initialized database.
func Seed() error {
	db := GetDB()

	if err := seedUsers(db); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := seedStocks(db); err != nil {
		return fmt.Errorf("seed stocks: %w", err)
	}
	if err := seedPortfolio(db); err != nil {
		return fmt.Errorf("seed portfolio: %w", err)
	}
	if err := seedWatchlists(db); err != nil {
		return fmt.Errorf("seed watchlists: %w", err)
	}
	if err := seedHistoricalData(db); err != nil {
		return fmt.Errorf("seed historical data: %w", err)
	}

	log.Println("Sample data initialized successfully")
	return nil
}

func seedUsers(db *gorm.DB) error {
	for _, u := range sampleUsers {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := models.User{Name: u.Name, Email: u.Email, Password: string(hashed)}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedStocks(db *gorm.DB) error {
	for _, s := range sampleStocks {
		var count int64
		if err := db.Model(&models.Stock{}).Where("symbol = ?", s.Symbol).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		stock := s
		if err := db.Create(&stock).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedPortfolio(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Portfolio{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// Portfolio and holdings are seeded together or not at all.
	return db.Transaction(func(tx *gorm.DB) error {
		portfolio := samplePortfolio
		if err := tx.Create(&portfolio).Error; err != nil {
			return err
		}
		for _, h := range sampleHoldings {
			holding := h
			if err := tx.Create(&holding).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func seedWatchlists(db *gorm.DB) error {
	for _, w := range sampleWatchlists {
		var count int64
		if err := db.Model(&models.Watchlist{}).Where("name = ?", w.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		watchlist := models.Watchlist{Name: w.Name}
		if err := db.Create(&watchlist).Error; err != nil {
			return err
		}
		for _, symbol := range w.Stocks {
			item := models.WatchlistItem{
				WatchlistID: watchlist.ID,
				StockSymbol: symbol,
				AddedAt:     time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedHistoricalData(db *gorm.DB) error {
	for _, s := range sampleStocks {
		var count int64
		if err := db.Model(&models.HistoricalDataPoint{}).Where("stock_symbol = ?", s.Symbol).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		points := GenerateHistoricalData(s.Symbol, s.Price, historicalDays)
		if err := db.CreateInBatches(points, 100).Error; err != nil {
			return err
		}
	}
	return nil
}
