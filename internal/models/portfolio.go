package models

import (
	"time"
)

// Portfolio is single-row by construction: the seeder inserts only when the
// table is empty and the init endpoint replaces all rows in one transaction.
// PortfolioResponse carries the joined holdings.
type Portfolio struct {
	ID                   uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Cash                 float64   `json:"cash" gorm:"not null"`
	TotalValue           float64   `json:"total_value" gorm:"not null"`
	DailyChange          float64   `json:"daily_change"`
	DailyChangePercent   float64   `json:"daily_change_percent"`
	WeeklyChange         float64   `json:"weekly_change"`
	WeeklyChangePercent  float64   `json:"weekly_change_percent"`
	MonthlyChange        float64   `json:"monthly_change"`
	MonthlyChangePercent float64   `json:"monthly_change_percent"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (Portfolio) TableName() string {
	return "portfolio"
}

// PortfolioHolding references its stock by symbol, not by row id.
type PortfolioHolding struct {
	ID      uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	StockID string  `json:"stock_id" gorm:"not null"`
	Shares  int     `json:"shares" gorm:"not null"`
	AvgCost float64 `json:"avg_cost" gorm:"not null"`
}

// HoldingWithPrice is a holding enriched with the stock's current quote.
// Kept flat so gorm can scan the joined row directly.
type HoldingWithPrice struct {
	ID      uint    `json:"id"`
	StockID string  `json:"stock_id"`
	Shares  int     `json:"shares"`
	AvgCost float64 `json:"avg_cost"`
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
}

type PortfolioResponse struct {
	Portfolio
	Holdings []HoldingWithPrice `json:"holdings"`
}

// SectorAllocation is one row of GET /portfolio/allocation.
type SectorAllocation struct {
	Sector     string  `json:"sector"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// HoldingInput and PortfolioInput are the camelCase wire shapes accepted by
// POST /portfolio/init.
type HoldingInput struct {
	StockID string  `json:"stockId"`
	Shares  int     `json:"shares"`
	AvgCost float64 `json:"avgCost"`
}

type PortfolioInput struct {
	Cash                 float64        `json:"cash"`
	TotalValue           float64        `json:"totalValue"`
	DailyChange          float64        `json:"dailyChange"`
	DailyChangePercent   float64        `json:"dailyChangePercent"`
	WeeklyChange         float64        `json:"weeklyChange"`
	WeeklyChangePercent  float64        `json:"weeklyChangePercent"`
	MonthlyChange        float64        `json:"monthlyChange"`
	MonthlyChangePercent float64        `json:"monthlyChangePercent"`
	Holdings             []HoldingInput `json:"holdings"`
}

type InitPortfolioRequest struct {
	Portfolio PortfolioInput `json:"portfolio"`
}
