package models

import (
	"time"
)

type Stock struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Symbol        string    `json:"symbol" gorm:"not null;uniqueIndex"`
	Name          string    `json:"name" gorm:"not null"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Sector        string    `json:"sector"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HistoricalDataPoint is one day of OHLCV data for a symbol. Append-only.
type HistoricalDataPoint struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	StockSymbol string    `json:"stock_symbol" gorm:"not null;index"`
	Date        time.Time `json:"date" gorm:"not null"`
	Open        float64   `json:"open" gorm:"not null"`
	High        float64   `json:"high" gorm:"not null"`
	Low         float64   `json:"low" gorm:"not null"`
	Close       float64   `json:"close" gorm:"not null"`
	Volume      int64     `json:"volume" gorm:"not null"`
}

func (HistoricalDataPoint) TableName() string {
	return "historical_data"
}

// StockInput is the camelCase wire shape accepted by POST /stocks/init.
type StockInput struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	Sector        string  `json:"sector"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
}

type InitStocksRequest struct {
	Stocks []StockInput `json:"stocks"`
}
