package models

import (
	"time"
)

type Watchlist struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type WatchlistItem struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	WatchlistID uint      `json:"watchlist_id" gorm:"index"`
	StockSymbol string    `json:"stock_symbol" gorm:"not null"`
	AddedAt     time.Time `json:"added_at"`
}

type CreateWatchlistRequest struct {
	Name string `json:"name"`
}

type AddWatchlistStockRequest struct {
	Symbol string `json:"symbol"`
}
