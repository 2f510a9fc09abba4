package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hedgex/hedgex/backend/internal/auth"
	"github.com/hedgex/hedgex/backend/internal/config"
	"github.com/hedgex/hedgex/backend/internal/database"
	"github.com/hedgex/hedgex/backend/internal/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const testSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "api_test.db")
	if err := database.Initialize(dbPath); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	tokens, err := auth.NewManager(testSecret)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	cfg := &config.Config{
		Port:        "8070",
		DBPath:      dbPath,
		JWTSecret:   testSecret,
		CORSOrigins: []string{"http://localhost:5173"},
	}

	return SetupRouter(cfg, tokens)
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "A", "email": "a@x.com", "password": "p",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	var resp models.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("register response not JSON: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "A", "email": "a@x.com", "password": "p",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("first register returned %d: %s", w.Code, w.Body.String())
	}

	var resp models.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("register response not JSON: %v", err)
	}
	if resp.User.Email != "a@x.com" {
		t.Errorf("user.email = %q, want %q", resp.User.Email, "a@x.com")
	}

	// Replaying the exact same request conflicts and never creates a second row
	w = doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "A", "email": "a@x.com", "password": "p",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register returned %d, want 409", w.Code)
	}

	var count int64
	database.GetDB().Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	router := setupRouter(t)

	bodies := []gin.H{
		{"email": "a@x.com", "password": "p"},
		{"name": "A", "password": "p"},
		{"name": "A", "email": "a@x.com"},
		{},
	}
	for _, body := range bodies {
		w := doJSON(router, http.MethodPost, "/api/auth/register", "", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("register %v returned %d, want 400", body, w.Code)
		}
	}
}

func TestLoginCredentials(t *testing.T) {
	router := setupRouter(t)
	registerUser(t, router)

	w := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "a@x.com", "password": "p",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	// Wrong password and unknown email must be indistinguishable
	wrongPass := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "a@x.com", "password": "nope",
	})
	unknown := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@x.com", "password": "p",
	})

	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("failed logins returned %d and %d, want 401", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Errorf("failure bodies differ: %q vs %q", wrongPass.Body.String(), unknown.Body.String())
	}
}

func TestVerifyToken(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router)

	w := doJSON(router, http.MethodGet, "/api/auth/verify", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify returned %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("verify response not JSON: %v", err)
	}
	if !resp["valid"] {
		t.Error("verify should report valid:true")
	}
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	router := setupRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/verify"},
		{http.MethodGet, "/api/portfolio"},
		{http.MethodGet, "/api/portfolio/latest"},
		{http.MethodGet, "/api/portfolio/allocation"},
		{http.MethodGet, "/api/watchlists"},
		{http.MethodPost, "/api/watchlists"},
		{http.MethodPost, "/api/watchlists/1/stocks"},
		{http.MethodGet, "/api/watchlists/1/stocks"},
	}

	for _, p := range paths {
		// No Authorization header at all
		w := doJSON(router, p.method, p.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token returned %d, want 401", p.method, p.path, w.Code)
		}
		if w.Body.String() != `{"error":"Unauthorized"}` {
			t.Errorf("%s %s body = %s, want {\"error\":\"Unauthorized\"}", p.method, p.path, w.Body.String())
		}

		// Malformed token
		w = doJSON(router, p.method, p.path, "garbage", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with bad token returned %d, want 401", p.method, p.path, w.Code)
		}
		if w.Body.String() != `{"error":"Invalid token"}` {
			t.Errorf("%s %s body = %s, want {\"error\":\"Invalid token\"}", p.method, p.path, w.Body.String())
		}
	}
}

func TestPortfolioNullWhenEmpty(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router)

	w := doJSON(router, http.MethodGet, "/api/portfolio", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("portfolio returned %d", w.Code)
	}
	if w.Body.String() != "null" {
		t.Errorf("empty portfolio body = %s, want null", w.Body.String())
	}
}

func initDemoData(t *testing.T, router *gin.Engine) {
	t.Helper()

	stocks := gin.H{"stocks": []gin.H{
		{"symbol": "AAPL", "name": "Apple Inc.", "price": 100.0, "change": 1.0, "changePercent": 1.0, "volume": 1000, "sector": "Technology", "high": 101.0, "low": 99.0, "open": 99.5},
		{"symbol": "JPM", "name": "JPMorgan", "price": 50.0, "change": 0.5, "changePercent": 1.0, "volume": 500, "sector": "Financial Services", "high": 51.0, "low": 49.0, "open": 49.5},
	}}
	if w := doJSON(router, http.MethodPost, "/api/stocks/init", "", stocks); w.Code != http.StatusCreated {
		t.Fatalf("stocks init returned %d: %s", w.Code, w.Body.String())
	}

	portfolio := gin.H{"portfolio": gin.H{
		"cash": 1000.0, "totalValue": 2500.0,
		"dailyChange": 10.0, "dailyChangePercent": 0.4,
		"weeklyChange": 20.0, "weeklyChangePercent": 0.8,
		"monthlyChange": 30.0, "monthlyChangePercent": 1.2,
		"holdings": []gin.H{
			{"stockId": "AAPL", "shares": 10, "avgCost": 90.0}, // 10 x 100 = 1000
			{"stockId": "JPM", "shares": 10, "avgCost": 45.0},  // 10 x 50 = 500
		},
	}}
	if w := doJSON(router, http.MethodPost, "/api/portfolio/init", "", portfolio); w.Code != http.StatusCreated {
		t.Fatalf("portfolio init returned %d: %s", w.Code, w.Body.String())
	}
}

func TestPortfolioWithHoldings(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router)
	initDemoData(t, router)

	w := doJSON(router, http.MethodGet, "/api/portfolio", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("portfolio returned %d: %s", w.Code, w.Body.String())
	}

	var resp models.PortfolioResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("portfolio response not JSON: %v", err)
	}
	if resp.Cash != 1000.0 || resp.TotalValue != 2500.0 {
		t.Errorf("portfolio = cash %f total %f, want 1000/2500", resp.Cash, resp.TotalValue)
	}
	if len(resp.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2", len(resp.Holdings))
	}

	prices := map[string]float64{}
	for _, h := range resp.Holdings {
		prices[h.Symbol] = h.Price
	}
	if prices["AAPL"] != 100.0 || prices["JPM"] != 50.0 {
		t.Errorf("holdings not joined with current prices: %v", prices)
	}
}

func TestPortfolioLatestFreshness(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router)
	initDemoData(t, router)

	// Just initialized, so it is within the 5 minute window
	w := doJSON(router, http.MethodGet, "/api/portfolio/latest", token, nil)
	if w.Code != http.StatusOK || w.Body.String() == "null" {
		t.Fatalf("fresh portfolio/latest = %d %s", w.Code, w.Body.String())
	}

	// Age the row past the window; latest must now return null
	stale := time.Now().Add(-10 * time.Minute)
	database.GetDB().Exec("UPDATE portfolio SET updated_at = ?", stale)

	w = doJSON(router, http.MethodGet, "/api/portfolio/latest", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stale portfolio/latest returned %d", w.Code)
	}
	if w.Body.String() != "null" {
		t.Errorf("stale portfolio/latest body = %s, want null", w.Body.String())
	}

	// The unfiltered endpoint still returns it
	w = doJSON(router, http.MethodGet, "/api/portfolio", token, nil)
	if w.Body.String() == "null" {
		t.Error("GET /portfolio should ignore freshness")
	}
}

func TestAllocationPercentages(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router)
	initDemoData(t, router)

	w := doJSON(router, http.MethodGet, "/api/portfolio/allocation", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("allocation returned %d: %s", w.Code, w.Body.String())
	}

	var allocs []models.SectorAllocation
	if err := json.Unmarshal(w.Body.Bytes(), &allocs); err != nil {
		t.Fatalf("allocation response not JSON: %v", err)
	}
	if len(allocs) != 2 {
		t.Fatalf("allocations = %d, want 2", len(allocs))
	}

	var sum float64
	byName := map[string]models.SectorAllocation{}
	for _, a := range allocs {
		sum += a.Percentage
		byName[a.Sector] = a
	}
	if sum < 99.9 || sum > 100.1 {
		t.Errorf("percentages sum to %f, want ~100", sum)
	}
	// Technology: 1000 of 1500 total
	if tech := byName["Technology"]; tech.Value != 1000.0 {
		t.Errorf("Technology value = %f, want 1000", tech.Value)
	}
}

func TestAllocationZeroTotal(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router)

	// Holdings on zero-priced stocks: total is 0 and no percentage may divide by it
	stocks := gin.H{"stocks": []gin.H{
		{"symbol": "ZERO", "name": "Zero Corp", "price": 0.0, "change": 0.0, "changePercent": 0.0, "volume": 0, "sector": "Technology", "high": 0.0, "low": 0.0, "open": 0.0},
	}}
	if w := doJSON(router, http.MethodPost, "/api/stocks/init", "", stocks); w.Code != http.StatusCreated {
		t.Fatalf("stocks init returned %d", w.Code)
	}
	portfolio := gin.H{"portfolio": gin.H{
		"cash": 0.0, "totalValue": 0.0,
		"holdings": []gin.H{{"stockId": "ZERO", "shares": 10, "avgCost": 1.0}},
	}}
	if w := doJSON(router, http.MethodPost, "/api/portfolio/init", "", portfolio); w.Code != http.StatusCreated {
		t.Fatalf("portfolio init returned %d", w.Code)
	}

	w := doJSON(router, http.MethodGet, "/api/portfolio/allocation", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("allocation returned %d", w.Code)
	}

	var allocs []models.SectorAllocation
	if err := json.Unmarshal(w.Body.Bytes(), &allocs); err != nil {
		t.Fatalf("allocation response not JSON: %v", err)
	}
	for _, a := range allocs {
		if a.Percentage != 0 {
			t.Errorf("sector %s percentage = %f, want 0", a.Sector, a.Percentage)
		}
	}
}

func TestHistoricalTimeframe(t *testing.T) {
	router := setupRouter(t)

	db := database.GetDB()
	now := time.Now()
	for _, daysAgo := range []int{1, 3, 10, 40} {
		point := models.HistoricalDataPoint{
			StockSymbol: "AAPL",
			Date:        now.AddDate(0, 0, -daysAgo),
			Open:        99, High: 101, Low: 98, Close: 100,
			Volume: 1000,
		}
		if err := db.Create(&point).Error; err != nil {
			t.Fatalf("insert point failed: %v", err)
		}
	}

	w := doJSON(router, http.MethodGet, "/api/stocks/AAPL/historical?timeframe=1W", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("historical returned %d: %s", w.Code, w.Body.String())
	}

	var points []models.HistoricalDataPoint
	if err := json.Unmarshal(w.Body.Bytes(), &points); err != nil {
		t.Fatalf("historical response not JSON: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("1W returned %d points, want 2", len(points))
	}
	cutoff := now.AddDate(0, 0, -7)
	for i, p := range points {
		if p.Date.Before(cutoff) {
			t.Errorf("point %d older than 7 days: %v", i, p.Date)
		}
		if i > 0 && p.Date.Before(points[i-1].Date) {
			t.Errorf("point %d out of order", i)
		}
	}

	// Default timeframe is 1M
	w = doJSON(router, http.MethodGet, "/api/stocks/AAPL/historical", "", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &points); err != nil {
		t.Fatalf("historical response not JSON: %v", err)
	}
	if len(points) != 3 {
		t.Errorf("default timeframe returned %d points, want 3", len(points))
	}
}

func TestStocksInitReplacesAll(t *testing.T) {
	router := setupRouter(t)
	initDemoData(t, router)

	// Empty list clears the table entirely
	if w := doJSON(router, http.MethodPost, "/api/stocks/init", "", gin.H{"stocks": []gin.H{}}); w.Code != http.StatusCreated {
		t.Fatalf("empty stocks init returned %d: %s", w.Code, w.Body.String())
	}

	w := doJSON(router, http.MethodGet, "/api/stocks", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stocks returned %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("stocks after empty init = %s, want []", w.Body.String())
	}

	var count int64
	database.GetDB().Model(&models.Stock{}).Count(&count)
	if count != 0 {
		t.Errorf("stock rows = %d, want 0", count)
	}
}

func TestStocksLatestWindow(t *testing.T) {
	router := setupRouter(t)

	db := database.GetDB()
	fresh := models.Stock{Symbol: "NEW", Name: "New Corp", Price: 10, UpdatedAt: time.Now()}
	stale := models.Stock{Symbol: "OLD", Name: "Old Corp", Price: 10, UpdatedAt: time.Now().Add(-time.Hour)}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("insert fresh failed: %v", err)
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("insert stale failed: %v", err)
	}

	w := doJSON(router, http.MethodGet, "/api/stocks/latest", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stocks/latest returned %d", w.Code)
	}

	var stocks []models.Stock
	if err := json.Unmarshal(w.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("stocks/latest response not JSON: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "NEW" {
		t.Errorf("stocks/latest = %v, want only NEW", stocks)
	}
}

func TestWatchlistFlow(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router)
	initDemoData(t, router)

	// Create
	w := doJSON(router, http.MethodPost, "/api/watchlists", token, gin.H{"name": "Tech Giants"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create watchlist returned %d: %s", w.Code, w.Body.String())
	}
	var created models.Watchlist
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("create response not JSON: %v", err)
	}
	if created.ID == 0 || created.Name != "Tech Giants" {
		t.Fatalf("created watchlist = %+v", created)
	}

	// List
	w = doJSON(router, http.MethodGet, "/api/watchlists", token, nil)
	var lists []models.Watchlist
	if err := json.Unmarshal(w.Body.Bytes(), &lists); err != nil {
		t.Fatalf("list response not JSON: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("watchlists = %d, want 1", len(lists))
	}

	// Add a stock
	w = doJSON(router, http.MethodPost, "/api/watchlists/1/stocks", token, gin.H{"symbol": "AAPL"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add stock returned %d: %s", w.Code, w.Body.String())
	}

	// Join back to full stock rows
	w = doJSON(router, http.MethodGet, "/api/watchlists/1/stocks", token, nil)
	var stocks []models.Stock
	if err := json.Unmarshal(w.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("watchlist stocks not JSON: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "AAPL" || stocks[0].Price != 100.0 {
		t.Errorf("watchlist stocks = %v, want AAPL @ 100", stocks)
	}

	// Missing name is rejected
	w = doJSON(router, http.MethodPost, "/api/watchlists", token, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("create without name returned %d, want 400", w.Code)
	}
}

func TestRootAndHealth(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("root returned %d", w.Code)
	}
	if w.Body.String() != `{"message":"Welcome to HedgeX API"}` {
		t.Errorf("root body = %s", w.Body.String())
	}

	w = doJSON(router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health returned %d", w.Code)
	}
	if w.Body.String() != `{"status":"healthy"}` {
		t.Errorf("health body = %s", w.Body.String())
	}
}
