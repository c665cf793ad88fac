package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fixer_backend/internal/app"
	"fixer_backend/internal/config"
	"fixer_backend/internal/models"
	"fixer_backend/pkg/contextkeys"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServer hosts the full HTTP stack against a test database. Tests
// open a transaction with BeginTransaction; every request served while
// it is active runs inside that transaction (DBMiddleware picks it up
// from the request context), so a rollback wipes everything the test
// created.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB

	mu       sync.Mutex
	activeTx *gorm.DB
}

func NewTestServer(t *testing.T) *TestServer {
	config.LoadConfig()
	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to the test database (%s): %v", cfg.Database.DSN, err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ProfessionalProfile{},
		&models.ClientProfile{},
		&models.Job{},
		&models.Quote{},
		&models.Review{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate the test database: %v", err)
	}

	router := app.SetupRouter(cfg, db)

	ts := &TestServer{DB: db}

	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tx := ts.currentTx(); tx != nil {
			ctx := context.WithValue(r.Context(), contextkeys.DBContextKey, tx)
			r = r.WithContext(ctx)
		}
		router.ServeHTTP(w, r)
	}))

	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

func (ts *TestServer) currentTx() *gorm.DB {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.activeTx
}

// BeginTransaction opens the per-test transaction. Only one can be
// active at a time, so tests sharing the server must not run in
// parallel.
func (ts *TestServer) BeginTransaction(t *testing.T) *gorm.DB {
	t.Helper()

	tx := ts.DB.Begin()
	if tx.Error != nil {
		t.Fatalf("failed to begin test transaction: %v", tx.Error)
	}

	ts.mu.Lock()
	if ts.activeTx != nil {
		ts.mu.Unlock()
		tx.Rollback()
		t.Fatalf("a test transaction is already active")
	}
	ts.activeTx = tx
	ts.mu.Unlock()

	return tx
}

func (ts *TestServer) RollbackTransaction(t *testing.T, tx *gorm.DB) {
	t.Helper()

	ts.mu.Lock()
	ts.activeTx = nil
	ts.mu.Unlock()

	if err := tx.Rollback().Error; err != nil && err != gorm.ErrInvalidTransaction {
		t.Logf("rollback of test transaction failed: %v", err)
	}
}

// SendRequest performs an HTTP request against the test server and
// returns the response plus its body as a string.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBody)
}
