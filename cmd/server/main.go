package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/drovane/Mentis/internal/api"
	"github.com/drovane/Mentis/internal/db"
	"github.com/drovane/Mentis/internal/middleware"
	"github.com/drovane/Mentis/internal/utils"
)

func main() {
	addr := utils.SafeEnv("MENTIS_ADDR", ":8080")
	baseURL := utils.SafeEnv("MENTIS_BASE_URL", "http://localhost:8080")
	commit := os.Getenv("MENTIS_COMMIT")
	buildTime := os.Getenv("MENTIS_BUILD_TIME")

	store, err := openStore()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	router := api.NewRouter(store, baseURL)
	if err := router.Seed(); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	mux := http.NewServeMux()
	router.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Mentis API",
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	handler := middleware.NoStore(middleware.SecureHeaders(middleware.CORS(middleware.WithAuth(mux))))

	log.Printf("Mentis server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore opens the sqlite-backed store, or the in-memory store when no
// sqlite path is configured (zero-config development runs).
func openStore() (api.Store, error) {
	sqlitePath := os.Getenv("MENTIS_SQLITE_PATH")
	if sqlitePath == "" {
		log.Printf("MENTIS_SQLITE_PATH not set, using in-memory store")
		return api.NewMemoryStore(), nil
	}

	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(sqlitePath))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.RunMigrations(sqliteDB, os.Getenv("MENTIS_MIGRATIONS_DIR")); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db.NewStore(sqliteDB)
}
