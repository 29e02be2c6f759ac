// Package storage persists restaurants and generated reports in SQLite.
// Report persistence is best-effort: the orchestrator logs failures here
// and still returns the report to the caller.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"li-server/models"
)

type RestaurantStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRestaurantStore(dbPath string) (*RestaurantStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		return nil, err
	}

	return &RestaurantStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS restaurants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS location_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		restaurant_id TEXT NOT NULL,
		location_score INTEGER NOT NULL,
		payload TEXT NOT NULL,
		generated_at DATETIME NOT NULL,
		FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
	);
	CREATE INDEX IF NOT EXISTS idx_reports_restaurant ON location_reports(restaurant_id);
	CREATE INDEX IF NOT EXISTS idx_reports_generated ON location_reports(generated_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// GetRestaurantByID resolves a restaurant, or nil when unknown.
func (s *RestaurantStore) GetRestaurantByID(id string) (*models.Restaurant, error) {
	row := s.db.QueryRow("SELECT id, name, address, lat, lng FROM restaurants WHERE id = ?", id)

	var r models.Restaurant
	var address sql.NullString
	err := row.Scan(&r.ID, &r.Name, &address, &r.Location.Latitude, &r.Location.Longitude)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading restaurant %s: %w", id, err)
	}
	r.Address = address.String
	return &r, nil
}

// UpsertRestaurant inserts or replaces a restaurant row.
func (s *RestaurantStore) UpsertRestaurant(r models.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO restaurants (id, name, address, lat, lng) VALUES (?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, address=excluded.address,
			lat=excluded.lat, lng=excluded.lng
	`, r.ID, r.Name, r.Address, r.Location.Latitude, r.Location.Longitude)
	if err != nil {
		return fmt.Errorf("upserting restaurant %s: %w", r.ID, err)
	}
	return nil
}

// CountRestaurants returns the number of restaurant rows.
func (s *RestaurantStore) CountRestaurants() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}

// StoreReport appends a generated report as a history row.
func (s *RestaurantStore) StoreReport(report *models.LocationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshalling report for %s: %w", report.RestaurantID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO location_reports (restaurant_id, location_score, payload, generated_at)
		VALUES (?,?,?,?)
	`, report.RestaurantID, report.LocationScore, string(payload), report.GeneratedAt)
	if err != nil {
		return fmt.Errorf("storing report for %s: %w", report.RestaurantID, err)
	}
	return nil
}

// RecentReports loads the latest reports for a restaurant, newest first.
func (s *RestaurantStore) RecentReports(restaurantID string, limit int) ([]models.LocationReport, error) {
	rows, err := s.db.Query(`
		SELECT payload FROM location_reports
		WHERE restaurant_id = ?
		ORDER BY generated_at DESC
		LIMIT ?
	`, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading reports for %s: %w", restaurantID, err)
	}
	defer rows.Close()

	var reports []models.LocationReport
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var report models.LocationReport
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, fmt.Errorf("unmarshalling stored report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *RestaurantStore) Close() error {
	return s.db.Close()
}
