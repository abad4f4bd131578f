// Package routedb stores route geometries, stops, bus assignments, and
// encoded shapes in SQLite. It is the static counterpart to the live feed:
// the feed says where a bus is, routedb says where its route goes.
package routedb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Config holds the database settings.
type Config struct {
	DBPath   string // Path to SQLite database file, or ":memory:"
	SeedPath string // Optional JSON seed imported on startup
}

// Client is the entry point to the route database.
type Client struct {
	config  Config
	DB      *sql.DB
	Queries *Queries
}

// NewClient opens the database, creates the schema, and imports the seed
// file when one is configured.
func NewClient(config Config) (*Client, error) {
	db, err := initDB(config.DBPath)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:  config,
		DB:      db,
		Queries: &Queries{db: db},
	}

	if config.SeedPath != "" {
		if err := client.ImportFromFile(config.SeedPath); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error importing route seed: %w", err)
		}
	}

	return client, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func initDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	if err := createTables(tx); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if _, err := tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_routes_route_number ON routes(route_number);
		CREATE INDEX IF NOT EXISTS idx_stops_route_id ON stops(route_id);
		CREATE INDEX IF NOT EXISTS idx_assignments_route_id ON assignments(route_id);
	`); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("error creating indexes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return db, nil
}

func createTables(tx *sql.Tx) error {
	stmts := []struct {
		table string
		ddl   string
	}{
		{"routes", `
		CREATE TABLE IF NOT EXISTS routes (
			route_id TEXT PRIMARY KEY,
			route_number TEXT NOT NULL,
			name TEXT,
			origin TEXT,
			destination TEXT,
			direction TEXT NOT NULL,
			distance_km REAL,
			estimated_minutes INTEGER,
			fare REAL,
			active INTEGER NOT NULL DEFAULT 1
		);`},
		{"stops", `
		CREATE TABLE IF NOT EXISTS stops (
			stop_id TEXT NOT NULL,
			route_id TEXT NOT NULL,
			name TEXT,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			sequence INTEGER NOT NULL,
			PRIMARY KEY (route_id, stop_id),
			FOREIGN KEY (route_id) REFERENCES routes(route_id)
		);`},
		{"assignments", `
		CREATE TABLE IF NOT EXISTS assignments (
			bus_id TEXT PRIMARY KEY,
			bus_number TEXT NOT NULL,
			bus_name TEXT,
			bus_type TEXT,
			capacity INTEGER,
			route_id TEXT NOT NULL,
			driver_id TEXT,
			FOREIGN KEY (route_id) REFERENCES routes(route_id)
		);`},
		{"shapes", `
		CREATE TABLE IF NOT EXISTS shapes (
			route_id TEXT PRIMARY KEY,
			encoded_polyline TEXT NOT NULL,
			FOREIGN KEY (route_id) REFERENCES routes(route_id)
		);`},
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt.ddl); err != nil {
			return fmt.Errorf("error creating table %s: %w", stmt.table, err)
		}
	}
	return nil
}
