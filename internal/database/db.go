package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database at path and runs migrations.
//
// Every connection in the pool gets WAL, a busy timeout and enforced foreign keys through
// the DSN, and transactions begin IMMEDIATE so a writer holds the database lock from its
// first read. Stock checks and deductions inside one transaction therefore cannot
// interleave with another writer.
func Open(path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=foreign_keys(1)&_txlock=immediate"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite can handle 1 writer + multiple readers with WAL mode
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(conn *sql.DB) error {
	tables := []struct {
		name string
		ddl  string
	}{
		{"components", `CREATE TABLE IF NOT EXISTS components (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			part_number TEXT NOT NULL UNIQUE,
			current_stock INTEGER NOT NULL DEFAULT 0,
			monthly_required_quantity INTEGER NOT NULL DEFAULT 1 CHECK(monthly_required_quantity > 0),
			estimated_arrival_days INTEGER CHECK(estimated_arrival_days IS NULL OR estimated_arrival_days >= 0),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`},
		{"pcb_types", `CREATE TABLE IF NOT EXISTS pcb_types (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`},
		{"pcb_components", `CREATE TABLE IF NOT EXISTS pcb_components (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pcb_type_id INTEGER NOT NULL,
			component_id INTEGER NOT NULL,
			quantity_per_pcb INTEGER NOT NULL CHECK(quantity_per_pcb > 0),
			UNIQUE(pcb_type_id, component_id),
			FOREIGN KEY (pcb_type_id) REFERENCES pcb_types(id) ON DELETE CASCADE,
			FOREIGN KEY (component_id) REFERENCES components(id) ON DELETE RESTRICT
		)`},
		{"future_orders", `CREATE TABLE IF NOT EXISTS future_orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_name TEXT NOT NULL,
			pcb_type_id INTEGER,
			quantity_required INTEGER CHECK(quantity_required IS NULL OR quantity_required > 0),
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','confirmed','at_risk','completed','cancelled')),
			scheduled_production_date TEXT NOT NULL,
			delivery_date TEXT DEFAULT '',
			created_by TEXT DEFAULT 'system',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME,
			FOREIGN KEY (pcb_type_id) REFERENCES pcb_types(id)
		)`},
		{"future_order_items", `CREATE TABLE IF NOT EXISTS future_order_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			pcb_type_id INTEGER NOT NULL,
			quantity_required INTEGER NOT NULL CHECK(quantity_required > 0),
			FOREIGN KEY (order_id) REFERENCES future_orders(id) ON DELETE CASCADE,
			FOREIGN KEY (pcb_type_id) REFERENCES pcb_types(id)
		)`},
		{"procurement_triggers", `CREATE TABLE IF NOT EXISTS procurement_triggers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			component_id INTEGER NOT NULL,
			current_stock INTEGER NOT NULL DEFAULT 0,
			required_threshold INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','ordered','received')),
			trigger_date TEXT NOT NULL,
			expected_delivery_date TEXT,
			quantity_ordered INTEGER NOT NULL DEFAULT 0 CHECK(quantity_ordered >= 0),
			supplier_name TEXT DEFAULT '',
			received_at DATETIME,
			FOREIGN KEY (component_id) REFERENCES components(id) ON DELETE CASCADE
		)`},
		{"production_entries", `CREATE TABLE IF NOT EXISTS production_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pcb_type_id INTEGER NOT NULL,
			quantity_produced INTEGER NOT NULL CHECK(quantity_produced > 0),
			order_id INTEGER,
			produced_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (pcb_type_id) REFERENCES pcb_types(id),
			FOREIGN KEY (order_id) REFERENCES future_orders(id)
		)`},
		{"consumption_history", `CREATE TABLE IF NOT EXISTS consumption_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			production_entry_id INTEGER NOT NULL,
			component_id INTEGER NOT NULL,
			quantity_consumed INTEGER NOT NULL,
			consumed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (production_entry_id) REFERENCES production_entries(id) ON DELETE CASCADE,
			FOREIGN KEY (component_id) REFERENCES components(id)
		)`},
		{"audit_log", `CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT DEFAULT 'system',
			action TEXT NOT NULL,
			module TEXT NOT NULL,
			record_id TEXT NOT NULL,
			summary TEXT,
			details TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`},
		// order_lines flattens both order shapes into one row per (order, pcb type). The legacy
		// embedded pair only appears for orders without item rows, so no order is counted twice.
		{"order_lines", `CREATE VIEW IF NOT EXISTS order_lines AS
			SELECT fo.id AS order_id, fo.status, fo.scheduled_production_date,
				i.pcb_type_id, i.quantity_required AS quantity
			FROM future_orders fo JOIN future_order_items i ON i.order_id = fo.id
			UNION ALL
			SELECT fo.id, fo.status, fo.scheduled_production_date,
				fo.pcb_type_id, fo.quantity_required
			FROM future_orders fo
			WHERE fo.pcb_type_id IS NOT NULL AND fo.quantity_required IS NOT NULL
				AND NOT EXISTS (SELECT 1 FROM future_order_items i WHERE i.order_id = fo.id)`},
	}
	for _, t := range tables {
		if _, err := conn.Exec(t.ddl); err != nil {
			return fmt.Errorf("%s migration: %w", t.name, err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_pcb_components_component ON pcb_components(component_id)`,
		`CREATE INDEX IF NOT EXISTS idx_future_orders_status_date ON future_orders(status, scheduled_production_date)`,
		`CREATE INDEX IF NOT EXISTS idx_future_order_items_order ON future_order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_triggers_component_status ON procurement_triggers(component_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_consumption_entry ON consumption_history(production_entry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at)`,
	}
	for _, ix := range indexes {
		if _, err := conn.Exec(ix); err != nil {
			return fmt.Errorf("index migration: %w", err)
		}
	}
	return nil
}
