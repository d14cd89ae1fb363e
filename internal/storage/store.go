// Package storage persists inventory records, code counters and provider
// credentials in SQLite. The core pipeline only sees the RecordStore
// interface; on startup the full record set is handed back so counters can
// be rebuilt, and records are written back one at a time.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ollisal/flipstack/internal/codes"
	"github.com/ollisal/flipstack/internal/inventory"
	_ "modernc.org/sqlite"
)

// RecordStore is the persistence boundary of the pipeline.
type RecordStore interface {
	LoadRecords() ([]inventory.Record, error)
	SaveRecord(r inventory.Record) error
	DeleteRecord(itemNumber int64) error

	LoadCounters() (codes.CounterTable, error)
	SaveCounters(table codes.CounterTable) error

	// Provider credentials, encrypted at rest.
	SetCredential(provider, secret string) error
	GetCredential(provider string) (string, error)

	Close() error
}

// SQLiteStore implements RecordStore on a local SQLite file.
type SQLiteStore struct {
	db            *sql.DB
	encryptionKey []byte
}

// NewSQLiteStore opens (and if needed creates) the database at dbPath. The
// encryptionKey protects provider credentials; record data is stored in the
// clear.
func NewSQLiteStore(dbPath string, encryptionKey []byte) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, encryptionKey: encryptionKey}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		item_number INTEGER PRIMARY KEY,
		code TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		condition TEXT NOT NULL DEFAULT '',
		condition_score REAL NOT NULL DEFAULT 0,
		purchase_price REAL NOT NULL DEFAULT 0,
		suggested_price REAL NOT NULL DEFAULT 0,
		realized_price REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT 0,
		listed_at INTEGER NOT NULL DEFAULT 0,
		sold_at INTEGER NOT NULL DEFAULT 0,
		image_refs TEXT NOT NULL DEFAULT '[]',
		brand TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		colorway TEXT NOT NULL DEFAULT '',
		barcode TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		bin TEXT NOT NULL DEFAULT '',
		packaged INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS counters (
		letter TEXT PRIMARY KEY,
		max_sequence INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS credentials (
		provider TEXT PRIMARY KEY,
		encrypted_secret TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadRecords returns every persisted record, ordered by item number.
func (s *SQLiteStore) LoadRecords() ([]inventory.Record, error) {
	rows, err := s.db.Query(`
		SELECT item_number, code, name, category, condition, condition_score,
		       purchase_price, suggested_price, realized_price, status,
		       created_at, listed_at, sold_at, image_refs,
		       brand, size, colorway, barcode, location, bin, packaged
		FROM records ORDER BY item_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []inventory.Record
	for rows.Next() {
		var r inventory.Record
		var createdAt, listedAt, soldAt int64
		var imageRefs string
		var packaged int
		err := rows.Scan(
			&r.ItemNumber, &r.Code, &r.Name, &r.Category, &r.Condition, &r.ConditionScore,
			&r.PurchasePrice, &r.SuggestedPrice, &r.RealizedPrice, &r.Status,
			&createdAt, &listedAt, &soldAt, &imageRefs,
			&r.Brand, &r.Size, &r.Colorway, &r.Barcode, &r.Location, &r.Bin, &packaged,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.CreatedAt = fromUnix(createdAt)
		r.ListedAt = fromUnix(listedAt)
		r.SoldAt = fromUnix(soldAt)
		r.Packaged = packaged != 0
		if err := json.Unmarshal([]byte(imageRefs), &r.ImageRefs); err != nil {
			r.ImageRefs = nil
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveRecord upserts one record by item number.
func (s *SQLiteStore) SaveRecord(r inventory.Record) error {
	imageRefs, err := json.Marshal(r.ImageRefs)
	if err != nil {
		return fmt.Errorf("failed to marshal image refs: %w", err)
	}
	packaged := 0
	if r.Packaged {
		packaged = 1
	}
	_, err = s.db.Exec(`
		INSERT INTO records (
			item_number, code, name, category, condition, condition_score,
			purchase_price, suggested_price, realized_price, status,
			created_at, listed_at, sold_at, image_refs,
			brand, size, colorway, barcode, location, bin, packaged
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_number) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			category = excluded.category,
			condition = excluded.condition,
			condition_score = excluded.condition_score,
			purchase_price = excluded.purchase_price,
			suggested_price = excluded.suggested_price,
			realized_price = excluded.realized_price,
			status = excluded.status,
			created_at = excluded.created_at,
			listed_at = excluded.listed_at,
			sold_at = excluded.sold_at,
			image_refs = excluded.image_refs,
			brand = excluded.brand,
			size = excluded.size,
			colorway = excluded.colorway,
			barcode = excluded.barcode,
			location = excluded.location,
			bin = excluded.bin,
			packaged = excluded.packaged`,
		r.ItemNumber, r.Code, r.Name, r.Category, r.Condition, r.ConditionScore,
		r.PurchasePrice, r.SuggestedPrice, r.RealizedPrice, string(r.Status),
		toUnix(r.CreatedAt), toUnix(r.ListedAt), toUnix(r.SoldAt), string(imageRefs),
		r.Brand, r.Size, r.Colorway, r.Barcode, r.Location, r.Bin, packaged,
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// DeleteRecord removes one record.
func (s *SQLiteStore) DeleteRecord(itemNumber int64) error {
	_, err := s.db.Exec(`DELETE FROM records WHERE item_number = ?`, itemNumber)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// LoadCounters returns the persisted counter table.
func (s *SQLiteStore) LoadCounters() (codes.CounterTable, error) {
	rows, err := s.db.Query(`SELECT letter, max_sequence FROM counters`)
	if err != nil {
		return nil, fmt.Errorf("failed to query counters: %w", err)
	}
	defer rows.Close()

	table := make(codes.CounterTable)
	for rows.Next() {
		var letter string
		var max int
		if err := rows.Scan(&letter, &max); err != nil {
			return nil, fmt.Errorf("failed to scan counter: %w", err)
		}
		table[letter] = max
	}
	return table, rows.Err()
}

// SaveCounters upserts the counter table. A persisted value is never
// lowered, so a stale writer cannot regress the sequence.
func (s *SQLiteStore) SaveCounters(table codes.CounterTable) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for letter, max := range table {
		_, err := tx.Exec(`
			INSERT INTO counters (letter, max_sequence) VALUES (?, ?)
			ON CONFLICT(letter) DO UPDATE SET
				max_sequence = MAX(max_sequence, excluded.max_sequence)`,
			letter, max)
		if err != nil {
			return fmt.Errorf("failed to save counter %s: %w", letter, err)
		}
	}
	return tx.Commit()
}

// SetCredential stores a provider secret encrypted with the store key.
func (s *SQLiteStore) SetCredential(provider, secret string) error {
	encrypted, err := Encrypt([]byte(secret), s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO credentials (provider, encrypted_secret, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET
			encrypted_secret = excluded.encrypted_secret,
			updated_at = excluded.updated_at`,
		provider, encrypted, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// GetCredential returns the decrypted secret for a provider, or empty when
// none is stored.
func (s *SQLiteStore) GetCredential(provider string) (string, error) {
	var encrypted string
	err := s.db.QueryRow(`SELECT encrypted_secret FROM credentials WHERE provider = ?`, provider).Scan(&encrypted)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query credential: %w", err)
	}
	secret, err := Decrypt(encrypted, s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return string(secret), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0)
}
