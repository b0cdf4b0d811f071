package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AnnaCarter465/zakat-tax/tax"
	_ "github.com/lib/pq"
)

type DB struct {
	sqlDB *sql.DB
}

func NewDB(dbURL string) (*DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func (db *DB) GetSQLDB() *sql.DB {
	return db.sqlDB
}

func (db *DB) Ping(ctx context.Context) error {
	return db.sqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}

// Migrate creates the tax_slabs table and seeds it with defaults when empty.
func (db *DB) Migrate(ctx context.Context, defaults []tax.Rate) error {
	_, err := db.GetSQLDB().ExecContext(
		ctx,
		`
			CREATE TABLE IF NOT EXISTS tax_slabs (
				position   INTEGER PRIMARY KEY,
				label      TEXT NOT NULL,
				percentage DOUBLE PRECISION NOT NULL,
				max_amount DOUBLE PRECISION
			)
		`)
	if err != nil {
		return fmt.Errorf("create tax_slabs: %w", err)
	}

	var count int

	err = db.GetSQLDB().QueryRowContext(ctx, `SELECT COUNT(*) FROM tax_slabs`).Scan(&count)
	if err != nil {
		return fmt.Errorf("count tax_slabs: %w", err)
	}

	if count > 0 {
		return nil
	}

	tx, err := db.GetSQLDB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, slab := range FromRates(defaults) {
		_, err = tx.ExecContext(
			ctx,
			`
				INSERT INTO tax_slabs (position, label, percentage, max_amount) VALUES ($1, $2, $3, $4)
			`, i, slab.Label, slab.Percentage, slab.MaxAmount)
		if err != nil {
			return fmt.Errorf("seed tax_slabs: %w", err)
		}
	}

	return tx.Commit()
}

func (db *DB) FindAllTaxSlabs(ctx context.Context) ([]TaxSlab, error) {
	var results []TaxSlab

	rows, err := db.GetSQLDB().QueryContext(
		ctx,
		`
			SELECT label, percentage, max_amount FROM tax_slabs ORDER BY position
		`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slab TaxSlab

		err = rows.Scan(&slab.Label, &slab.Percentage, &slab.MaxAmount)
		if err != nil {
			return nil, err
		}

		results = append(results, slab)
	}

	return results, rows.Err()
}

// LoadSchedule reads the slab table and validates it as a tax schedule.
func (db *DB) LoadSchedule(ctx context.Context) (*tax.Schedule, error) {
	slabs, err := db.FindAllTaxSlabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("find tax slabs: %w", err)
	}

	return tax.NewSchedule(ToRates(slabs))
}

// TaxSlab is one row of tax_slabs. A NULL max_amount is the unbounded top slab.
type TaxSlab struct {
	Label      string          `db:"label"`
	Percentage float64         `db:"percentage"`
	MaxAmount  sql.NullFloat64 `db:"max_amount"`
}

func ToRates(slabs []TaxSlab) []tax.Rate {
	rates := make([]tax.Rate, 0, len(slabs))

	for _, s := range slabs {
		maxAmount := float64(tax.Unbounded)
		if s.MaxAmount.Valid {
			maxAmount = s.MaxAmount.Float64
		}

		rates = append(rates, tax.Rate{
			Percentage: s.Percentage,
			Max:        maxAmount,
			Label:      s.Label,
		})
	}

	return rates
}

func FromRates(rates []tax.Rate) []TaxSlab {
	slabs := make([]TaxSlab, 0, len(rates))

	for _, r := range rates {
		slabs = append(slabs, TaxSlab{
			Label:      r.Label,
			Percentage: r.Percentage,
			MaxAmount: sql.NullFloat64{
				Float64: r.Max,
				Valid:   r.Max != tax.Unbounded,
			},
		})
	}

	return slabs
}
