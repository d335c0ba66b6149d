package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finpal/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository backs both the user directory and the finance record
// store, and keeps the sync bookkeeping consumed by the sheets worker.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetUser implements store.UserStore.
func (r *SQLiteRepository) GetUser(ctx context.Context, phone string) (core.User, bool, error) {
	var (
		u       core.User
		profile sql.NullString
	)
	row := r.db.QueryRowContext(ctx,
		`SELECT phone, name, password, profile FROM users WHERE phone = ?`, phone)
	if err := row.Scan(&u.Phone, &u.Name, &u.Password, &profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, false, nil
		}
		return core.User{}, false, fmt.Errorf("get user: %w", err)
	}
	if profile.Valid && profile.String != "" {
		if err := json.Unmarshal([]byte(profile.String), &u.Profile); err != nil {
			slog.WarnContext(ctx, "Failed to decode user profile", "phone", phone, "error", err)
		}
	}
	return u, true, nil
}

// PutUser implements store.UserStore.
func (r *SQLiteRepository) PutUser(ctx context.Context, u core.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	var profile any
	if len(u.Profile) > 0 {
		data, err := json.Marshal(u.Profile)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		profile = string(data)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (phone, name, password, profile) VALUES (?, ?, ?, ?)
		 ON CONFLICT(phone) DO UPDATE SET name = excluded.name,
		   password = excluded.password, profile = excluded.profile`,
		u.Phone, u.Name, u.Password, profile)
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetRecord implements store.FinanceStore. An unknown phone yields an
// empty record, never an error.
func (r *SQLiteRepository) GetRecord(ctx context.Context, phone string) (core.FinancialRecord, error) {
	var bank, funds, stocks, loan, score sql.NullInt64
	row := r.db.QueryRowContext(ctx,
		`SELECT bank_balance, mutual_funds, stocks, loan, credit_score
		 FROM finance_records WHERE phone = ?`, phone)
	if err := row.Scan(&bank, &funds, &stocks, &loan, &score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.FinancialRecord{}, nil
		}
		return core.FinancialRecord{}, fmt.Errorf("get finance record: %w", err)
	}
	return core.FinancialRecord{
		BankBalance: fromNull(bank),
		MutualFunds: fromNull(funds),
		Stocks:      fromNull(stocks),
		Loan:        fromNull(loan),
		CreditScore: fromNull(score),
	}, nil
}

// PutRecord implements store.FinanceStore.
func (r *SQLiteRepository) PutRecord(ctx context.Context, phone string, rec core.FinancialRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO finance_records
		   (phone, bank_balance, mutual_funds, stocks, loan, credit_score, version, sync_status, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 1, 'pending', ?)
		 ON CONFLICT(phone) DO UPDATE SET
		   bank_balance = excluded.bank_balance,
		   mutual_funds = excluded.mutual_funds,
		   stocks = excluded.stocks,
		   loan = excluded.loan,
		   credit_score = excluded.credit_score,
		   version = finance_records.version + 1,
		   sync_status = 'pending',
		   updated_at = excluded.updated_at`,
		phone, toNull(rec.BankBalance), toNull(rec.MutualFunds), toNull(rec.Stocks),
		toNull(rec.Loan), toNull(rec.CreditScore), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put finance record: %w", err)
	}
	return nil
}

// MergeRecord implements store.FinanceStore.
func (r *SQLiteRepository) MergeRecord(ctx context.Context, phone string, updates core.FinancialRecord) (core.FinancialRecord, error) {
	current, err := r.GetRecord(ctx, phone)
	if err != nil {
		return core.FinancialRecord{}, err
	}
	merged := current.Merge(updates)
	if err := r.PutRecord(ctx, phone, merged); err != nil {
		return core.FinancialRecord{}, err
	}
	return merged, nil
}

// PendingSyncRecord identifies a record waiting to be pushed to the sheet.
type PendingSyncRecord struct {
	Phone   string
	Version int64
}

// GetVersion returns the current sync version for a phone, 0 when the
// record does not exist.
func (r *SQLiteRepository) GetVersion(ctx context.Context, phone string) (int64, error) {
	var version int64
	row := r.db.QueryRowContext(ctx,
		`SELECT version FROM finance_records WHERE phone = ?`, phone)
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get record version: %w", err)
	}
	return version, nil
}

// GetPendingSyncRecords returns records that have not reached the sheet
// yet, oldest first.
func (r *SQLiteRepository) GetPendingSyncRecords(ctx context.Context, limit int) ([]PendingSyncRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT phone, version FROM finance_records
		 WHERE sync_status IN ('pending', 'error')
		 ORDER BY updated_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync records: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncRecord
	for rows.Next() {
		var p PendingSyncRecord
		if err := rows.Scan(&p.Phone, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending sync record: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful sheet append for a phone at a version.
// A concurrent newer update keeps its pending status.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, phone string, version int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE finance_records SET sync_status = 'synced'
		 WHERE phone = ? AND version = ?`, phone, version)
	if err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	return nil
}

// MarkSyncError flags a record whose sheet append failed so the periodic
// scan retries it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, phone string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE finance_records SET sync_status = 'error' WHERE phone = ?`, phone)
	if err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Finance record marked with sync error", "phone", phone)
	return nil
}

func fromNull(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func toNull(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}
