package storage

import (
	"context"
	"path/filepath"
	"testing"

	"finpal/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finpal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, found, err := repo.GetUser(ctx, "123"); err != nil || found {
		t.Fatalf("empty lookup: found=%v err=%v", found, err)
	}

	u := core.User{Phone: "123", Name: "Asha", Password: "pw", Profile: map[string]string{"city": "Pune"}}
	if err := repo.PutUser(ctx, u); err != nil {
		t.Fatalf("PutUser: %v", err)
	}

	got, found, err := repo.GetUser(ctx, "123")
	if err != nil || !found {
		t.Fatalf("GetUser: found=%v err=%v", found, err)
	}
	if got.Name != "Asha" || got.Password != "pw" || got.Profile["city"] != "Pune" {
		t.Fatalf("GetUser = %+v", got)
	}

	// Upsert replaces
	u.Name = "Asha K"
	if err := repo.PutUser(ctx, u); err != nil {
		t.Fatalf("PutUser upsert: %v", err)
	}
	got, _, _ = repo.GetUser(ctx, "123")
	if got.Name != "Asha K" {
		t.Fatalf("upsert did not replace: %+v", got)
	}
}

func TestRecordAbsenceSurvivesSQL(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Unknown phone yields an empty record, never an error.
	rec, err := repo.GetRecord(ctx, "555")
	if err != nil {
		t.Fatalf("GetRecord unknown: %v", err)
	}
	if !rec.IsEmpty() {
		t.Fatalf("expected empty record, got %+v", rec)
	}

	// A record with some fields NULL and loan zero.
	in := core.FinancialRecord{BankBalance: core.Int64(850000), Loan: core.Int64(0)}
	if err := repo.PutRecord(ctx, "123", in); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	out, err := repo.GetRecord(ctx, "123")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if out.BankBalance == nil || *out.BankBalance != 850000 {
		t.Fatalf("bank balance lost: %+v", out)
	}
	if out.Loan == nil || *out.Loan != 0 {
		t.Fatalf("explicit zero became absent: %+v", out)
	}
	if out.Stocks != nil || out.MutualFunds != nil || out.CreditScore != nil {
		t.Fatalf("NULL columns materialized: %+v", out)
	}
}

func TestMergeRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.PutRecord(ctx, "123", core.FinancialRecord{BankBalance: core.Int64(100)}); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	merged, err := repo.MergeRecord(ctx, "123", core.FinancialRecord{Stocks: core.Int64(42)})
	if err != nil {
		t.Fatalf("MergeRecord: %v", err)
	}
	if merged.BankBalance == nil || *merged.BankBalance != 100 {
		t.Fatalf("merge lost bank balance: %+v", merged)
	}
	if merged.Stocks == nil || *merged.Stocks != 42 {
		t.Fatalf("merge did not apply stocks: %+v", merged)
	}
}

func TestSyncBookkeeping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.PutRecord(ctx, "123", core.FinancialRecord{BankBalance: core.Int64(1)}); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	pending, err := repo.GetPendingSyncRecords(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncRecords: %v", err)
	}
	if len(pending) != 1 || pending[0].Phone != "123" || pending[0].Version != 1 {
		t.Fatalf("pending = %+v", pending)
	}

	if err := repo.MarkSynced(ctx, "123", 1); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	pending, _ = repo.GetPendingSyncRecords(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("still pending after MarkSynced: %+v", pending)
	}

	// A new write bumps the version and goes pending again.
	if err := repo.PutRecord(ctx, "123", core.FinancialRecord{BankBalance: core.Int64(2)}); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}
	version, err := repo.GetVersion(ctx, "123")
	if err != nil || version != 2 {
		t.Fatalf("version = %d err=%v", version, err)
	}

	// Marking the stale version must not clear the newer pending state.
	if err := repo.MarkSynced(ctx, "123", 1); err != nil {
		t.Fatalf("MarkSynced stale: %v", err)
	}
	pending, _ = repo.GetPendingSyncRecords(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("stale MarkSynced cleared pending state: %+v", pending)
	}

	// An error flag keeps the record in the retry scan.
	if err := repo.MarkSyncError(ctx, "123"); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}
	pending, _ = repo.GetPendingSyncRecords(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("error state not pending: %+v", pending)
	}
}
