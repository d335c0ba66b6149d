package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finpal/internal/amqp"
	"finpal/internal/core"
	"finpal/internal/storage"
)

type fakeSnapshots struct {
	appended []string
	fail     bool
}

func (f *fakeSnapshots) AppendSnapshot(_ context.Context, phone string, _ core.FinancialRecord) (string, error) {
	if f.fail {
		return "", errors.New("sheet unavailable")
	}
	f.appended = append(f.appended, phone)
	return "Snapshots!A2:H2", nil
}

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "finpal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestHandleSyncMessage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if err := repo.PutRecord(ctx, "123", core.FinancialRecord{BankBalance: core.Int64(1000)}); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	snaps := &fakeSnapshots{}
	w := NewSyncWorker(repo, snaps, 10)

	if err := w.HandleSyncMessage(ctx, amqp.NewRecordSyncMessage("123", 1)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	if len(snaps.appended) != 1 || snaps.appended[0] != "123" {
		t.Fatalf("appended = %v", snaps.appended)
	}

	// The record is marked synced, so the pending scan finds nothing.
	pending, err := repo.GetPendingSyncRecords(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncRecords: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("still pending after sync: %+v", pending)
	}
}

func TestProcessPendingRecords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	for _, phone := range []string{"111", "222"} {
		if err := repo.PutRecord(ctx, phone, core.FinancialRecord{Stocks: core.Int64(5)}); err != nil {
			t.Fatalf("PutRecord %s: %v", phone, err)
		}
	}

	snaps := &fakeSnapshots{}
	w := NewSyncWorker(repo, snaps, 10)

	if err := w.ProcessPendingRecords(ctx); err != nil {
		t.Fatalf("ProcessPendingRecords: %v", err)
	}
	if len(snaps.appended) != 2 {
		t.Fatalf("appended = %v", snaps.appended)
	}
}

func TestSyncFailureMarksErrorAndRetries(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if err := repo.PutRecord(ctx, "123", core.FinancialRecord{Loan: core.Int64(0)}); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	snaps := &fakeSnapshots{fail: true}
	w := NewSyncWorker(repo, snaps, 10)

	if err := w.HandleSyncMessage(ctx, amqp.NewRecordSyncMessage("123", 1)); err == nil {
		t.Fatal("expected sync failure")
	}

	// Still eligible for the periodic retry scan.
	pending, err := repo.GetPendingSyncRecords(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncRecords: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed record not pending: %+v", pending)
	}

	// Recovery: the sheet comes back and the scan drains the record.
	snaps.fail = false
	if err := w.ProcessPendingRecords(ctx); err != nil {
		t.Fatalf("ProcessPendingRecords: %v", err)
	}
	pending, _ = repo.GetPendingSyncRecords(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("record not drained after recovery: %+v", pending)
	}
}
