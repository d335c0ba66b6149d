// Package worker pushes finance-record snapshots from SQLite to the
// configured sheet, driven by AMQP messages with a periodic scan as
// backup for lost deliveries.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finpal/internal/amqp"
	"finpal/internal/storage"
	"finpal/internal/store"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	snapshots store.SnapshotWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, snapshots store.SnapshotWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		snapshots: snapshots,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sync message from AMQP. The message only
// names the phone; the record is read fresh from storage so a burst of
// updates collapses into the latest state.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"phone", msg.Phone,
		"version", msg.Version)

	return w.syncRecord(ctx, msg.Phone)
}

// ProcessPendingRecords pushes any records that have not reached the sheet
// yet. This is the backup path for lost AMQP messages and worker downtime.
func (w *SyncWorker) ProcessPendingRecords(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncRecords(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, p := range pending {
		if err := w.syncRecord(ctx, p.Phone); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record", "phone", p.Phone, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains a larger pending batch when the worker boots.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncRecords(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending records for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Startup sync check found pending records", "count", len(pending))

	for _, p := range pending {
		if err := w.syncRecord(ctx, p.Phone); err != nil {
			slog.ErrorContext(ctx, "Startup sync failed for record", "phone", p.Phone, "error", err)
		}
	}

	return nil
}

func (w *SyncWorker) syncRecord(ctx context.Context, phone string) error {
	record, err := w.storage.GetRecord(ctx, phone)
	if err != nil {
		return fmt.Errorf("get record from storage: %w", err)
	}

	// Capture the version before the append so a concurrent update keeps
	// its pending status.
	version, err := w.storage.GetVersion(ctx, phone)
	if err != nil {
		return fmt.Errorf("get record version: %w", err)
	}

	ref, err := w.snapshots.AppendSnapshot(ctx, phone, record)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, phone); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "phone", phone, "error", markErr)
		}
		return fmt.Errorf("append snapshot: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, phone, version); err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}

	slog.InfoContext(ctx, "Record synced to sheet", "phone", phone, "version", version, "ref", ref)
	return nil
}
