// Package services orchestrates finance-record operations across the
// SQLite repository and the AMQP sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"finpal/internal/amqp"
	"finpal/internal/core"
	"finpal/internal/storage"
)

// FinanceService wraps the repository so that every record write also
// queues a sheet sync. The AMQP client is optional; without it writes are
// local only and the worker's periodic scan picks them up.
type FinanceService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewFinanceService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *FinanceService {
	return &FinanceService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// GetUser implements store.UserStore.
func (s *FinanceService) GetUser(ctx context.Context, phone string) (core.User, bool, error) {
	return s.storage.GetUser(ctx, phone)
}

// PutUser implements store.UserStore.
func (s *FinanceService) PutUser(ctx context.Context, u core.User) error {
	return s.storage.PutUser(ctx, u)
}

// GetRecord implements store.FinanceStore.
func (s *FinanceService) GetRecord(ctx context.Context, phone string) (core.FinancialRecord, error) {
	return s.storage.GetRecord(ctx, phone)
}

// PutRecord saves the record locally first, then publishes the sync
// message. Publish failures never fail the request.
func (s *FinanceService) PutRecord(ctx context.Context, phone string, r core.FinancialRecord) error {
	if err := s.storage.PutRecord(ctx, phone, r); err != nil {
		return fmt.Errorf("save finance record: %w", err)
	}
	s.publishSync(ctx, phone)
	return nil
}

// MergeRecord implements store.FinanceStore with the same publish-after-save
// discipline as PutRecord.
func (s *FinanceService) MergeRecord(ctx context.Context, phone string, updates core.FinancialRecord) (core.FinancialRecord, error) {
	merged, err := s.storage.MergeRecord(ctx, phone, updates)
	if err != nil {
		return core.FinancialRecord{}, fmt.Errorf("merge finance record: %w", err)
	}
	s.publishSync(ctx, phone)
	return merged, nil
}

func (s *FinanceService) publishSync(ctx context.Context, phone string) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sync message", "phone", phone)
		return
	}
	version, err := s.storage.GetVersion(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read record version for sync", "phone", phone, "error", err)
		return
	}
	if err := s.amqpClient.PublishRecordSync(ctx, phone, version); err != nil {
		// The record is saved; the periodic pending scan will retry.
		slog.ErrorContext(ctx, "Failed to publish sync message", "phone", phone, "error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *FinanceService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close finance service: %v", errs)
	}

	return nil
}
