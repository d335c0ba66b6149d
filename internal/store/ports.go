// Package store defines the ports for the user directory and the finance
// record store. Backends live in subpackages and in internal/storage.
package store

import (
	"context"

	"finpal/internal/core"
)

type (
	// UserStore is the phone-keyed user directory.
	UserStore interface {
		// GetUser returns the user and whether the phone is registered.
		// An unknown phone is not an error.
		GetUser(ctx context.Context, phone string) (core.User, bool, error)
		// PutUser stores or replaces a user.
		PutUser(ctx context.Context, u core.User) error
	}

	// FinanceStore is the phone-keyed financial record store.
	FinanceStore interface {
		// GetRecord returns the record for a phone. Unknown phones yield
		// an empty record (all fields absent), never an error.
		GetRecord(ctx context.Context, phone string) (core.FinancialRecord, error)
		// PutRecord stores or replaces a record.
		PutRecord(ctx context.Context, phone string, r core.FinancialRecord) error
		// MergeRecord applies the non-nil fields of updates to the stored
		// record and returns the result.
		MergeRecord(ctx context.Context, phone string, updates core.FinancialRecord) (core.FinancialRecord, error)
	}

	// SnapshotWriter appends a record snapshot to an external sheet. Used
	// by the sync worker, not by request handlers.
	SnapshotWriter interface {
		AppendSnapshot(ctx context.Context, phone string, r core.FinancialRecord) (rowRef string, err error)
	}
)
