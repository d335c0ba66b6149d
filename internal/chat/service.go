package chat

import (
	"context"
	"log/slog"

	"finpal/internal/store"
)

// Service answers queries for a phone identifier by fetching the record
// from the finance store and delegating to the responder.
type Service struct {
	finance   store.FinanceStore
	responder *Responder
}

func NewService(finance store.FinanceStore, responder *Responder) *Service {
	if responder == nil {
		responder = NewResponder()
	}
	return &Service{finance: finance, responder: responder}
}

// Respond never fails for valid string inputs: a store error is folded
// into an empty record so the caller still gets a defined reply.
func (s *Service) Respond(ctx context.Context, phone, message string) string {
	record, err := s.finance.GetRecord(ctx, phone)
	if err != nil {
		slog.WarnContext(ctx, "Finance record lookup failed, answering from empty record",
			"phone", phone, "error", err)
	}
	return s.responder.Reply(record, message)
}
