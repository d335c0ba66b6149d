package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finpal/internal/core"
)

// pageHandler renders one embedded template with no data.
func (s *Server) pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.templates == nil {
			http.Error(w, "templates unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.templates.ExecuteTemplate(w, name, nil); err != nil {
			slog.ErrorContext(r.Context(), "Failed to render page", "template", name, "error", err)
			http.Error(w, "failed to render page", http.StatusInternalServerError)
		}
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := ParseBody(r)
	if err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	phone := p.Get("phone")
	password := p.Get("password")
	if phone == "" || password == "" {
		BadRequestError("Missing phone or password").Write(w)
		return
	}

	user, found, err := s.users.GetUser(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "User lookup failed", "phone", phone, "error", err)
		InternalServerError("Login failed").Write(w)
		return
	}
	// Plaintext comparison; credential hardening is out of scope.
	if !found || user.Password != password {
		UnauthorizedError("Invalid credentials").Write(w)
		return
	}

	// Finance record may not exist yet; an empty record is fine.
	finance, err := s.finance.GetRecord(ctx, phone)
	if err != nil {
		slog.WarnContext(ctx, "Finance lookup failed on login", "phone", phone, "error", err)
	}

	NewJSONResponse().Payload(map[string]any{
		"success": true,
		"user":    map[string]any{"phone": user.Phone, "name": user.Name},
		"finance": finance,
	}).Write(w)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := ParseBody(r)
	if err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	name := p.Get("name")
	phone := p.Get("phone")
	password := p.Get("password")
	if name == "" || phone == "" || password == "" {
		BadRequestError("Missing name/phone/password").Write(w)
		return
	}

	_, exists, err := s.users.GetUser(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "User lookup failed", "phone", phone, "error", err)
		InternalServerError("Registration failed").Write(w)
		return
	}
	if exists {
		ConflictError("Phone already registered").Write(w)
		return
	}

	user := core.User{
		Phone:    phone,
		Name:     name,
		Password: password,
		Profile:  extraProfileFields(p.Fields()),
	}
	if err := s.users.PutUser(ctx, user); err != nil {
		slog.ErrorContext(ctx, "Failed to store user", "phone", phone, "error", err)
		InternalServerError("Registration failed").Write(w)
		return
	}

	// Seed an explicit all-zero record unless one already exists; zeros are
	// reported values, not absences, so the chatbot answers immediately.
	existing, err := s.finance.GetRecord(ctx, phone)
	if err == nil && existing.IsEmpty() {
		if err := s.finance.PutRecord(ctx, phone, core.ZeroRecord()); err != nil {
			slog.WarnContext(ctx, "Failed to seed finance record", "phone", phone, "error", err)
		}
	}

	NewJSONResponse().Payload(map[string]any{
		"success": true,
		"message": "Registered successfully",
	}).Write(w)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	phone := strings.TrimSpace(r.PathValue("phone"))

	record, err := s.finance.GetRecord(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "Finance lookup failed", "phone", phone, "error", err)
		InternalServerError("Lookup failed").Write(w)
		return
	}

	// Unknown phones serialize to {} rather than a 404; the frontend
	// treats the two cases identically.
	NewJSONResponse().Payload(record).Write(w)
}

func (s *Server) handleUpdateFinance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	phone := strings.TrimSpace(r.PathValue("phone"))

	p, err := ParseBody(r)
	if err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}
	if p.IsEmpty() {
		BadRequestError("No data provided").Write(w)
		return
	}

	var updates core.FinancialRecord
	if err := json.Unmarshal(p.Raw(), &updates); err != nil {
		BadRequestError("Invalid finance payload").Write(w)
		return
	}

	merged, err := s.finance.MergeRecord(ctx, phone, updates)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to update finance record", "phone", phone, "error", err)
		InternalServerError("Update failed").Write(w)
		return
	}

	NewJSONResponse().Payload(map[string]any{
		"success": true,
		"finance": merged,
	}).Write(w)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := ParseBody(r)
	if err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	phone := p.Get("phone")
	message := p.Get("message")

	// The responder maps every input, including empty ones, to a reply.
	reply := s.chat.Respond(ctx, phone, message)

	NewJSONResponse().Payload(map[string]any{"reply": reply}).Write(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	NewJSONResponse().Payload(map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready when the finance store answers a lookup.
	if _, err := s.finance.GetRecord(r.Context(), "0"); err != nil {
		ErrorResponse(http.StatusServiceUnavailable, "store unavailable").Write(w)
		return
	}
	NewJSONResponse().Payload(map[string]any{"status": "ready"}).Write(w)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.tracer.GetMetrics()
	NewJSONResponse().Payload(map[string]any{
		"total_requests":           m.TotalRequests,
		"average_response_time_us": m.AverageResponseTime,
	}).Write(w)
}

// extraProfileFields keeps any registration fields beyond the core trio,
// matching the original behavior of storing the whole payload.
func extraProfileFields(fields map[string]any) map[string]string {
	var profile map[string]string
	for k, v := range fields {
		switch k {
		case "name", "phone", "password":
			continue
		}
		s := strings.TrimSpace(stringValue(v))
		if s == "" {
			continue
		}
		if profile == nil {
			profile = make(map[string]string)
		}
		profile[k] = s
	}
	return profile
}
