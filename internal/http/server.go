// Package http exposes the finpal web surface: page delivery, auth and
// registration, finance record CRUD, and the chat query endpoint.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"finpal/internal/chat"
	"finpal/internal/middleware/security"
	"finpal/internal/middleware/trace"
	"finpal/internal/store"
	appweb "finpal/web"
)

type Server struct {
	http.Server

	users   store.UserStore
	finance store.FinanceStore
	chat    *chat.Service

	templates *template.Template
	tracer    *trace.Middleware
}

// NewServer wires routes, middleware and embedded assets. The chat service
// is built by the caller, normally over the same finance store.
func NewServer(addr string, users store.UserStore, finance store.FinanceStore, chatSvc *chat.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		users:   users,
		finance: finance,
		chat:    chatSvc,
		tracer:  trace.NewMiddleware(security.ExtractClientIP),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	// Frontend pages
	mux.HandleFunc("GET /{$}", s.pageHandler("login.html"))
	mux.HandleFunc("GET /register", s.pageHandler("register.html"))
	mux.HandleFunc("GET /chat_page", s.pageHandler("chat.html"))
	mux.HandleFunc("GET /insights", s.pageHandler("insights.html"))
	mux.HandleFunc("GET /portfolio", s.pageHandler("portfolio.html"))

	// API endpoints
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /mcp/{phone}", s.handleGetRecord)
	mux.HandleFunc("POST /update_finance/{phone}", s.handleUpdateFinance)
	mux.HandleFunc("POST /query", s.handleQuery)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(security.Headers(mux)),
	}

	return s
}

// Shutdown delegates to the embedded http.Server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}
