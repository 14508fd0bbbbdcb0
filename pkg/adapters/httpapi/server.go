// Package httpapi exposes a bot over HTTP: one endpoint to post turns,
// admin endpoints for sessions and dialogs, health and Prometheus metrics.
// Requests are validated against the embedded OpenAPI document before they
// reach a handler.
package httpapi

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/wicker"
	"github.com/aretw0/wicker/internal/logging"
	"github.com/aretw0/wicker/pkg/domain"
)

//go:embed openapi.yaml
var specYAML []byte

// TurnRequest is the body of POST /api/messages.
type TurnRequest struct {
	ConversationID string          `json:"conversation_id"`
	Text           string          `json:"text"`
	Entities       []domain.Entity `json:"entities,omitempty"`
}

// TurnResponse is the reply: the turn's ordered outbound messages.
type TurnResponse struct {
	Messages []domain.Message `json:"messages"`
}

// Server handles the HTTP surface for one bot.
type Server struct {
	bot    *wicker.Bot
	logger *slog.Logger
	router routers.Router
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler builds the HTTP handler for the bot. It fails only when the
// embedded OpenAPI document does not parse, which is a build defect.
func NewHandler(bot *wicker.Bot, opts ...Option) (http.Handler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	specRouter, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}

	s := &Server{
		bot:    bot,
		logger: logging.NewNop(),
		router: specRouter,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/openapi.yaml", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(specYAML)
	})
	r.Get("/swagger", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(s.validateRequest)
		api.Post("/messages", s.postMessage)
		api.Get("/sessions", s.listSessions)
		api.Delete("/sessions/{id}", s.deleteSession)
		api.Get("/dialogs", s.listDialogs)
	})

	return enableCORS(r), nil
}

// validateRequest checks the inbound request against the OpenAPI document.
// The filter restores the request body after reading it, so handlers can
// decode it again.
func (s *Server) validateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		route, pathParams, err := s.router.FindRoute(req)
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
			var reqErr *openapi3filter.RequestError
			if errors.As(err, &reqErr) {
				s.logger.Warn("request failed validation", "path", req.URL.Path, "err", err)
				http.Error(w, reqErr.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Server) postMessage(w http.ResponseWriter, req *http.Request) {
	var body TurnRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("postMessage: invalid request body", "err", err)
		return
	}

	messages, err := s.bot.Converse(req.Context(), body.ConversationID, body.Text, body.Entities...)
	if err != nil {
		http.Error(w, "Turn failed", http.StatusInternalServerError)
		s.logger.Error("turn failed", "conversation_id", body.ConversationID, "err", err)
		return
	}

	writeJSON(w, s.logger, TurnResponse{Messages: messages})
}

func (s *Server) listSessions(w http.ResponseWriter, req *http.Request) {
	ids, err := s.bot.Sessions().List(req.Context())
	if err != nil {
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		s.logger.Error("failed to list sessions", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, map[string][]string{"sessions": ids})
}

func (s *Server) deleteSession(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := s.bot.Sessions().Delete(req.Context(), id); err != nil {
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		s.logger.Error("failed to delete session", "conversation_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listDialogs(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, s.logger, map[string][]string{"dialogs": s.bot.Dialogs()})
}

func (s *Server) getHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "wicker-http",
		"version": wicker.Version,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, req)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Wicker API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
