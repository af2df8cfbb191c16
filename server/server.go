// Package server is the local document viewer: it serves retrieved bundles as JSON and
// their binary payloads from the blob registry.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/jrsteele09/go-efact-client/documents"
	apperrors "github.com/jrsteele09/go-efact-client/internal/errors"
	"github.com/jrsteele09/go-efact-client/navigation"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

// SessionGuard decides whether a route may be shown, returning an error wrapping
// ErrNotAuthenticated when it may not. sessions.Manager implements it.
type SessionGuard interface {
	RequireAuthenticated(route string) error
}

type Server struct {
	env       string
	mux       *http.ServeMux
	routes    []string
	retriever *documents.Retriever
	guard     SessionGuard

	bundles     map[string]*documents.Bundle
	bundlesLock sync.Mutex
}

func New(env string, retriever *documents.Retriever, guard SessionGuard) *Server {
	s := &Server{
		env:       env,
		mux:       http.NewServeMux(),
		retriever: retriever,
		guard:     guard,
		bundles:   make(map[string]*documents.Bundle),
	}
	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.RegisterRouteFunc(pattern, handler.ServeHTTP)
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, s.standardMiddleware()...))
}

func (s *Server) initRoutes() {
	s.RegisterRouteFunc(RouteHealth, s.handleHealth)
	s.RegisterRouteHandler(RouteBlob, s.retriever.Registry())
	s.RegisterRouteFunc(RouteDocuments, s.handleDocuments)
	s.RegisterRouteFunc(RouteDownload, s.handleDownload)
}

// Close releases every bundle the viewer still holds.
func (s *Server) Close() {
	s.bundlesLock.Lock()
	defer s.bundlesLock.Unlock()
	for ticket, bundle := range s.bundles {
		bundle.Release(s.retriever.Registry())
		delete(s.bundles, ticket)
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%s] %s", colouredMethod(method), path)
}

func logRequest(method, path string, status int) {
	log.Info().Msgf("[%s] %s %s%d%s", colouredMethod(method), path, statusColor(status), status, ResetColor)
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

type documentsView struct {
	Ticket    string           `json:"ticket"`
	PDFURL    string           `json:"pdfUrl,omitempty"`
	XML       *string          `json:"xml,omitempty"`
	CDR       *string          `json:"cdr,omitempty"`
	Available []documents.Kind `json:"available"`
}

func newDocumentsView(bundle *documents.Bundle) documentsView {
	view := documentsView{
		Ticket:    bundle.Ticket,
		XML:       bundle.XML,
		CDR:       bundle.CDR,
		Available: bundle.Available(),
	}
	if bundle.PDF != nil {
		view.PDFURL = BlobPath(bundle.PDF.ID())
	}
	return view
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDocuments loads a fresh bundle for the ticket, replacing and releasing any
// previous one.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	ticket := r.PathValue("ticket")
	if err := s.guard.RequireAuthenticated(navigation.DocumentsRoute(ticket)); err != nil {
		writeDocumentsError(w, err)
		return
	}

	bundle, err := s.retriever.Load(r.Context(), ticket)
	if err != nil {
		writeDocumentsError(w, err)
		return
	}
	s.replaceBundle(bundle)
	writeJSON(w, http.StatusOK, newDocumentsView(bundle))
}

// handleDownload saves every document of the ticket's current bundle into the download
// directory, loading the bundle first when the viewer has none.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ticket := r.PathValue("ticket")
	if err := s.guard.RequireAuthenticated(navigation.DocumentsRoute(ticket)); err != nil {
		writeDocumentsError(w, err)
		return
	}

	bundle := s.currentBundle(ticket)
	if bundle == nil {
		loaded, err := s.retriever.Load(r.Context(), ticket)
		if err != nil {
			writeDocumentsError(w, err)
			return
		}
		s.replaceBundle(loaded)
		bundle = loaded
	}

	paths, err := bundle.Save(s.retriever)
	if err != nil {
		writeDocumentsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"saved": paths})
}

func (s *Server) currentBundle(ticket string) *documents.Bundle {
	s.bundlesLock.Lock()
	defer s.bundlesLock.Unlock()
	return s.bundles[ticket]
}

func (s *Server) replaceBundle(bundle *documents.Bundle) {
	s.bundlesLock.Lock()
	defer s.bundlesLock.Unlock()
	if previous, ok := s.bundles[bundle.Ticket]; ok {
		previous.Release(s.retriever.Registry())
	}
	s.bundles[bundle.Ticket] = bundle
}

func writeDocumentsError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotAuthenticated):
		writeJSONError(w, "unauthorized", "sign in required", http.StatusUnauthorized)
	case apperrors.Is(err, apperrors.ErrEmptyTicket):
		writeJSONError(w, "invalid_request", "a valid ticket is required", http.StatusBadRequest)
	case apperrors.Is(err, apperrors.ErrNoDocuments):
		writeJSONError(w, "not_found", "no documents found for this ticket", http.StatusNotFound)
	case apperrors.Is(err, apperrors.ErrDownloadDisabled):
		writeJSONError(w, "download_disabled", err.Error(), http.StatusConflict)
	default:
		log.Error().Err(err).Msg("[Server] documents request failed")
		writeJSONError(w, "server_error", "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes an error payload in the same shape the document API uses
func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
