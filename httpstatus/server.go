// Package httpstatus exposes a minimal, read-only HTTP surface over the
// engine's live state: a health check and per-market order-book
// snapshots. It is explicitly not the
// visualization dashboard (out of scope per spec.md's Non-goals) — no
// authentication, no mutation, no UI, just a couple of JSON endpoints
// useful for operational polling and smoke tests.
package httpstatus

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/orderbook"
)

// SnapshotSource is the subset of SnapshotStore this server depends on.
type SnapshotSource interface {
	Get(marketID exchange.MarketId) (orderbook.Capture, bool)
}

// Server serves read-only status endpoints.
type Server struct {
	router    *mux.Router
	snapshots SnapshotSource
}

// NewServer wires a Server backed by snapshots.
func NewServer(snapshots SnapshotSource) *Server {
	s := &Server{router: mux.NewRouter(), snapshots: snapshots}
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.HandleFunc("/markets/{exchange}/{base}-{quote}/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	marketID := exchange.NewMarketId(vars["exchange"], currency.NewPair(currency.NewCode(vars["base"]), currency.NewCode(vars["quote"])))

	capture, ok := s.snapshots.Get(marketID)
	if !ok {
		http.Error(w, "snapshot not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(capture); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
