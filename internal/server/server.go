package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/chemwatch/chemwatch/internal/service"
	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

type Server struct {
	addr      string
	inventory *service.InventoryService
	alerts    *service.AlertService
	hub       *Hub
}

func NewServer(addr string, inventory *service.InventoryService, alerts *service.AlertService, hub *Hub) *Server {
	return &Server{
		addr:      addr,
		inventory: inventory,
		alerts:    alerts,
		hub:       hub,
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/scan", prometheusMiddleware(s.handleScan))
	mux.HandleFunc("POST /api/items/create/{category}", prometheusMiddleware(s.handleCreateItem))
	mux.HandleFunc("GET /api/items", prometheusMiddleware(s.handleListItems))
	mux.HandleFunc("GET /api/items/{category}", prometheusMiddleware(s.handleListItemsByCategory))
	mux.HandleFunc("POST /api/items/increment", prometheusMiddleware(s.handleIncrement))
	mux.HandleFunc("POST /api/items/decrement", prometheusMiddleware(s.handleDecrement))
	mux.HandleFunc("POST /api/items/quantity", prometheusMiddleware(s.handleSetQuantity))
	mux.HandleFunc("POST /api/items/delete", prometheusMiddleware(s.handleDeleteItem))
	mux.HandleFunc("POST /api/alerts/create", prometheusMiddleware(s.handleCreateAlert))
	mux.HandleFunc("GET /api/alerts", prometheusMiddleware(s.handleListAlerts))
	mux.HandleFunc("POST /api/alerts/resolve", prometheusMiddleware(s.handleResolveAlert))
	mux.HandleFunc("GET /api/alerts/ws", s.hub.handleWS)
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logrus.Infof("listening on %s", s.addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func writeJSON(rw http.ResponseWriter, status int, v any) error {
	rw.Header().Add("Content-Type", "application/json")
	rw.WriteHeader(status)
	return json.NewEncoder(rw).Encode(v)
}

func writeError(rw http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch pkgerrors.GetErrorCode(err) {
	case pkgerrors.CodeValidation, pkgerrors.CodeNoScan:
		status = http.StatusBadRequest
	case pkgerrors.CodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(rw, status, map[string]string{"error": err.Error()})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "alloc": %d, "sys": %d, "num_gc": %d}`,
		m.Alloc, m.Sys, m.NumGC)
}
