package server

import (
	"encoding/json"
	"net/http"

	"github.com/chemwatch/chemwatch/internal/domain"
	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

type scanRequest struct {
	Tag      string `json:"tag"`
	Quantity int    `json:"quantity"`
}

type createItemRequest struct {
	Name string `json:"name"`
}

type idRequest struct {
	ID int `json:"id"`
}

type setQuantityRequest struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

type createAlertRequest struct {
	Description string `json:"description"`
	Time        string `json:"time"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	req := scanRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, pkgerrors.NewValidationError("invalid JSON payload"))
		return
	}
	if req.Tag == "" {
		writeError(w, pkgerrors.NewValidationError("tag is required"))
		return
	}

	item, err := s.inventory.ApplyScan(r.Context(), domain.NewScanEvent(req.Tag, req.Quantity))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{"message": "scan recorded"}
	if item != nil {
		resp["matched"] = map[string]any{
			"name":     item.Name,
			"category": item.Category,
			"quantity": item.Quantity,
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	category, ok := domain.ParseCategory(r.PathValue("category"))
	if !ok {
		writeError(w, pkgerrors.NewValidationError("unknown category"))
		return
	}

	req := createItemRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, pkgerrors.NewValidationError("invalid JSON payload"))
		return
	}
	if req.Name == "" {
		writeError(w, pkgerrors.NewValidationError("item name is required"))
		return
	}

	item, err := s.inventory.CreateOrAugment(r.Context(), req.Name, category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleListItemsByCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := domain.ParseCategory(r.PathValue("category"))
	if !ok {
		writeError(w, pkgerrors.NewValidationError("unknown category"))
		return
	}

	items, err := s.inventory.ListByCategory(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeIDRequest(w, r)
	if !ok {
		return
	}
	item, err := s.inventory.Increment(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDecrement(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeIDRequest(w, r)
	if !ok {
		return
	}
	item, err := s.inventory.Decrement(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	req := setQuantityRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, pkgerrors.NewValidationError("invalid JSON payload"))
		return
	}
	if req.ID == 0 {
		writeError(w, pkgerrors.NewValidationError("item id is required"))
		return
	}

	item, err := s.inventory.SetQuantity(r.Context(), req.ID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeIDRequest(w, r)
	if !ok {
		return
	}
	if err := s.inventory.Delete(r.Context(), req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	req := createAlertRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, pkgerrors.NewValidationError("invalid JSON payload"))
		return
	}

	alert, err := s.alerts.Create(r.Context(), req.Description, req.Time)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alerts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeIDRequest(w, r)
	if !ok {
		return
	}
	if err := s.alerts.Resolve(r.Context(), req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "alert resolved"})
}

func decodeIDRequest(w http.ResponseWriter, r *http.Request) (idRequest, bool) {
	req := idRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, pkgerrors.NewValidationError("invalid JSON payload"))
		return req, false
	}
	if req.ID == 0 {
		writeError(w, pkgerrors.NewValidationError("id is required"))
		return req, false
	}
	return req, true
}
