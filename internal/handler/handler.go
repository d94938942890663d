// Package handler implements the HTTP API of siminfod.
//
// The read side mirrors the engine's public accessors: list slots, read
// one slot's identity snapshot. The write side is the observation
// ingestion endpoint used by the external telephony stack.
package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"siminfod/internal/registry"
)

// SlotHandler handles slot API requests
type SlotHandler struct {
	reg *registry.Registry
}

// NewSlotHandler creates a new slot handler
func NewSlotHandler(reg *registry.Registry) *SlotHandler {
	return &SlotHandler{reg: reg}
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ListSlots returns the registered slot paths
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string][]string{"slots": h.reg.Paths()}, http.StatusOK)
}

// GetSlot returns one slot's identity snapshot
func (h *SlotHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	slot := r.PathValue("slot")
	if slot == "" {
		h.writeError(w, "Invalid slot", "Slot path is required", http.StatusBadRequest)
		return
	}

	snap, ok := h.reg.Snapshot(slot)
	if !ok {
		h.writeError(w, "Not found", "Unknown slot "+slot, http.StatusNotFound)
		return
	}

	h.writeJSON(w, snap, http.StatusOK)
}

// PostObservation ingests one telephony observation for a slot
func (h *SlotHandler) PostObservation(w http.ResponseWriter, r *http.Request) {
	slot := r.PathValue("slot")
	if slot == "" {
		h.writeError(w, "Invalid slot", "Slot path is required", http.StatusBadRequest)
		return
	}

	var obs registry.Observation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if _, ok := h.reg.Snapshot(slot); !ok {
		h.writeError(w, "Not found", "Unknown slot "+slot, http.StatusNotFound)
		return
	}

	reqID := uuid.NewString()
	if err := h.reg.Apply(slot, obs); err != nil {
		log.Printf("observation %s rejected for %s: %v", reqID, slot, err)
		h.writeError(w, "Invalid observation", err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("observation %s applied to %s: %s", reqID, slot, obs.Type)

	snap, _ := h.reg.Snapshot(slot)
	h.writeJSON(w, snap, http.StatusOK)
}

func (h *SlotHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *SlotHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
