package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"estimate-backend/internal/models"
	"estimate-backend/internal/services"

	"github.com/gorilla/mux"
)

type ChangeOrderHandler struct {
	Service *services.ChangeOrderService
}

func NewChangeOrderHandler(s *services.ChangeOrderService) *ChangeOrderHandler {
	return &ChangeOrderHandler{Service: s}
}

// CreateChangeOrder records a requested scope change against a project
func (h *ChangeOrderHandler) CreateChangeOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChangeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	co, err := h.Service.CreateChangeOrder(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(co)
}

// GetChangeOrder retrieves a change order with project details
func (h *ChangeOrderHandler) GetChangeOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid change order ID", http.StatusBadRequest)
		return
	}

	co, err := h.Service.GetChangeOrder(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(co)
}

// ListChangeOrders returns all change orders
func (h *ChangeOrderHandler) ListChangeOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Service.ListChangeOrders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// ListProjectChangeOrders returns change orders for a specific project
func (h *ChangeOrderHandler) ListProjectChangeOrders(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(mux.Vars(r)["project_id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	orders, err := h.Service.ListChangeOrdersByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// ApproveChangeOrder approves a pending change order
func (h *ChangeOrderHandler) ApproveChangeOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid change order ID", http.StatusBadRequest)
		return
	}

	var req models.ApproveChangeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	co, err := h.Service.ApproveChangeOrder(r.Context(), id, req.ApprovedBy)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(co)
}

// UpdateChangeOrderStatus moves a change order through its lifecycle
func (h *ChangeOrderHandler) UpdateChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid change order ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateChangeOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	co, err := h.Service.UpdateChangeOrderStatus(r.Context(), id, &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(co)
}
