package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"estimate-backend/internal/middleware"
	"estimate-backend/internal/models"
	"estimate-backend/internal/services"
	"estimate-backend/internal/ws"

	"github.com/gorilla/mux"
)

type MessageHandler struct {
	Service     *services.MessageService
	UserService *services.UserService
	Hub         *ws.Hub
}

func NewMessageHandler(s *services.MessageService, userService *services.UserService, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{Service: s, UserService: userService, Hub: hub}
}

// PostMessage posts a staff message to a project thread
func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.Service.PostStaffMessage(r.Context(), &req, user)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// ListThread returns a project's message thread and marks client
// messages as read
func (h *MessageHandler) ListThread(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(mux.Vars(r)["project_id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	messages, err := h.Service.ListThread(r.Context(), projectID, "staff")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// Subscribe upgrades to a websocket that receives new messages for a
// project as they are posted
func (h *MessageHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(mux.Vars(r)["project_id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	h.Hub.Subscribe(w, r, projectID)
}
