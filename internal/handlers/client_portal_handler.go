package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"estimate-backend/internal/middleware"
	"estimate-backend/internal/models"
	"estimate-backend/internal/services"
	"estimate-backend/internal/ws"

	"github.com/gorilla/mux"
)

// ClientPortalHandler serves the client-facing portal: a client sees only
// their own projects, quotes, invoices and message threads. Every lookup
// is ownership checked.
type ClientPortalHandler struct {
	ClientService   *services.ClientService
	PortalService   *services.ClientPortalService
	QuoteService    *services.QuoteService
	InvoiceService  *services.InvoiceService
	MessageService  *services.MessageService
	DocumentService *services.DocumentService
	PDFService      *services.PDFService
	Hub             *ws.Hub
}

func NewClientPortalHandler(
	clientService *services.ClientService,
	portalService *services.ClientPortalService,
	quoteService *services.QuoteService,
	invoiceService *services.InvoiceService,
	messageService *services.MessageService,
	documentService *services.DocumentService,
	pdfService *services.PDFService,
	hub *ws.Hub,
) *ClientPortalHandler {
	return &ClientPortalHandler{
		ClientService:   clientService,
		PortalService:   portalService,
		QuoteService:    quoteService,
		InvoiceService:  invoiceService,
		MessageService:  messageService,
		DocumentService: documentService,
		PDFService:      pdfService,
		Hub:             hub,
	}
}

// Login authenticates a portal client and returns a JWT
func (h *ClientPortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.ClientLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.ClientService.Login(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetDashboard returns the client's projects, billing documents and
// headline totals
func (h *ClientPortalHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dashboard, err := h.PortalService.GetDashboard(r.Context(), clientID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dashboard)
}

// GetProject returns one of the client's projects
func (h *ClientPortalHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projectID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.PortalService.GetProject(r.Context(), clientID, projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(project)
}

// GetQuote returns one of the client's quotes
func (h *ClientPortalHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid quote ID", http.StatusBadRequest)
		return
	}

	quote, err := h.QuoteService.GetQuote(r.Context(), id)
	if err != nil || quote.ClientID != clientID {
		http.Error(w, "Quote not found", http.StatusNotFound)
		return
	}
	h.QuoteService.MarkViewedByClient(r.Context(), quote)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote)
}

// RespondToQuote lets the client accept or decline a sent quote
func (h *ClientPortalHandler) RespondToQuote(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid quote ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	quote, err := h.QuoteService.AcceptQuoteByClient(r.Context(), id, clientID, req.Accept)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote)
}

// GetInvoice returns one of the client's invoices
func (h *ClientPortalHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	invoice, err := h.InvoiceService.GetInvoice(r.Context(), id)
	if err != nil || invoice.ClientID != clientID {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}
	h.InvoiceService.MarkViewedByClient(r.Context(), invoice)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

// DownloadInvoicePDF renders one of the client's invoices as a PDF
func (h *ClientPortalHandler) DownloadInvoicePDF(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	invoice, err := h.InvoiceService.GetInvoice(r.Context(), id)
	if err != nil || invoice.ClientID != clientID {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}

	pdf, err := h.PDFService.GenerateInvoicePDF(invoice)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, invoice.InvoiceNumber))
	w.Write(pdf)
}

// PostMessage posts a client message to one of their project threads
func (h *ClientPortalHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	client, err := h.ClientService.GetClient(r.Context(), clientID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.MessageService.PostClientMessage(r.Context(), &req, client)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// ListThread returns the message thread for one of the client's projects
func (h *ClientPortalHandler) ListThread(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projectID, err := strconv.Atoi(mux.Vars(r)["project_id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	if !h.MessageService.ClientOwnsProject(r.Context(), clientID, projectID) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	messages, err := h.MessageService.ListThread(r.Context(), projectID, "client")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// Subscribe opens a websocket feed for one of the client's project threads
func (h *ClientPortalHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projectID, err := strconv.Atoi(mux.Vars(r)["project_id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	if !h.MessageService.ClientOwnsProject(r.Context(), clientID, projectID) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	h.Hub.Subscribe(w, r, projectID)
}

// ListProjectDocuments returns documents for one of the client's projects
func (h *ClientPortalHandler) ListProjectDocuments(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projectID, err := strconv.Atoi(mux.Vars(r)["project_id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	if !h.MessageService.ClientOwnsProject(r.Context(), clientID, projectID) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	docs, err := h.DocumentService.ListByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

// DownloadDocument streams a document from one of the client's projects
func (h *ClientPortalHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid document ID", http.StatusBadRequest)
		return
	}

	doc, data, err := h.DocumentService.Download(r.Context(), id)
	if err != nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}
	if !h.MessageService.ClientOwnsProject(r.Context(), clientID, doc.ProjectID) {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Name))
	w.Write(data)
}
