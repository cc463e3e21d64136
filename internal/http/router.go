package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"estimate-backend/internal/handlers"
	"estimate-backend/internal/middleware"
)

// NewRouter builds the staff API router (admin mode).
func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clientHandler *handlers.ClientHandler,
	projectHandler *handlers.ProjectHandler,
	quoteHandler *handlers.QuoteHandler,
	invoiceHandler *handlers.InvoiceHandler,
	changeOrderHandler *handlers.ChangeOrderHandler,
	dashboardHandler *handlers.DashboardHandler,
	messageHandler *handlers.MessageHandler,
	documentHandler *handlers.DocumentHandler,
	paymentHandler *handlers.PaymentHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes - authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Gateway webhooks carry their own signature, not a session
	r.HandleFunc("/api/payments/webhook", paymentHandler.HandleWebhook).Methods("POST")

	// Protected API routes - session and 2FA management
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	authAPI.HandleFunc("/totp/setup", authHandler.SetupTOTP).Methods("POST")
	authAPI.HandleFunc("/totp/verify", authHandler.VerifyTOTP).Methods("POST")
	authAPI.HandleFunc("/totp/disable", authHandler.DisableTOTP).Methods("POST")

	// Protected API routes - Staff users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.ListUsers))).Methods("GET")
	usersAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.CreateUser))).Methods("POST")
	usersAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.GetUser))).Methods("GET")
	usersAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.UpdateUser))).Methods("PUT")
	usersAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.DeleteUser))).Methods("DELETE")

	// Protected API routes - Clients
	clientsAPI := r.PathPrefix("/api/clients").Subrouter()
	clientsAPI.Use(authMiddleware.Authenticate)
	clientsAPI.HandleFunc("", clientHandler.ListClients).Methods("GET")
	clientsAPI.HandleFunc("", clientHandler.CreateClient).Methods("POST")
	clientsAPI.HandleFunc("/{id}", clientHandler.GetClient).Methods("GET")
	clientsAPI.HandleFunc("/{id}", clientHandler.UpdateClient).Methods("PUT")
	clientsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(clientHandler.DeleteClient))).Methods("DELETE")
	clientsAPI.HandleFunc("/{client_id}/projects", projectHandler.ListClientProjects).Methods("GET")

	// Protected API routes - Projects
	projectsAPI := r.PathPrefix("/api/projects").Subrouter()
	projectsAPI.Use(authMiddleware.Authenticate)
	projectsAPI.HandleFunc("", projectHandler.ListProjects).Methods("GET")
	projectsAPI.HandleFunc("", projectHandler.CreateProject).Methods("POST")
	projectsAPI.HandleFunc("/{id}", projectHandler.GetProject).Methods("GET")
	projectsAPI.HandleFunc("/{id}", projectHandler.UpdateProject).Methods("PUT")
	projectsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(projectHandler.DeleteProject))).Methods("DELETE")
	projectsAPI.HandleFunc("/{project_id}/quotes", quoteHandler.ListProjectQuotes).Methods("GET")
	projectsAPI.HandleFunc("/{project_id}/invoices", invoiceHandler.ListProjectInvoices).Methods("GET")
	projectsAPI.HandleFunc("/{project_id}/change-orders", changeOrderHandler.ListProjectChangeOrders).Methods("GET")
	projectsAPI.HandleFunc("/{project_id}/messages", messageHandler.ListThread).Methods("GET")
	projectsAPI.HandleFunc("/{project_id}/messages/ws", messageHandler.Subscribe).Methods("GET")
	projectsAPI.HandleFunc("/{project_id}/documents", documentHandler.ListProjectDocuments).Methods("GET")
	projectsAPI.HandleFunc("/{project_id}/documents", documentHandler.Upload).Methods("POST")

	// Protected API routes - Quotes
	quotesAPI := r.PathPrefix("/api/quotes").Subrouter()
	quotesAPI.Use(authMiddleware.Authenticate)
	quotesAPI.HandleFunc("", quoteHandler.ListQuotes).Methods("GET")
	quotesAPI.HandleFunc("", quoteHandler.CreateQuote).Methods("POST")
	quotesAPI.HandleFunc("/{id}", quoteHandler.GetQuote).Methods("GET")
	quotesAPI.HandleFunc("/{id}", quoteHandler.UpdateQuote).Methods("PUT")
	quotesAPI.HandleFunc("/{id}", quoteHandler.DeleteQuote).Methods("DELETE")
	quotesAPI.HandleFunc("/{id}/status", quoteHandler.UpdateQuoteStatus).Methods("PATCH")
	quotesAPI.HandleFunc("/{id}/convert", invoiceHandler.ConvertQuote).Methods("POST")
	quotesAPI.HandleFunc("/{id}/pdf", quoteHandler.DownloadQuotePDF).Methods("GET")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.ListInvoices).Methods("GET")
	invoicesAPI.HandleFunc("", invoiceHandler.CreateInvoice).Methods("POST")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.GetInvoice).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/status", invoiceHandler.UpdateInvoiceStatus).Methods("PATCH")
	invoicesAPI.HandleFunc("/{id}/payments", invoiceHandler.RecordPayment).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/payments", invoiceHandler.ListPayments).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/transactions", paymentHandler.ListInvoiceTransactions).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/pdf", invoiceHandler.DownloadInvoicePDF).Methods("GET")

	// Protected API routes - Change Orders
	changeOrdersAPI := r.PathPrefix("/api/change-orders").Subrouter()
	changeOrdersAPI.Use(authMiddleware.Authenticate)
	changeOrdersAPI.HandleFunc("", changeOrderHandler.ListChangeOrders).Methods("GET")
	changeOrdersAPI.HandleFunc("", changeOrderHandler.CreateChangeOrder).Methods("POST")
	changeOrdersAPI.HandleFunc("/{id}", changeOrderHandler.GetChangeOrder).Methods("GET")
	changeOrdersAPI.HandleFunc("/{id}/approve", changeOrderHandler.ApproveChangeOrder).Methods("POST")
	changeOrdersAPI.HandleFunc("/{id}/status", changeOrderHandler.UpdateChangeOrderStatus).Methods("PATCH")
	changeOrdersAPI.HandleFunc("/{id}/convert", invoiceHandler.ConvertChangeOrder).Methods("POST")

	// Protected API routes - Messages and Dashboard
	messagesAPI := r.PathPrefix("/api/messages").Subrouter()
	messagesAPI.Use(authMiddleware.Authenticate)
	messagesAPI.HandleFunc("", messageHandler.PostMessage).Methods("POST")

	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("", dashboardHandler.GetSummary).Methods("GET")

	// Protected API routes - Documents
	documentsAPI := r.PathPrefix("/api/documents").Subrouter()
	documentsAPI.Use(authMiddleware.Authenticate)
	documentsAPI.HandleFunc("/{id}/download", documentHandler.Download).Methods("GET")
	documentsAPI.HandleFunc("/{id}", documentHandler.Delete).Methods("DELETE")

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// NewClientRouter builds the client portal router (port 8081).
func NewClientRouter(
	portalHandler *handlers.ClientPortalHandler,
	paymentHandler *handlers.PaymentHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API - portal login
	r.HandleFunc("/auth/login", portalHandler.Login).Methods("POST")

	// Protected API routes - client portal (requires client JWT)
	clientAPI := r.PathPrefix("/api").Subrouter()
	clientAPI.Use(authMiddleware.AuthenticateClient)
	clientAPI.HandleFunc("/dashboard", portalHandler.GetDashboard).Methods("GET")
	clientAPI.HandleFunc("/projects/{id}", portalHandler.GetProject).Methods("GET")
	clientAPI.HandleFunc("/projects/{project_id}/messages", portalHandler.ListThread).Methods("GET")
	clientAPI.HandleFunc("/projects/{project_id}/messages/ws", portalHandler.Subscribe).Methods("GET")
	clientAPI.HandleFunc("/projects/{project_id}/documents", portalHandler.ListProjectDocuments).Methods("GET")
	clientAPI.HandleFunc("/messages", portalHandler.PostMessage).Methods("POST")
	clientAPI.HandleFunc("/quotes/{id}", portalHandler.GetQuote).Methods("GET")
	clientAPI.HandleFunc("/quotes/{id}/respond", portalHandler.RespondToQuote).Methods("POST")
	clientAPI.HandleFunc("/invoices/{id}", portalHandler.GetInvoice).Methods("GET")
	clientAPI.HandleFunc("/invoices/{id}/pdf", portalHandler.DownloadInvoicePDF).Methods("GET")
	clientAPI.HandleFunc("/documents/{id}/download", portalHandler.DownloadDocument).Methods("GET")
	clientAPI.HandleFunc("/payments/status", paymentHandler.PaymentStatus).Methods("GET")
	clientAPI.HandleFunc("/payments/order", paymentHandler.CreateOrder).Methods("POST")
	clientAPI.HandleFunc("/payments/verify", paymentHandler.VerifyPayment).Methods("POST")

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
