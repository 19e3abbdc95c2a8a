package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/casadulce/api/internal/database"
)

// ClientStore defines the database methods needed by client handlers.
type ClientStore interface {
	ListClients(ctx context.Context) ([]database.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (database.Client, error)
	CreateClient(ctx context.Context, arg database.CreateClientParams) (database.Client, error)
	UpdateClient(ctx context.Context, arg database.UpdateClientParams) (database.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

// ClientHandler handles client CRUD endpoints.
type ClientHandler struct {
	store ClientStore
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(store ClientStore) *ClientHandler {
	return &ClientHandler{store: store}
}

// RegisterRoutes registers client CRUD endpoints on the given Chi router.
// Mounted at /api/clients.
func (h *ClientHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type clientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type clientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toClientResponse(c database.Client) clientResponse {
	resp := clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
	if c.Phone.Valid {
		resp.Phone = &c.Phone.String
	}
	if c.Email.Valid {
		resp.Email = &c.Email.String
	}
	return resp
}

func (r clientRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	return ""
}

func (r clientRequest) params() (pgtype.Text, pgtype.Text) {
	var phone, email pgtype.Text
	if r.Phone != "" {
		phone = pgtype.Text{String: r.Phone, Valid: true}
	}
	if r.Email != "" {
		email = pgtype.Text{String: r.Email, Valid: true}
	}
	return phone, email
}

// --- Handlers ---

// List returns all clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.store.ListClients(r.Context())
	if err != nil {
		log.Printf("ERROR: list clients: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]clientResponse, len(clients))
	for i, c := range clients {
		resp[i] = toClientResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single client by ID.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	client, err := h.store.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		log.Printf("ERROR: get client: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(client))
}

// Create adds a new client.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	phone, email := req.params()
	client, err := h.store.CreateClient(r.Context(), database.CreateClientParams{
		Name:  req.Name,
		Phone: phone,
		Email: email,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeError(w, http.StatusConflict, "client with this email already exists")
			return
		}
		log.Printf("ERROR: create client: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, toClientResponse(client))
}

// Update modifies an existing client.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	phone, email := req.params()
	client, err := h.store.UpdateClient(r.Context(), database.UpdateClientParams{
		ID:    id,
		Name:  req.Name,
		Phone: phone,
		Email: email,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeError(w, http.StatusConflict, "client with this email already exists")
			return
		}
		log.Printf("ERROR: update client: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(client))
}

// Delete removes a client. The orders foreign key restricts the delete, so
// a client with orders comes back as a 409 instead of disappearing.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	if err := h.store.DeleteClient(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			writeError(w, http.StatusConflict, "client has existing orders")
			return
		}
		log.Printf("ERROR: delete client: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
