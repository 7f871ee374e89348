package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler exposes authentication HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.With(RequireAuth(h.service)).Post("/logout", h.logout)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"message": ve.Error(),
				"errors":  ve.Errors,
			})
			return
		}
		log.Error().Err(err).Str("component", "register").Msg("")
		respond(w, http.StatusInternalServerError, map[string]string{
			"message": "Error registering user: " + err.Error(),
		})
		return
	}

	respond(w, http.StatusCreated, map[string]interface{}{
		"message": "User successfully registered",
		"data":    session,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		log.Error().Err(err).Str("component", "login").Msg("")
		respond(w, http.StatusInternalServerError, map[string]string{
			"message": "Error logging in: " + err.Error(),
		})
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"data":    session,
	})
}

// logout is stateless: tokens are self-expiring JWTs and the client discards
// its copy. The endpoint exists so clients have a uniform sign-out call.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
