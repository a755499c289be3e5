package account

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/talentbridge/portal/internal/access"
	"github.com/talentbridge/portal/internal/session"
	"github.com/talentbridge/portal/internal/transport"
	"github.com/talentbridge/portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
	manager *session.Manager
	flows   *access.Registry
}

func NewHandler(service *Service, manager *session.Manager, flows *access.Registry) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		service:     service,
		manager:     manager,
		flows:       flows,
	}
}

type loginResponse struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	RedirectTo  string `json:"redirectTo"`
}

// LoginCorporate authenticates an employer. An already corporate session
// short-circuits without another upstream round trip.
func (h *Handler) LoginCorporate(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if sess.IsCorporate() {
		identity := sess.Identity()
		h.WriteJSON(w, http.StatusOK, loginResponse{
			Name:        identity.Name(),
			Email:       identity.Email(),
			CompanyName: identity.Corporate.CompanyName,
			RedirectTo:  "/client/dashboard",
		})
		return
	}

	var dto CorporateLoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity, err := h.service.LoginCorporate(r.Context(), sess, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	if err := h.manager.IssueCookie(w, sess.Scope(), dto.Remember); err != nil {
		h.Logger.Error("failed to refresh session cookie", "error", err)
	}

	resp := loginResponse{
		Name:       identity.Name(),
		Email:      identity.Email(),
		RedirectTo: "/client/dashboard",
	}
	if identity.Corporate != nil {
		resp.CompanyName = identity.Corporate.CompanyName
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Signup(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) VerifySignup(w http.ResponseWriter, r *http.Request) {
	var dto VerifySignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.VerifySignup(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Logout clears the whole scope: both storage tiers, the unlock flow, the
// cached report view and the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if err := sess.Logout(r.Context()); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.flows.Drop(sess.Scope())
	h.manager.ExpireCookie(w)

	w.WriteHeader(http.StatusNoContent)
}

// Session reports the hydrated session for the UI shell.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	identity := sess.Identity()

	resp := map[string]interface{}{
		"hydrating":     sess.Hydrating(),
		"authenticated": sess.IsAuthenticated(),
		"corporate":     sess.IsCorporate(),
		"role":          sess.Role(),
	}
	if !identity.IsZero() {
		resp["name"] = identity.Name()
		resp["email"] = identity.Email()
	}
	h.WriteJSON(w, http.StatusOK, resp)
}
