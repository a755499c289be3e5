package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	internal "github.com/talentbridge/portal/internal"
	"github.com/talentbridge/portal/internal/session"
	"github.com/talentbridge/portal/internal/transport"
	"github.com/talentbridge/portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		service:     service,
	}
}

// FetchView loads the requested report for the selected company.
func (h *Handler) FetchView(w http.ResponseWriter, r *http.Request) {
	kind, ok := ParseViewKind(chi.URLParam(r, "view"))
	if !ok {
		h.WriteAppError(w, internal.NewValidationError("Unknown report view", internal.ErrCodeViewUnknown))
		return
	}

	sess := session.FromContext(r.Context())
	email := sess.Identity().Email()
	companyID := r.URL.Query().Get("companyId")
	companyName := r.URL.Query().Get("companyName")
	if companyID == "" {
		// Fall back to the last verified company, like the auto-resume path.
		companyID = sess.Store().LastCompany(r.Context(), email)
	}

	// Corporate auth alone is not enough; the scope must hold a
	// verification record for this company or a global one.
	if !sess.Store().IsGloballyVerified(r.Context(), email) &&
		!sess.Store().IsVerified(r.Context(), email, companyID) {
		h.WriteAppError(w, internal.ErrAccessNotVerified)
		return
	}

	view, err := h.service.FetchView(r.Context(), sess.Scope(), kind, companyID, companyName)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// CurrentView returns the last fetched rows without a new upstream call.
func (h *Handler) CurrentView(w http.ResponseWriter, r *http.Request) {
	view, ok := h.service.CurrentView(internal.ScopeFromContext(r.Context()))
	if !ok {
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{"view": nil})
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"view": view})
}
