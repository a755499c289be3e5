package access

import (
	"encoding/json"
	"log/slog"
	"net/http"

	internal "github.com/talentbridge/portal/internal"
	"github.com/talentbridge/portal/internal/reports"
	"github.com/talentbridge/portal/internal/session"
	"github.com/talentbridge/portal/internal/transport"
	"github.com/talentbridge/portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	flows *Registry
}

func NewHandler(flows *Registry) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		flows:       flows,
	}
}

func (h *Handler) flow(r *http.Request) *Flow {
	return h.flows.FlowFor(r.Context(), session.FromContext(r.Context()))
}

// State returns the unlock flow snapshot the page renders from.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.flow(r).Snapshot())
}

// Companies fetches the selector list for the modal.
func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.flow(r).LoadCompanies(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": companies})
}

type selectCompanyDTO struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
}

func (h *Handler) SelectCompany(w http.ResponseWriter, r *http.Request) {
	var dto selectCompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.CompanyID == "" {
		h.WriteAppError(w, internal.ErrCompanyRequired)
		return
	}

	flow := h.flow(r)
	flow.SelectCompany(dto.CompanyID, dto.CompanyName)
	h.WriteJSON(w, http.StatusOK, flow.Snapshot())
}

func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.SendOTP(r.Context()); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, flow.Snapshot())
}

type verifyOTPDTO struct {
	OTP  string `json:"otp"`
	View string `json:"view"`
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var dto verifyOTPDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// View is optional here and defaults to the demo table, but a named
	// view must be a known one.
	kind := reports.ViewDemo
	if dto.View != "" {
		var ok bool
		if kind, ok = reports.ParseViewKind(dto.View); !ok {
			h.WriteAppError(w, internal.NewValidationError("Unknown report view", internal.ErrCodeViewUnknown))
			return
		}
	}

	result, err := h.flow(r).VerifyOTP(r.Context(), dto.OTP, kind)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":      result.Message,
		"closeAfterMs": result.CloseDelay.Milliseconds(),
		"view":         result.View,
	})
}

type proceedDTO struct {
	View string `json:"view"`
}

func (h *Handler) Proceed(w http.ResponseWriter, r *http.Request) {
	var dto proceedDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, ok := reports.ParseViewKind(dto.View)
	if !ok {
		h.WriteAppError(w, internal.NewValidationError("Unknown report view", internal.ErrCodeViewUnknown))
		return
	}

	result, err := h.flow(r).Proceed(r.Context(), kind)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"action": result.Action,
		"view":   result.View,
	})
}
