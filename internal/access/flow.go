package access

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	internal "github.com/talentbridge/portal/internal"
	"github.com/talentbridge/portal/internal/core/common/validation"
	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
	"github.com/talentbridge/portal/internal/core/events"
	"github.com/talentbridge/portal/internal/reports"
	"github.com/talentbridge/portal/internal/session"
)

// StateName is the position of one scope's unlock flow.
type StateName string

const (
	StateUnverified       StateName = "unverified"
	StateCompanySelected  StateName = "company_selected"
	StateOTPRequested     StateName = "otp_requested"
	StateVerified         StateName = "verified"
	StateGloballyVerified StateName = "globally_verified"
)

// ModalCloseDelay keeps the success message visible before the selection
// modal closes.
const ModalCloseDelay = 400 * time.Millisecond

const (
	msgOTPSent  = "Submit OTP to see demo data"
	msgVerified = "Verified! You can access the data now."
)

type OTPAPI interface {
	Companies(ctx context.Context) ([]recruitmentDatamodel.Company, error)
	SendAccessOTP(ctx context.Context, req recruitmentDatamodel.SendOTPRequest) error
	VerifyAccessOTP(ctx context.Context, req recruitmentDatamodel.VerifyOTPRequest) (*recruitmentDatamodel.VerifyOTPResponse, error)
}

// Flow drives the OTP unlock for one scope. A failure on send or verify
// leaves the state where it was; the user just retries.
type Flow struct {
	mu          sync.Mutex
	scope       string
	email       string
	state       StateName
	companyID   string
	companyName string
	message     string
	companies   []recruitmentDatamodel.Company

	api      OTPAPI
	store    *session.Store
	reports  *reports.Service
	limiter  *rate.Limiter
	eventBus *events.EventBus
	logger   *slog.Logger
}

func newFlow(scope, email string, api OTPAPI, store *session.Store, reportsService *reports.Service, sendPerMinute int, eventBus *events.EventBus, logger *slog.Logger) *Flow {
	if sendPerMinute <= 0 {
		sendPerMinute = 3
	}
	return &Flow{
		scope:    scope,
		email:    email,
		state:    StateUnverified,
		api:      api,
		store:    store,
		reports:  reportsService,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(sendPerMinute)), sendPerMinute),
		eventBus: eventBus,
		logger:   logger,
	}
}

// HydrateVerification replays stored verification records: a global record
// short-circuits straight to GloballyVerified and the last selected company
// pre-fills the selector.
func (f *Flow) HydrateVerification(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.email == "" {
		return
	}
	if last := f.store.LastCompany(ctx, f.email); last != "" {
		f.companyID = last
	}
	if f.store.IsGloballyVerified(ctx, f.email) {
		f.state = StateGloballyVerified
		return
	}
	if f.companyID != "" && f.store.IsVerified(ctx, f.email, f.companyID) {
		f.state = StateVerified
	}
}

// LoadCompanies fetches the selector list. It is held in memory only and
// refetched per visit.
func (f *Flow) LoadCompanies(ctx context.Context) ([]recruitmentDatamodel.Company, error) {
	companies, err := f.api.Companies(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.companies = companies
	f.mu.Unlock()
	return companies, nil
}

// SelectCompany records the chosen company. Verified states survive the
// change of selection; only an unverified flow moves to CompanySelected.
func (f *Flow) SelectCompany(companyID, companyName string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.companyID = companyID
	f.companyName = companyName
	if f.state == StateUnverified || f.state == StateOTPRequested {
		f.state = StateCompanySelected
	}
}

// SendOTP asks the upstream to mail a code for (email, company). Duplicate
// sends are allowed; the limiter only caps the rate per scope.
func (f *Flow) SendOTP(ctx context.Context) error {
	f.mu.Lock()
	email, companyID := f.email, f.companyID
	f.mu.Unlock()

	if email == "" {
		return internal.ErrEmailMissing
	}
	if companyID == "" {
		return internal.ErrCompanyRequired
	}
	if !f.limiter.Allow() {
		return internal.ErrRateLimited
	}

	err := f.api.SendAccessOTP(ctx, recruitmentDatamodel.SendOTPRequest{
		Email:     email,
		CompanyID: companyID,
	})
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.state = StateOTPRequested
	f.message = msgOTPSent
	f.mu.Unlock()

	f.logger.Info("access OTP sent", "scope", f.scope, "company_id", companyID)
	return nil
}

// VerifyResult carries what the UI needs after a successful verification.
type VerifyResult struct {
	Message    string
	CloseDelay time.Duration
	View       *reports.View
}

// VerifyOTP submits the code. On acceptance the per-company record, the
// global record and the last-company pointer are all written together, the
// requested view is fetched, and the modal closes after a short delay. A
// rejected code changes nothing.
func (f *Flow) VerifyOTP(ctx context.Context, otp string, kind reports.ViewKind) (*VerifyResult, error) {
	f.mu.Lock()
	email, companyID, companyName := f.email, f.companyID, f.companyName
	f.mu.Unlock()

	if email == "" {
		return nil, internal.ErrEmailMissing
	}
	if companyID == "" {
		return nil, internal.ErrCompanyRequired
	}
	if err := validation.ValidateOTP(otp); err != nil {
		return nil, err
	}

	resp, err := f.api.VerifyAccessOTP(ctx, recruitmentDatamodel.VerifyOTPRequest{
		Email:     email,
		CompanyID: companyID,
		OTP:       otp,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, internal.NewUpstreamError(resp.Message, http.StatusOK)
	}

	if err := f.store.MarkVerified(ctx, email, companyID); err != nil {
		f.logger.Error("failed to persist verification records", "scope", f.scope, "error", err)
	}

	f.mu.Lock()
	f.state = StateVerified
	f.message = msgVerified
	f.mu.Unlock()

	if f.eventBus != nil {
		f.eventBus.Publish(ctx, events.NewAccessVerifiedEvent(f.scope, email, companyID))
	}

	view, err := f.reports.FetchView(ctx, f.scope, kind, companyID, companyName)
	if err != nil {
		// Verification stands; only the table fetch failed.
		f.logger.Warn("post-verification fetch failed", "scope", f.scope, "error", err)
		return &VerifyResult{Message: msgVerified, CloseDelay: ModalCloseDelay}, nil
	}
	return &VerifyResult{Message: msgVerified, CloseDelay: ModalCloseDelay, View: view}, nil
}

// ProceedAction tells the UI what a report-type click should do next.
type ProceedAction string

const (
	ProceedFetch    ProceedAction = "fetch"
	ProceedSelect   ProceedAction = "select_company"
	ProceedUnverify ProceedAction = "select_and_verify"
)

// ProceedResult is either fetched data or an instruction to open the modal,
// with or without the OTP controls.
type ProceedResult struct {
	Action ProceedAction
	View   *reports.View
}

// Proceed applies the unlock shortcut: verified users with a known company
// go straight to data, verified users without one only pick a company, and
// everyone else does the full OTP round trip.
func (f *Flow) Proceed(ctx context.Context, kind reports.ViewKind) (*ProceedResult, error) {
	f.mu.Lock()
	email, companyID, companyName := f.email, f.companyID, f.companyName
	state := f.state
	f.mu.Unlock()

	verified := state == StateVerified || state == StateGloballyVerified
	if !verified && email != "" {
		verified = f.store.IsGloballyVerified(ctx, email)
	}

	if verified {
		if companyID == "" && email != "" {
			companyID = f.store.LastCompany(ctx, email)
		}
		if companyID != "" {
			view, err := f.reports.FetchView(ctx, f.scope, kind, companyID, companyName)
			if err != nil {
				return nil, err
			}
			return &ProceedResult{Action: ProceedFetch, View: view}, nil
		}
		return &ProceedResult{Action: ProceedSelect}, nil
	}

	return &ProceedResult{Action: ProceedUnverify}, nil
}

// Snapshot is the flow state the unlock UI renders from.
type Snapshot struct {
	State     StateName                      `json:"state"`
	CompanyID string                         `json:"companyId,omitempty"`
	Message   string                         `json:"message,omitempty"`
	Companies []recruitmentDatamodel.Company `json:"companies,omitempty"`
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		State:     f.state,
		CompanyID: f.companyID,
		Message:   f.message,
		Companies: f.companies,
	}
}
