package access

import (
	"context"
	"log/slog"
	"sync"

	"github.com/talentbridge/portal/internal/core/events"
	"github.com/talentbridge/portal/internal/reports"
	"github.com/talentbridge/portal/internal/session"
)

// Registry keeps one unlock flow per scope, created lazily on first use and
// dropped on logout.
type Registry struct {
	mu    sync.Mutex
	flows map[string]*Flow

	api           OTPAPI
	reports       *reports.Service
	sendPerMinute int
	eventBus      *events.EventBus
	logger        *slog.Logger
}

func NewRegistry(api OTPAPI, reportsService *reports.Service, sendPerMinute int, eventBus *events.EventBus, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		flows:         make(map[string]*Flow),
		api:           api,
		reports:       reportsService,
		sendPerMinute: sendPerMinute,
		eventBus:      eventBus,
		logger:        logger,
	}
}

// FlowFor returns the scope's flow, creating and hydrating one on first
// use. The email is refreshed on every call so a re-login under the same
// scope picks up the new identity.
func (r *Registry) FlowFor(ctx context.Context, svc *session.Service) *Flow {
	scope := svc.Scope()
	email := svc.Identity().Email()

	r.mu.Lock()
	flow, ok := r.flows[scope]
	if ok && flow.email == email {
		r.mu.Unlock()
		return flow
	}

	flow = newFlow(scope, email, r.api, svc.Store(), r.reports, r.sendPerMinute, r.eventBus, r.logger)
	r.flows[scope] = flow
	r.mu.Unlock()

	flow.HydrateVerification(ctx)
	return flow
}

// Drop forgets a scope's flow and its cached report view, used on logout.
func (r *Registry) Drop(scope string) {
	r.mu.Lock()
	delete(r.flows, scope)
	r.mu.Unlock()
	r.reports.DropScope(scope)
}
