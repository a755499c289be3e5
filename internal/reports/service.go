package reports

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	internal "github.com/talentbridge/portal/internal"
	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
)

type ProfilesAPI interface {
	TopCTCProfiles(ctx context.Context, companyID, companyName string) (*recruitmentDatamodel.ProfilesResponse, error)
	AllAlphaProfiles(ctx context.Context, companyID, companyName string) (*recruitmentDatamodel.ProfilesResponse, error)
}

// View is the current row set plus the inputs that produced it.
type View struct {
	Kind        ViewKind `json:"kind"`
	CompanyID   string   `json:"companyId"`
	CompanyName string   `json:"companyName,omitempty"`
	Rows        []Row    `json:"rows"`
}

// Service fetches and caches the latest report view per scope. Each fetch
// takes a generation number; a response from an older generation is
// discarded so a slow stale fetch can never overwrite newer rows.
type Service struct {
	api    ProfilesAPI
	logger *slog.Logger

	mu         sync.Mutex
	generation map[string]uint64
	views      map[string]*View
}

func NewService(api ProfilesAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:        api,
		logger:     logger,
		generation: make(map[string]uint64),
		views:      make(map[string]*View),
	}
}

// FetchView loads a view and installs it as the scope's current one, unless
// a newer fetch started in the meantime.
func (s *Service) FetchView(ctx context.Context, scope string, kind ViewKind, companyID, companyName string) (*View, error) {
	if companyID == "" {
		return nil, internal.ErrCompanyRequired
	}

	s.mu.Lock()
	s.generation[scope]++
	gen := s.generation[scope]
	s.mu.Unlock()

	var (
		resp *recruitmentDatamodel.ProfilesResponse
		err  error
	)
	switch kind {
	case ViewDemo:
		resp, err = s.api.TopCTCProfiles(ctx, companyID, companyName)
	case ViewService:
		resp, err = s.api.AllAlphaProfiles(ctx, companyID, companyName)
	default:
		return nil, internal.NewValidationError("Unknown report view", internal.ErrCodeViewUnknown)
	}
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, internal.NewUpstreamError(resp.Message, http.StatusOK)
	}

	view := &View{
		Kind:        kind,
		CompanyID:   companyID,
		CompanyName: companyName,
		Rows:        make([]Row, 0, len(resp.Data)),
	}
	for _, p := range resp.Data {
		view.Rows = append(view.Rows, NewRow(p))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.generation[scope] {
		s.logger.Debug("discarding stale report fetch", "scope", scope, "generation", gen)
		return view, nil
	}
	s.views[scope] = view
	return view, nil
}

// CurrentView returns the last installed view for the scope, if any.
func (s *Service) CurrentView(scope string) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.views[scope]
	return view, ok
}

// DropScope forgets the scope's cached view, used on logout.
func (s *Service) DropScope(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, scope)
	delete(s.generation, scope)
}
