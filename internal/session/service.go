package session

import (
	"context"
	"errors"
	"sync"

	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
	"github.com/talentbridge/portal/internal/core/events"
	"github.com/talentbridge/portal/internal/storage"
)

// ErrMissingToken rejects a corporate login that carries no token at all.
var ErrMissingToken = errors.New("corporate login requires a token")

// Service holds the in-memory session state of one scope. It starts in the
// hydrating state and stays there until Hydrate has run, whatever the
// outcome.
type Service struct {
	mu        sync.RWMutex
	store     *Store
	eventBus  *events.EventBus
	hydrating bool
	token     string
	role      Role
	identity  Identity
}

func NewService(store *Store, eventBus *events.EventBus) *Service {
	return &Service{
		store:     store,
		eventBus:  eventBus,
		hydrating: true,
	}
}

func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) Scope() string {
	return s.store.Scope()
}

// Hydrate restores state from the storage tiers. The hydrating flag is
// cleared unconditionally; a failed restore just leaves the session
// unauthenticated.
func (s *Service) Hydrate(ctx context.Context) {
	snap := s.store.Hydrate(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = snap.Token
	s.role = snap.Role
	s.identity = snap.Identity
	s.hydrating = false
}

// Login establishes an internal staff session.
func (s *Service) Login(ctx context.Context, token string, role Role, user InternalIdentity, remember bool) error {
	clean, err := s.store.WriteInternal(ctx, token, role, user, remember)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.role = role
	s.identity = Identity{Internal: &clean}
	s.hydrating = false
	s.mu.Unlock()

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewInternalLoginEvent(s.Scope(), clean.Email, string(role)))
	}
	return nil
}

// CorporateLoginBundle is the response-shaped form of a corporate login,
// the token and account travelling together.
type CorporateLoginBundle struct {
	Token   string
	Account *recruitmentDatamodel.CorporateAccount
}

// LoginCorporate establishes a corporate session from a separate token and
// account.
func (s *Service) LoginCorporate(ctx context.Context, token string, account *recruitmentDatamodel.CorporateAccount, remember bool) error {
	return s.loginCorporate(ctx, CorporateLoginBundle{Token: token, Account: account}, remember)
}

// LoginCorporateBundle establishes a corporate session from a bundle. It is
// equivalent to LoginCorporate with the bundle's fields.
func (s *Service) LoginCorporateBundle(ctx context.Context, bundle CorporateLoginBundle, remember bool) error {
	return s.loginCorporate(ctx, bundle, remember)
}

func (s *Service) loginCorporate(ctx context.Context, bundle CorporateLoginBundle, remember bool) error {
	if bundle.Token == "" {
		return ErrMissingToken
	}

	var clean CorporateIdentity
	if bundle.Account != nil {
		var err error
		clean, err = s.store.WriteCorporate(ctx, bundle.Token, *bundle.Account, remember)
		if err != nil {
			return err
		}
	} else {
		// Token without an account still logs the employer in.
		tier := s.store.tierFor(remember)
		if err := tier.Set(ctx, s.store.scope, storage.KeyCorpToken, bundle.Token); err != nil {
			return err
		}
		clean = minimalCorporateIdentity()
	}

	s.mu.Lock()
	s.token = bundle.Token
	s.role = RoleCorporate
	s.identity = Identity{Corporate: &clean}
	s.hydrating = false
	s.mu.Unlock()

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewCorporateLoginEvent(s.Scope(), clean.Email, clean.CompanyName))
	}
	return nil
}

// Logout clears both tiers for the scope and resets in-memory state. The
// access-verification records live in the scope, so they go too.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	email := s.identity.Email()
	s.token = ""
	s.role = ""
	s.identity = Identity{}
	s.mu.Unlock()

	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewLogoutEvent(s.Scope(), email))
	}
	return nil
}

func (s *Service) Hydrating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrating
}

func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && !s.identity.IsZero()
}

func (s *Service) IsCorporate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Corporate != nil
}

func (s *Service) IsInternal() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Internal != nil
}

func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Service) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Service) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}
