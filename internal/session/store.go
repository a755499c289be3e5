package session

import (
	"context"
	"encoding/json"
	"log/slog"

	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
	"github.com/talentbridge/portal/internal/storage"
)

// Store reads and writes the session of one scope across the two storage
// tiers. Read/parse errors never escape this type; they degrade to "not
// authenticated".
type Store struct {
	scope     string
	durable   storage.Tier
	ephemeral storage.Tier
	sealer    *Sealer
	logger    *slog.Logger
}

func NewStore(scope string, durable, ephemeral storage.Tier, sealer *Sealer, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		scope:     scope,
		durable:   durable,
		ephemeral: ephemeral,
		sealer:    sealer,
		logger:    logger,
	}
}

func (s *Store) Scope() string {
	return s.scope
}

// Snapshot is the hydrated session state.
type Snapshot struct {
	Token    string
	Role     Role
	Identity Identity
}

// tierFor picks the tier a login asked for. Verification records always go
// to the durable tier regardless of the remember choice.
func (s *Store) tierFor(persistDurable bool) storage.Tier {
	if persistDurable {
		return s.durable
	}
	return s.ephemeral
}

// read checks the durable tier first, then the ephemeral one, matching the
// localStorage-then-sessionStorage order of the original portal.
func (s *Store) read(ctx context.Context, key string) (string, bool) {
	for _, tier := range []storage.Tier{s.durable, s.ephemeral} {
		value, ok, err := tier.Get(ctx, s.scope, key)
		if err != nil {
			s.logger.Warn("session record read failed", "key", key, "error", err)
			continue
		}
		if ok {
			return value, true
		}
	}
	return "", false
}

// openPayload unseals a durable identity payload when sealing is on. The
// ephemeral tier stores payloads in the clear, so opening is attempted only
// when the raw value does not already parse as JSON.
func (s *Store) openPayload(raw string) ([]byte, bool) {
	if json.Valid([]byte(raw)) {
		return []byte(raw), true
	}
	if s.sealer == nil {
		return nil, false
	}
	plain, err := s.sealer.Open(raw)
	if err != nil {
		s.logger.Warn("identity payload failed to unseal", "error", err)
		return nil, false
	}
	return plain, true
}

func (s *Store) sealPayload(plain []byte, persistDurable bool) (string, error) {
	if persistDurable && s.sealer != nil {
		return s.sealer.Seal(plain)
	}
	return string(plain), nil
}

// Hydrate reads the persisted session back. The internal identity triple is
// tried first; failing that, the corporate pair. A corporate token with a
// missing or unreadable account still yields a minimal corporate identity.
// No failure here ever clears storage.
func (s *Store) Hydrate(ctx context.Context) Snapshot {
	token, hasToken := s.read(ctx, storage.KeyToken)
	role, hasRole := s.read(ctx, storage.KeyRole)
	userRaw, hasUser := s.read(ctx, storage.KeyUser)

	if hasToken && hasRole && hasUser {
		if payload, ok := s.openPayload(userRaw); ok {
			var user InternalIdentity
			if err := json.Unmarshal(payload, &user); err != nil {
				s.logger.Warn("stored internal identity unparsable, treating as absent", "error", err)
			} else {
				return Snapshot{
					Token:    token,
					Role:     Role(role),
					Identity: Identity{Internal: &user},
				}
			}
		}
	}

	corpToken, hasCorpToken := s.read(ctx, storage.KeyCorpToken)
	if !hasCorpToken || corpToken == "" {
		return Snapshot{}
	}

	corp := minimalCorporateIdentity()
	if accRaw, ok := s.read(ctx, storage.KeyCorpAccount); ok {
		if payload, opened := s.openPayload(accRaw); opened {
			var stored CorporateIdentity
			if err := json.Unmarshal(payload, &stored); err != nil {
				s.logger.Warn("stored corporate account unparsable, hydrating minimal identity", "error", err)
			} else {
				corp = stored
			}
		}
	}

	return Snapshot{
		Token:    corpToken,
		Role:     RoleCorporate,
		Identity: Identity{Corporate: &corp},
	}
}

// WriteInternal normalizes and persists the internal identity triple to the
// selected tier, returning the normalized identity.
func (s *Store) WriteInternal(ctx context.Context, token string, role Role, user InternalIdentity, persistDurable bool) (InternalIdentity, error) {
	clean := normalizeInternal(user)
	payload, err := json.Marshal(clean)
	if err != nil {
		return InternalIdentity{}, err
	}
	value, err := s.sealPayload(payload, persistDurable)
	if err != nil {
		return InternalIdentity{}, err
	}

	tier := s.tierFor(persistDurable)
	if err := tier.Set(ctx, s.scope, storage.KeyToken, token); err != nil {
		return InternalIdentity{}, err
	}
	if err := tier.Set(ctx, s.scope, storage.KeyRole, string(role)); err != nil {
		return InternalIdentity{}, err
	}
	if err := tier.Set(ctx, s.scope, storage.KeyUser, value); err != nil {
		return InternalIdentity{}, err
	}
	return clean, nil
}

// WriteCorporate normalizes and persists the corporate pair to the selected
// tier, returning the normalized identity.
func (s *Store) WriteCorporate(ctx context.Context, token string, account recruitmentDatamodel.CorporateAccount, persistDurable bool) (CorporateIdentity, error) {
	clean := normalizeCorporate(account)
	payload, err := json.Marshal(clean)
	if err != nil {
		return CorporateIdentity{}, err
	}
	value, err := s.sealPayload(payload, persistDurable)
	if err != nil {
		return CorporateIdentity{}, err
	}

	tier := s.tierFor(persistDurable)
	if err := tier.Set(ctx, s.scope, storage.KeyCorpToken, token); err != nil {
		return CorporateIdentity{}, err
	}
	if err := tier.Set(ctx, s.scope, storage.KeyCorpAccount, value); err != nil {
		return CorporateIdentity{}, err
	}
	return clean, nil
}

// ClearAll wipes every key in the scope in both tiers, verification records
// included. Logout is a broad invalidation.
func (s *Store) ClearAll(ctx context.Context) error {
	var firstErr error
	for _, tier := range []storage.Tier{s.durable, s.ephemeral} {
		if err := tier.Clear(ctx, s.scope); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ----------------- verification records -----------------

func (s *Store) flag(ctx context.Context, key string) bool {
	value, ok, err := s.durable.Get(ctx, s.scope, key)
	if err != nil {
		s.logger.Warn("verification record read failed", "key", key, "error", err)
		return false
	}
	return ok && value == storage.VerifiedValue
}

func (s *Store) IsVerified(ctx context.Context, email, companyID string) bool {
	if email == "" || companyID == "" {
		return false
	}
	return s.flag(ctx, storage.VerifiedKey(email, companyID))
}

func (s *Store) IsGloballyVerified(ctx context.Context, email string) bool {
	if email == "" {
		return false
	}
	return s.flag(ctx, storage.GlobalVerifiedKey(email))
}

func (s *Store) LastCompany(ctx context.Context, email string) string {
	if email == "" {
		return ""
	}
	value, ok, err := s.durable.Get(ctx, s.scope, storage.LastCompanyKey(email))
	if err != nil {
		s.logger.Warn("last company read failed", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// MarkVerified records a successful OTP verification: the per-company flag,
// the global flag and the last-selected company are all set together.
func (s *Store) MarkVerified(ctx context.Context, email, companyID string) error {
	if err := s.durable.Set(ctx, s.scope, storage.VerifiedKey(email, companyID), storage.VerifiedValue); err != nil {
		return err
	}
	if err := s.durable.Set(ctx, s.scope, storage.GlobalVerifiedKey(email), storage.VerifiedValue); err != nil {
		return err
	}
	return s.durable.Set(ctx, s.scope, storage.LastCompanyKey(email), companyID)
}

func (s *Store) RememberCompany(ctx context.Context, email, companyID string) error {
	return s.durable.Set(ctx, s.scope, storage.LastCompanyKey(email), companyID)
}
