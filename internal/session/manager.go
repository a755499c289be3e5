package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	internal "github.com/talentbridge/portal/internal"
	"github.com/talentbridge/portal/internal/core/events"
	"github.com/talentbridge/portal/internal/storage"
)

// CookieName carries the signed scope identifier between requests.
const CookieName = "portal_session"

var (
	ErrInvalidScopeToken = errors.New("scope cookie is not a valid token")
	ErrScopeTokenExpired = errors.New("scope cookie has expired")
)

// ScopeClaims is the payload of the scope cookie. Remember is echoed so a
// refreshed cookie keeps the original persistence choice.
type ScopeClaims struct {
	Scope    string `json:"scope"`
	Remember bool   `json:"remember"`
	jwt.RegisteredClaims
}

// Manager mints and resolves session scopes. Every browser gets one scope;
// the two storage tiers are shared across scopes and partitioned by it.
type Manager struct {
	durable    storage.Tier
	ephemeral  storage.Tier
	sealer     *Sealer
	secret     []byte
	sessionTTL time.Duration
	eventBus   *events.EventBus
	logger     *slog.Logger
}

func NewManager(durable, ephemeral storage.Tier, sealer *Sealer, secret string, sessionTTL time.Duration, eventBus *events.EventBus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		durable:    durable,
		ephemeral:  ephemeral,
		sealer:     sealer,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// StoreFor builds the two-tier store of one scope.
func (m *Manager) StoreFor(scope string) *Store {
	return NewStore(scope, m.durable, m.ephemeral, m.sealer, m.logger)
}

// ServiceFor builds an unhydrated session service for a scope.
func (m *Manager) ServiceFor(scope string) *Service {
	return NewService(m.StoreFor(scope), m.eventBus)
}

func (m *Manager) signScope(scope string, remember bool) (string, error) {
	now := time.Now()
	claims := &ScopeClaims{
		Scope:    scope,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   scope,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parseScope(tokenString string) (*ScopeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ScopeClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrScopeTokenExpired
		}
		return nil, ErrInvalidScopeToken
	}

	claims, ok := token.Claims.(*ScopeClaims)
	if !ok || !token.Valid || claims.Scope == "" {
		return nil, ErrInvalidScopeToken
	}
	return claims, nil
}

// IssueCookie signs the scope and sets the session cookie. A remembered
// session gets a persistent cookie; otherwise it lives for the browser
// session only.
func (m *Manager) IssueCookie(w http.ResponseWriter, scope string, remember bool) error {
	signed, err := m.signScope(scope, remember)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(m.sessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// ExpireCookie drops the session cookie on logout.
func (m *Manager) ExpireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware resolves the request's scope, hydrates its session service and
// injects it into the request context. Requests with no cookie, or an
// unreadable one, get a fresh scope; a bad cookie never turns into an error
// response.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := ""
		remember := false

		if cookie, err := r.Cookie(CookieName); err == nil {
			claims, err := m.parseScope(cookie.Value)
			if err != nil {
				m.logger.Warn("scope cookie rejected, issuing fresh scope", "error", err)
			} else {
				scope = claims.Scope
				remember = claims.Remember
			}
		}

		fresh := scope == ""
		if fresh {
			scope = uuid.New().String()
		}

		svc := m.ServiceFor(scope)
		svc.Hydrate(r.Context())

		if fresh {
			if err := m.IssueCookie(w, scope, remember); err != nil {
				m.logger.Error("failed to issue session cookie", "error", err)
			}
		}

		ctx := internal.ContextWithScope(r.Context(), scope)
		next.ServeHTTP(w, r.WithContext(NewContext(ctx, svc)))
	})
}
