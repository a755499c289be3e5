package guard

import (
	"net/http"

	"github.com/talentbridge/portal/internal/session"
)

// Middleware applies a Rule to every request passing through it. Wait maps
// to 204 (the caller should retry once hydration settles), Redirect to 302.
func Middleware(rule Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			svc := session.FromContext(r.Context())

			decision := Decide(State{
				Hydrating:     svc.Hydrating(),
				Authenticated: svc.IsAuthenticated(),
				Corporate:     svc.IsCorporate(),
			}, rule)

			switch decision.Action {
			case Wait:
				w.WriteHeader(http.StatusNoContent)
			case Redirect:
				http.Redirect(w, r, decision.Target, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Protected guards routes that need any authenticated session.
func Protected() func(http.Handler) http.Handler {
	return Middleware(Rule{
		Fallback:          "/",
		CorporateFallback: "/employer-login",
	})
}

// CorporateOnly guards routes reserved for employer accounts.
func CorporateOnly() func(http.Handler) http.Handler {
	return Middleware(Rule{
		RequireCorporate:  true,
		Fallback:          "/employer-login",
		CorporateFallback: "/employer-login",
	})
}
