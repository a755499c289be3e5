package guard

// State is the session snapshot a routing decision is made from.
type State struct {
	Hydrating     bool
	Authenticated bool
	Corporate     bool
}

type Action int

const (
	// Wait: hydration has not finished, hold the request rather than
	// bouncing a user whose session is still being restored.
	Wait Action = iota
	Render
	Redirect
)

type Decision struct {
	Action Action
	Target string
}

// Rule is a guard configuration for a set of routes.
type Rule struct {
	RequireCorporate  bool
	Fallback          string
	CorporateFallback string
}

// Decide is the whole access policy. Hydration always wins; an
// unauthenticated session goes to the rule's fallback; an authenticated but
// non-corporate session hitting a corporate-only rule goes to the corporate
// fallback.
func Decide(s State, r Rule) Decision {
	if s.Hydrating {
		return Decision{Action: Wait}
	}
	if !s.Authenticated {
		if r.RequireCorporate {
			return Decision{Action: Redirect, Target: r.CorporateFallback}
		}
		return Decision{Action: Redirect, Target: r.Fallback}
	}
	if r.RequireCorporate && !s.Corporate {
		return Decision{Action: Redirect, Target: r.CorporateFallback}
	}
	return Decision{Action: Render}
}
