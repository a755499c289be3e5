package session

import "context"

type contextKey struct{}

func NewContext(ctx context.Context, svc *Service) context.Context {
	return context.WithValue(ctx, contextKey{}, svc)
}

// FromContext returns the session service provisioned for this request.
// Calling it outside the manager middleware is a programming error.
func FromContext(ctx context.Context) *Service {
	svc, ok := FromContextOK(ctx)
	if !ok {
		panic("session service used outside its provisioning scope")
	}
	return svc
}

func FromContextOK(ctx context.Context) (*Service, bool) {
	svc, ok := ctx.Value(contextKey{}).(*Service)
	return svc, ok
}
