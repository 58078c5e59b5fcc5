package requestctx

import "context"

// Actor is the authenticated identity attached to a request: one team member
// acting within one organization.
type Actor struct {
	OrgID    string
	MemberID string
	Role     string
}

// actorContextKey is the context key for authenticated request identity.
type actorContextKey struct{}

// WithActor stores the authenticated actor in context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor stored in context, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}
