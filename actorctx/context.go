package actorctx

import "context"

// Context key type
type contextKey string

const actorKey contextKey = "actor"

// Actor carries the acting principal and request metadata for the duration
// of a request. Outside a request (background jobs, CLI commands) the zero
// value is returned everywhere, which is a valid "system" actor.
type Actor struct {
	UserID    int64
	Email     string
	Role      string
	Site      string
	IPAddress string
	UserAgent string
}

// Known reports whether an authenticated principal is attached.
func (a Actor) Known() bool {
	return a.UserID != 0
}

// Privileged reports whether the actor holds one of the two top-level roles.
func (a Actor) Privileged() bool {
	return a.Role == "BOSS" || a.Role == "HQ_ADMIN"
}

// WithActor attaches the actor to the request context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// FromContext retrieves the actor from the context. Returns the zero Actor
// when none was set; callers never need to special-case the absence.
func FromContext(ctx context.Context) Actor {
	if actor, ok := ctx.Value(actorKey).(Actor); ok {
		return actor
	}
	return Actor{}
}
