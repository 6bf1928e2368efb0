// Package proto holds the public records, inputs, and errors exchanged
// between the services and their transports.
package proto

import "context"

// ContextKeyUser is the context key for the authenticated user id.
var ContextKeyUser = &struct{ string }{"user"}

// UserIDFromContext returns the authenticated user id from the context, or
// an empty string.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyUser).(string); ok {
		return id
	}
	return ""
}

// WithUserIDContext returns a new context with the authenticated user id.
func WithUserIDContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyUser, id)
}
