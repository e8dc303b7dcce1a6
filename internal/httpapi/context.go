package httpapi

import (
	"context"
	"net/http"
)

// shutdownCtx is canceled when the process starts shutting down.
var shutdownCtx = context.Background()

// SetBaseContext ties in-flight runner processes to ctx: canceling it kills
// them. A nil ctx detaches.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx = ctx
}

// promptContext derives the context a runner process lives under. It ends
// when the client goes away or the server shuts down, whichever is first.
func promptContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(r.Context())
	stop := context.AfterFunc(shutdownCtx, func() { cancel(context.Cause(shutdownCtx)) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}

// abandoned reports whether nobody is left to read a response for r.
func abandoned(r *http.Request) bool {
	return r.Context().Err() != nil || shutdownCtx.Err() != nil
}
