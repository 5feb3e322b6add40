package kit

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

type ctxKey string

const (
	clientKey     ctxKey = "client_id"
	clientSlotKey ctxKey = "client_slot"
)

// clientSlot lets middleware that runs before ClientContext see the id it
// assigns.
type clientSlot struct {
	id string
}

const (
	clientCookie = "sf_client"
	clientField  = "id"
	clientMaxAge = 365 * 24 * 60 * 60
)

// ClientFromContext returns the client context id attached by ClientContext.
func ClientFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(clientKey).(string)
	return v, ok && v != ""
}

func WithClient(ctx context.Context, id string) context.Context {
	if slot, ok := ctx.Value(clientSlotKey).(*clientSlot); ok {
		slot.id = id
	}
	return context.WithValue(ctx, clientKey, id)
}

func withClientSlot(ctx context.Context) (context.Context, *clientSlot) {
	slot := &clientSlot{}
	return context.WithValue(ctx, clientSlotKey, slot), slot
}

type ClientOptions struct {
	Secret []byte
	Secure bool
}

// ClientContext assigns every caller a stable client id kept in a signed
// cookie. It plays the role of one browser profile: durable storage and the
// session are keyed by it.
func ClientContext(opts ClientOptions, log *zap.Logger) func(http.Handler) http.Handler {
	store := sessions.NewCookieStore(opts.Secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   clientMaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A tampered or stale cookie yields a fresh session, not an error.
			sess, _ := store.Get(r, clientCookie)

			id, _ := sess.Values[clientField].(string)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				sess.Values[clientField] = id
				if err := sess.Save(r, w); err != nil && log != nil {
					log.Warn("client cookie save failed", zap.Error(err))
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), id)))
		})
	}
}
