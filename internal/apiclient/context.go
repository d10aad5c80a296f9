package apiclient

import (
	"context"
	"net/http"
)

type cookieContextKey struct{}

// WithSessionCookie attaches the backend session cookie that outgoing calls
// made with ctx will present. The backend authorizes every call by it.
func WithSessionCookie(ctx context.Context, cookie *http.Cookie) context.Context {
	if cookie == nil {
		return ctx
	}
	return context.WithValue(ctx, cookieContextKey{}, cookie)
}

func sessionCookie(ctx context.Context) *http.Cookie {
	cookie, _ := ctx.Value(cookieContextKey{}).(*http.Cookie)
	return cookie
}

// ForwardCookie copies the named browser cookie into the request context so
// console handlers call the backend on behalf of the signed in administrator.
func ForwardCookie(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if name == "" {
				next.ServeHTTP(w, r)
				return
			}
			cookie, err := r.Cookie(name)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionCookie(r.Context(), cookie)))
		})
	}
}
