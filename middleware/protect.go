package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	goCSRF "github.com/MrEthical07/goCSRF"
)

const (
	// DefaultHeaderName is the request header checked first for a token.
	DefaultHeaderName = "X-CSRF-Token"
	// DefaultFormField is the form field checked when the header is absent.
	DefaultFormField = "_csrf"
)

var (
	// ErrSecretMissing means Options.Secret found no session secret.
	ErrSecretMissing = errors.New("csrf secret missing")
	// ErrTokenMissing means the request carried no token.
	ErrTokenMissing = errors.New("csrf token missing")
	// ErrTokenInvalid means the token did not verify against the secret.
	ErrTokenInvalid = errors.New("csrf token invalid")
	// ErrNotProtected is returned by Token for requests that did not pass through Protect.
	ErrNotProtected = errors.New("request not wrapped by csrf middleware")
)

// Options configures [Protect]. Secret is required.
type Options struct {
	// Secret returns the session secret for r, or false when the session has none.
	Secret func(r *http.Request) (string, bool)
	// HeaderName defaults to DefaultHeaderName.
	HeaderName string
	// FormField defaults to DefaultFormField. Set to "-" to disable form lookup.
	FormField string
	// SafeMethods are passed through without verification.
	SafeMethods []string
	// Limiter, when set, throttles clients with repeated verification failures.
	Limiter goCSRF.FailureLimiter
	// ClientKey identifies the client for Limiter; defaults to the remote IP.
	ClientKey func(r *http.Request) string
	// ErrorHandler serves rejected requests; [Reason] reports why.
	ErrorHandler http.Handler
	Logger       *slog.Logger
}

type reasonContextKey struct{}

// Reason returns the rejection cause inside Options.ErrorHandler.
func Reason(r *http.Request) error {
	err, _ := r.Context().Value(reasonContextKey{}).(error)
	return err
}

type guard struct {
	tokens *goCSRF.Tokens
	opts   Options
	safe   map[string]struct{}
}

// Protect returns middleware that verifies anti-forgery tokens on unsafe methods.
func Protect(tokens *goCSRF.Tokens, opts Options) func(http.Handler) http.Handler {
	g := newGuard(tokens, opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g.serve(next, w, r)
		})
	}
}

func newGuard(tokens *goCSRF.Tokens, opts Options) *guard {
	if opts.HeaderName == "" {
		opts.HeaderName = DefaultHeaderName
	}
	if opts.FormField == "" {
		opts.FormField = DefaultFormField
	}
	if len(opts.SafeMethods) == 0 {
		opts.SafeMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace}
	}
	if opts.ClientKey == nil {
		opts.ClientKey = remoteIP
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = http.HandlerFunc(defaultErrorHandler)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	safe := make(map[string]struct{}, len(opts.SafeMethods))
	for _, m := range opts.SafeMethods {
		safe[m] = struct{}{}
	}

	return &guard{tokens: tokens, opts: opts, safe: safe}
}

func (g *guard) serve(next http.Handler, w http.ResponseWriter, r *http.Request) {
	if g.tokens == nil || g.opts.Secret == nil {
		g.reject(w, r, ErrSecretMissing)
		return
	}

	secret, hasSecret := g.opts.Secret(r)
	r = r.WithContext(withTokenState(r.Context(), g.tokens, secret, hasSecret))

	if _, ok := g.safe[r.Method]; ok {
		next.ServeHTTP(w, r)
		return
	}

	if !hasSecret || secret == "" {
		g.reject(w, r, ErrSecretMissing)
		return
	}

	ctx := r.Context()
	client := g.opts.ClientKey(r)
	if g.opts.Limiter != nil {
		if err := g.opts.Limiter.Check(ctx, client); err != nil {
			if errors.Is(err, goCSRF.ErrRateLimited) {
				g.tokens.ReportRateLimited(ctx, map[string]string{"method": r.Method, "path": r.URL.Path})
				g.reject(w, r, goCSRF.ErrRateLimited)
				return
			}
			// Limiter outages fail open; verification below still applies.
			g.opts.Logger.Warn("goCSRF: failure limiter check failed", "error", err)
		}
	}

	token := g.extractToken(r)
	if token == "" {
		g.recordFailure(ctx, client)
		g.reject(w, r, ErrTokenMissing)
		return
	}

	if !g.tokens.Verify(secret, token) {
		g.recordFailure(ctx, client)
		g.reject(w, r, ErrTokenInvalid)
		return
	}

	if g.opts.Limiter != nil {
		if err := g.opts.Limiter.Reset(ctx, client); err != nil {
			g.opts.Logger.Warn("goCSRF: failure limiter reset failed", "error", err)
		}
	}

	next.ServeHTTP(w, r)
}

func (g *guard) extractToken(r *http.Request) string {
	if v := r.Header.Get(g.opts.HeaderName); v != "" {
		return v
	}
	if g.opts.FormField == "-" {
		return ""
	}
	return r.PostFormValue(g.opts.FormField)
}

func (g *guard) recordFailure(ctx context.Context, client string) {
	if g.opts.Limiter == nil {
		return
	}
	if err := g.opts.Limiter.RecordFailure(ctx, client); err != nil && !errors.Is(err, goCSRF.ErrRateLimited) {
		g.opts.Logger.Warn("goCSRF: failure limiter record failed", "error", err)
	}
}

func (g *guard) reject(w http.ResponseWriter, r *http.Request, reason error) {
	ctx := context.WithValue(r.Context(), reasonContextKey{}, reason)
	g.opts.ErrorHandler.ServeHTTP(w, r.WithContext(ctx))
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request) {
	if errors.Is(Reason(r), goCSRF.ErrRateLimited) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}
	http.Error(w, "forbidden", http.StatusForbidden)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
