package middleware

import (
	"context"
	"net/http"
	"sync"

	goCSRF "github.com/MrEthical07/goCSRF"
)

type tokenContextKey struct{}

// tokenState mints at most one token per request, on first use.
type tokenState struct {
	tokens    *goCSRF.Tokens
	secret    string
	hasSecret bool

	once  sync.Once
	token string
	err   error
}

func withTokenState(ctx context.Context, tokens *goCSRF.Tokens, secret string, hasSecret bool) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, &tokenState{
		tokens:    tokens,
		secret:    secret,
		hasSecret: hasSecret,
	})
}

// Token returns a token for the request's session secret, minting it on the
// first call. Later calls for the same request return the same token.
func Token(r *http.Request) (string, error) {
	state, ok := r.Context().Value(tokenContextKey{}).(*tokenState)
	if !ok {
		return "", ErrNotProtected
	}

	state.once.Do(func() {
		if !state.hasSecret || state.secret == "" {
			state.err = ErrSecretMissing
			return
		}
		state.token, state.err = state.tokens.Create(state.secret)
	})
	return state.token, state.err
}
