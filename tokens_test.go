package goCSRF

import (
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy source closed") }

// fixedReader returns the same byte forever, which makes salts predictable.
type fixedReader byte

func (r fixedReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}

func mustTokens(t *testing.T, b *Builder) *Tokens {
	t.Helper()
	tokens, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(tokens.Close)
	return tokens
}

func mustSecret(t *testing.T, tokens *Tokens) string {
	t.Helper()
	secret, err := tokens.SecretSync()
	if err != nil {
		t.Fatalf("SecretSync failed: %v", err)
	}
	return secret
}

func TestTokenizeKnownVectors(t *testing.T) {
	tests := []struct {
		algorithm string
		want      string
	}{
		{algorithm: "sha1", want: "abcdefgh-KH_T7mXTS1GEAZcAQ9OdC1J9eBU"},
		{algorithm: "SHA256", want: "abcdefgh-KNQz6Nej0fMpW4W4oZFVDeGA3_QxCPlBMN7bY61mMkg"},
		{algorithm: "sha3-256", want: "abcdefgh-KN8OkJFjBnzEVD-evuaj5NRjnuj01PKq5OoPTmXAN4k"},
		{algorithm: "blake2b_512", want: "abcdefgh-LsvoV24DTL4c6TpiFoGOVXQ0zFe8yoLuQnXaQFCb2_wKBvPpMkeTG3NRRFq-vQtumzp9ibHo7yYMQ2pOJfG7XA"},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			tokens := mustTokens(t, NewBuilder().WithHashAlgorithm(tt.algorithm))
			if got := tokens.Tokenize("abc123secret", "abcdefgh"); got != tt.want {
				t.Fatalf("Tokenize = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	tokens := mustTokens(t, NewBuilder())
	for _, salt := range []string{"", "a", "abcdefgh", "ZZZZZZZZZZZZ"} {
		first := tokens.Tokenize("s3cret", salt)
		second := tokens.Tokenize("s3cret", salt)
		if first != second {
			t.Fatalf("Tokenize not deterministic for salt %q: %q vs %q", salt, first, second)
		}
		if !strings.HasPrefix(first, salt+"-") {
			t.Fatalf("token %q does not start with salt %q", first, salt)
		}
	}
}

func TestCreateRejectsEmptySecret(t *testing.T) {
	tokens := mustTokens(t, NewBuilder().WithRandom(failingReader{}))

	_, err := tokens.Create("")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if !strings.Contains(err.Error(), "argument secret is required") {
		t.Fatalf("error should name the argument, got %q", err)
	}
}

func TestCreateRandomnessUnavailable(t *testing.T) {
	tokens := mustTokens(t, NewBuilder().WithRandom(failingReader{}))

	if _, err := tokens.Create("secret"); !errors.Is(err, ErrRandomnessUnavailable) {
		t.Fatalf("expected ErrRandomnessUnavailable, got %v", err)
	}
}

func TestCreateShape(t *testing.T) {
	tokens := mustTokens(t, NewBuilder())
	secret := mustSecret(t, tokens)

	shape := regexp.MustCompile(`^[A-Za-z0-9]{8}-[A-Za-z0-9_-]{27}$`)
	first, err := tokens.Create(secret)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 1000; i++ {
		token, err := tokens.Create(secret)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if strings.ContainsAny(token, "+/=") {
			t.Fatalf("token %q contains a URL-unsafe character", token)
		}
		if len(token) != len(first) {
			t.Fatalf("token length changed: %d vs %d", len(token), len(first))
		}
		if !shape.MatchString(token) {
			t.Fatalf("token %q does not match %s", token, shape)
		}
	}
}

func TestCreateUsesConfiguredSaltLength(t *testing.T) {
	tokens := mustTokens(t, NewBuilder().WithSaltLength(24).WithHashAlgorithm("sha512"))
	token, err := tokens.Create("secret")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	salt, hash, ok := strings.Cut(token, "-")
	if !ok || len(salt) != 24 {
		t.Fatalf("expected 24-char salt, got %q", salt)
	}
	if len(hash) != 86 {
		t.Fatalf("expected 86-char sha512 hash segment, got %d", len(hash))
	}
}

func TestCreateSaltsAreFresh(t *testing.T) {
	tokens := mustTokens(t, NewBuilder())
	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		token, err := tokens.Create("secret")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token after %d creates", i)
		}
		seen[token] = struct{}{}
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	for _, algorithm := range SupportedHashAlgorithms() {
		t.Run(algorithm, func(t *testing.T) {
			tokens := mustTokens(t, NewBuilder().WithHashAlgorithm(algorithm))
			secret := mustSecret(t, tokens)
			token, err := tokens.Create(secret)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if !tokens.Verify(secret, token) {
				t.Fatalf("expected %s token to verify", algorithm)
			}
		})
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tokens := mustTokens(t, NewBuilder())
	secret := mustSecret(t, tokens)
	token, err := tokens.Create(secret)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if tokens.Verify(mustSecret(t, tokens), token) {
		t.Fatal("token verified against a fresh secret")
	}
	if tokens.Verify("asdfasdfasdf", token) {
		t.Fatal("token verified against an unrelated secret")
	}
}

func TestVerifyTamperSensitivity(t *testing.T) {
	tokens := mustTokens(t, NewBuilder())
	secret := mustSecret(t, tokens)
	token, err := tokens.Create(secret)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < len(token); i++ {
		replacement := byte('a')
		if token[i] == 'a' {
			replacement = 'b'
		}
		mutated := token[:i] + string(replacement) + token[i+1:]
		if tokens.Verify(secret, mutated) {
			t.Fatalf("mutation at index %d still verified: %q", i, mutated)
		}
	}
}

func TestVerifyMalformedInputs(t *testing.T) {
	tokens := mustTokens(t, NewBuilder())
	secret := mustSecret(t, tokens)
	valid, err := tokens.Create(secret)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "empty secret and token", secret: "", token: ""},
		{name: "empty secret", secret: "", token: valid},
		{name: "empty token", secret: secret, token: ""},
		{name: "no separator", secret: secret, token: "hi"},
		{name: "empty salt", secret: secret, token: "-abc"},
		{name: "only separator", secret: secret, token: "-"},
		{name: "trailing garbage", secret: secret, token: valid + "x"},
		{name: "truncated", secret: secret, token: valid[:len(valid)-1]},
		{name: "non utf8", secret: secret, token: "\xff\xfe-\x00"},
		{name: "very long", secret: secret, token: strings.Repeat("a", 64<<10) + "-x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tokens.Verify(tt.secret, tt.token) {
				t.Fatalf("expected Verify(%q, %q) to be false", tt.secret, tt.token)
			}
		})
	}
}

func TestVerifySplitsAtFirstSeparator(t *testing.T) {
	tokens := mustTokens(t, NewBuilder())
	// base64url hash segments may themselves contain '-'.
	token := tokens.Tokenize("secret", "salt")
	hash := strings.TrimPrefix(token, "salt-")
	if !tokens.Verify("secret", "salt-"+hash) {
		t.Fatal("expected salt-<hash> to verify")
	}
	if tokens.Verify("secret", "sa-lt-"+hash) {
		t.Fatal("salt is everything before the first separator")
	}
}

func TestConstantTimeEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"", "", true},
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"xbc", "abc", false},
		{"abc", "abcd", false},
		{"abcd", "abc", false},
	}
	for _, tt := range tests {
		if got := constantTimeEqual(tt.a, tt.b); got != tt.want {
			t.Fatalf("constantTimeEqual(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCustomTokenizer(t *testing.T) {
	var calls int
	var mu sync.Mutex
	custom := func(secret, salt string) string {
		mu.Lock()
		calls++
		mu.Unlock()
		return salt + "-" + strings.ToUpper(secret)
	}

	tokens := mustTokens(t, NewBuilder().WithTokenizer(custom).WithRandom(fixedReader(0)))
	token, err := tokens.Create("secret")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if token != "00000000-SECRET" {
		t.Fatalf("unexpected custom token %q", token)
	}
	if !tokens.Verify("secret", token) {
		t.Fatal("custom token must verify")
	}
	if calls != 2 {
		t.Fatalf("expected tokenizer to run for create and verify, ran %d times", calls)
	}
}

func TestExampleScenario(t *testing.T) {
	cfg, err := FromOptions(map[string]any{})
	if err != nil {
		t.Fatalf("FromOptions failed: %v", err)
	}
	codec, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	secret := "abc123secret"
	token, err := codec.Create(secret)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !regexp.MustCompile(`^[A-Za-z0-9_]+-[A-Za-z0-9_-]+$`).MatchString(token) {
		t.Fatalf("token %q has unexpected shape", token)
	}
	if !codec.Verify(secret, token) {
		t.Fatal("expected token to verify")
	}
	if codec.Verify(secret, token+"x") {
		t.Fatal("expected appended character to fail")
	}
	if codec.Verify("different-secret", token) {
		t.Fatal("expected different secret to fail")
	}
}

func TestTokensConcurrentUse(t *testing.T) {
	tokens := mustTokens(t, NewBuilder().WithLatencyHistograms(true))
	secret := mustSecret(t, tokens)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				token, err := tokens.Create(secret)
				if err != nil {
					errs <- err
					return
				}
				if !tokens.Verify(secret, token) {
					errs <- errors.New("concurrent token failed to verify")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	if got := tokens.MetricsSnapshot().Counters[MetricVerifySuccess]; got != 16*200 {
		t.Fatalf("expected %d successes, got %d", 16*200, got)
	}
}

var _ io.Reader = failingReader{}
