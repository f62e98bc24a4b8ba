package goCSRF_test

import (
	"fmt"
	"strings"

	goCSRF "github.com/MrEthical07/goCSRF"
)

// zeroReader makes the salt deterministic for documentation output.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func ExampleTokens_Tokenize() {
	tokens, _ := goCSRF.New(goCSRF.DefaultConfig())
	fmt.Println(tokens.Tokenize("abc123secret", "abcdefgh"))
	// Output: abcdefgh-KH_T7mXTS1GEAZcAQ9OdC1J9eBU
}

func ExampleTokens_Create() {
	tokens, _ := goCSRF.NewBuilder().WithRandom(zeroReader{}).Build()

	token, err := tokens.Create("abc123secret")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(token)
	fmt.Println(tokens.Verify("abc123secret", token))
	fmt.Println(tokens.Verify("abc123secret", token+"x"))
	// Output:
	// 00000000-jMNDwzbEjSkd3ePvyxzsGf5ExTQ
	// true
	// false
}

func ExampleTokens_Secret() {
	tokens, _ := goCSRF.NewBuilder().WithSecretLength(4).Build()

	res := <-tokens.Secret()
	if res.Err != nil {
		fmt.Println(res.Err)
		return
	}
	fmt.Println(len(res.Secret))
	// Output: 6
}

func ExampleFromOptions() {
	_, err := goCSRF.FromOptions(map[string]any{"saltLength": "bogus"})
	fmt.Println(err)

	cfg, _ := goCSRF.FromOptions(map[string]any{"salt_length": 12, "hashAlgorithm": "SHA256"})
	tokens, _ := goCSRF.New(cfg)
	token := tokens.Tokenize("abc123secret", "abcdefgh")
	fmt.Println(strings.HasPrefix(token, "abcdefgh-"), len(token))
	// Output:
	// goCSRF: option saltLength must be a number, got "bogus"
	// true 52
}
