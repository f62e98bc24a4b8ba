package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	goCSRF "github.com/MrEthical07/goCSRF"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// textual is implemented by results that have a one-line text rendering.
type textual interface {
	Text() string
}

func validFormat(format string) bool {
	switch format {
	case formatText, formatJSON, formatYAML:
		return true
	}
	return false
}

func render(w io.Writer, format string, v textual) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, v.Text())
		return err
	}
}

type secretResult struct {
	Secret string `json:"secret" yaml:"secret"`
}

func (r secretResult) Text() string { return r.Secret }

type createResult struct {
	Tokens []string `json:"tokens" yaml:"tokens"`
}

func (r createResult) Text() string { return strings.Join(r.Tokens, "\n") }

type verifyResult struct {
	Valid bool `json:"valid" yaml:"valid"`
}

func (r verifyResult) Text() string {
	if r.Valid {
		return "valid"
	}
	return "invalid"
}

type algorithmsResult struct {
	Default    string   `json:"default" yaml:"default"`
	Algorithms []string `json:"algorithms" yaml:"algorithms"`
}

func (r algorithmsResult) Text() string {
	lines := make([]string, len(r.Algorithms))
	for i, name := range r.Algorithms {
		lines[i] = name
		if name == r.Default {
			lines[i] += " (default)"
		}
	}
	return strings.Join(lines, "\n")
}

type reportResult struct {
	goCSRF.SecurityReport `yaml:",inline"`
}

func (r reportResult) Text() string {
	lines := []string{
		fmt.Sprintf("hash: %s (%d bits)", r.HashAlgorithm, r.DigestBits),
		fmt.Sprintf("token length: %d", r.TokenLength),
		fmt.Sprintf("salt: %d chars, %.1f bits", r.SaltLength, r.SaltEntropyBits),
		fmt.Sprintf("secret: %d bytes, %d bits", r.SecretLength, r.SecretEntropyBits),
		fmt.Sprintf("custom tokenizer: %t", r.CustomTokenizer),
	}
	for _, w := range r.Warnings {
		lines = append(lines, "warning: "+w)
	}
	return strings.Join(lines, "\n")
}
