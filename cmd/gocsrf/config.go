package main

import (
	"errors"
	"fmt"
	"strings"

	goCSRF "github.com/MrEthical07/goCSRF"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "GOCSRF_"

var errReadBytesNotSupported = errors.New("gocsrf: map provider only supports Read")

// mapProvider feeds an in-memory map (explicitly set flags) to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}

// loadOptions merges token options from, in increasing priority, the YAML
// file at path, GOCSRF_* environment variables and flags. Keys are folded
// onto goCSRF option names so that "salt_length" in a file and
// GOCSRF_SALT_LENGTH override each other instead of coexisting.
func loadOptions(path string, flags map[string]any) (map[string]any, error) {
	k := koanf.New(".")

	if path != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
		if err := k.Load(mapProvider(canonicalKeys(fk.Raw())), nil); err != nil {
			return nil, fmt.Errorf("merge config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envOptionKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := k.Load(mapProvider(canonicalKeys(flags)), nil); err != nil {
		return nil, fmt.Errorf("merge flags: %w", err)
	}

	return k.Raw(), nil
}

// envOptionKey maps GOCSRF_SALT_LENGTH to saltLength and so on. Variables
// that do not name a token option (GOCSRF_METRICS_ENABLED, ...) are skipped;
// they belong to goCSRF.LoadEnv.
func envOptionKey(name string) string {
	key := optionName(strings.TrimPrefix(name, envPrefix))
	switch key {
	case goCSRF.OptionSaltLength, goCSRF.OptionSecretLength, goCSRF.OptionHashAlgorithm:
		return key
	default:
		return ""
	}
}

func canonicalKeys(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[optionName(k)] = v
	}
	return out
}

// optionName returns the goCSRF option a key spells, or the key unchanged.
func optionName(key string) string {
	folded := strings.ToLower(key)
	folded = strings.NewReplacer("_", "", "-", "").Replace(folded)
	for _, name := range []string{goCSRF.OptionSaltLength, goCSRF.OptionSecretLength, goCSRF.OptionHashAlgorithm} {
		if folded == strings.ToLower(name) {
			return name
		}
	}
	return key
}
