package goCSRF

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Option keys accepted by FromOptions. Matching ignores case, '_' and '-',
// so "saltLength", "salt_length" and "SALT-LENGTH" are the same option.
const (
	OptionSaltLength    = "saltLength"
	OptionSecretLength  = "secretLength"
	OptionHashAlgorithm = "hashAlgorithm"
)

// FromOptions builds a Config from a loosely typed option bag, as decoded
// from YAML, JSON or the environment. Absent or nil options keep their
// defaults. Present options are validated strictly: lengths must be finite
// integers >= 1 (numeric strings are accepted, NaN and infinities are not),
// and hashAlgorithm must be a non-empty string naming a supported hash.
// Unknown keys are rejected.
func FromOptions(opts map[string]any) (Config, error) {
	cfg := defaultConfig()

	for key, raw := range opts {
		if raw == nil {
			continue
		}
		switch canonicalOption(key) {
		case "saltlength":
			n, err := lengthOption(OptionSaltLength, raw)
			if err != nil {
				return Config{}, err
			}
			cfg.SaltLength = n
		case "secretlength":
			n, err := lengthOption(OptionSecretLength, raw)
			if err != nil {
				return Config{}, err
			}
			cfg.SecretLength = n
		case "hashalgorithm":
			name, ok := raw.(string)
			if !ok {
				return Config{}, configError(OptionHashAlgorithm, fmt.Sprintf("must be a string, got %T", raw))
			}
			if strings.TrimSpace(name) == "" {
				return Config{}, configError(OptionHashAlgorithm, "must be a non-empty string")
			}
			cfg.HashAlgorithm = name
		default:
			return Config{}, configError(key, "is not a recognized option")
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func canonicalOption(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	return strings.ReplaceAll(key, "-", "")
}

func lengthOption(name string, raw any) (int, error) {
	var f float64
	switch v := raw.(type) {
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, configError(name, fmt.Sprintf("must be a number, got %q", v.String()))
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, configError(name, fmt.Sprintf("must be a number, got %q", v))
		}
		f = parsed
	default:
		return 0, configError(name, fmt.Sprintf("must be a number, got %T", raw))
	}

	switch {
	case math.IsNaN(f):
		return 0, configError(name, "must be a number, got NaN")
	case math.IsInf(f, 0):
		return 0, configError(name, "must be finite")
	case f != math.Trunc(f):
		return 0, configError(name, "must be an integer")
	case f < 1:
		return 0, configError(name, "must be an integer >= 1")
	case f > math.MaxInt32:
		return 0, configError(name, "is too large")
	}
	return int(f), nil
}
