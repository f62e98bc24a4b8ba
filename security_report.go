package goCSRF

import (
	"github.com/MrEthical07/goCSRF/internal"
	"github.com/MrEthical07/goCSRF/internal/security"
)

// SecurityReport summarizes digest size, salt and secret entropy, and
// warnings for weak settings. It never contains secret or token values.
type SecurityReport = security.Report

// SecurityReport describes the strength of the codec's configuration.
func (t *Tokens) SecurityReport() SecurityReport {
	if t == nil {
		return SecurityReport{}
	}

	return security.BuildReport(security.ReportInput{
		HashAlgorithm:   t.config.HashAlgorithm,
		DigestSize:      t.newHash().Size(),
		SaltLength:      t.config.SaltLength,
		SaltAlphabet:    len(internal.SaltAlphabet),
		SecretLength:    t.config.SecretLength,
		CustomTokenizer: t.tokenize != nil,
		MetricsEnabled:  t.config.Metrics.Enabled,
		AuditEnabled:    t.config.Audit.Enabled,
	})
}
