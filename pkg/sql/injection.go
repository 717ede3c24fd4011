package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a detected SQL injection pattern in a value
// that was about to be interpolated into a query template.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if a SQL injection pattern was detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Name        string // Name of the value that failed the check
	Value       string // The value that was checked
}

// CheckLiteral runs libinjection against a string literal before it is
// embedded into a canned query template. Returns nil when the value is
// clean.
//
// The season/scope value and extracted team names flow through here; column
// and table names never do, since those come from fixed tables.
func CheckLiteral(name, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		Name:        name,
		Value:       value,
	}
}

// CheckLiterals validates a set of named values, returning one result per
// value that failed the injection check. Returns an empty slice when all
// values are clean.
func CheckLiterals(values map[string]string) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for name, value := range values {
		if result := CheckLiteral(name, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
