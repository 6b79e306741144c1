package utils

import (
	"github.com/nyaruka/phonenumbers"
)

// NormalizeE164 parses a phone number that already carries its country code
// (leading "+") and returns the canonical E.164 form.
func NormalizeE164(raw string) (string, error) {
	const op = "utils.NormalizeE164"

	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return "", E(CodeInvalidArgument, op, "invalid E.164 phone", err)
	}
	if !phonenumbers.IsPossibleNumber(num) || !phonenumbers.IsValidNumber(num) {
		return "", E(CodeInvalidArgument, op, "invalid E.164 phone", nil)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// EnsureWhitelisted rejects outbound numbers not in the configured whitelist.
// An empty whitelist allows everything.
func EnsureWhitelisted(phoneE164 string, whitelist map[string]struct{}) error {
	const op = "utils.EnsureWhitelisted"

	if len(whitelist) == 0 {
		return nil
	}
	if _, ok := whitelist[phoneE164]; !ok {
		return E(CodeForbidden, op, "outbound number not in whitelist", nil)
	}
	return nil
}
