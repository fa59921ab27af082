package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"shielded-nft/internal/core/domain"
	"shielded-nft/pkg/apperror"
)

const maxAccountLength = 256

var recordIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// validateAccount checks the shape of an account identifier. Accounts are
// opaque to the ledger; only emptiness and obvious garbage are rejected.
func validateAccount(field, account string) error {
	if strings.TrimSpace(account) == "" {
		return apperror.Validation(field + " is required")
	}
	if !utf8.ValidString(account) {
		return apperror.Validation(field + " must be valid UTF-8")
	}
	if len(account) > maxAccountLength {
		return apperror.Validation(fmt.Sprintf("%s must be at most %d bytes", field, maxAccountLength))
	}
	if account != strings.TrimSpace(account) {
		return apperror.Validation(field + " must not have surrounding whitespace")
	}
	if strings.IndexFunc(account, unicode.IsControl) >= 0 {
		return apperror.Validation(field + " must not contain control characters")
	}
	return nil
}

// validateMetadata rejects records that cannot be stored or carried in a
// packet unchanged. Every text field must be valid UTF-8, since the packet
// encoder would otherwise rewrite it and break the commitment.
func validateMetadata(meta domain.Metadata) error {
	if strings.TrimSpace(meta.ContentAddress) == "" {
		return apperror.Validation("metadata.content_address is required")
	}
	for _, f := range []struct{ name, value string }{
		{"metadata.name", meta.Name},
		{"metadata.description", meta.Description},
		{"metadata.content_address", meta.ContentAddress},
	} {
		if !utf8.ValidString(f.value) {
			return apperror.Validation(f.name + " must be valid UTF-8")
		}
	}
	for i, attr := range meta.Attributes {
		if attr.Key == "" {
			return apperror.Validation(fmt.Sprintf("metadata.attributes[%d].key is required", i))
		}
		if !utf8.ValidString(attr.Key) || !utf8.ValidString(attr.Value) {
			return apperror.Validation(fmt.Sprintf("metadata.attributes[%d] must be valid UTF-8", i))
		}
	}
	return nil
}

// validateRecordID checks ids that arrive from outside this ledger.
func validateRecordID(id string) error {
	if !recordIDPattern.MatchString(id) {
		return apperror.Validation("id must be 1-128 characters of [A-Za-z0-9._:-]")
	}
	return nil
}

// auditDetails renders key/value pairs as a compact JSON object.
func auditDetails(kv map[string]any) string {
	b, err := json.Marshal(kv)
	if err != nil {
		return ""
	}
	return string(b)
}
