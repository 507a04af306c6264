package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for statement fingerprints.
// Version suffix enables future algorithm migration.
const DomainStatement = "sqlchain/statement/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed identity for a statement.
// Two statements with the same primary kind and byte-identical body (after
// NFC normalisation) share a fingerprint.
func Fingerprint(s Statement) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"primary_kind": s.PrimaryKind.String(),
		"body":         s.Body,
	})
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStatement, canonical), nil
}
