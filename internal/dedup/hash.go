// Package dedup tracks content hashes of records already present in an output file.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jonathan/pmc-harvester/internal/types"
)

// ContentHash fingerprints a record by its cleaned raw value, language and source URL.
// Derived link lists are not part of the hash.
func ContentHash(raw any, lang types.Lang, sourceURL string) (string, error) {
	text, err := types.CanonicalJSON(raw)
	if err != nil {
		return "", fmt.Errorf("failed to serialize raw value: %w", err)
	}
	return computeHash(string(text) + string(lang) + sourceURL), nil
}

// RecordHash is ContentHash applied to a record's identifying fields.
func RecordHash(rec *types.Record) (string, error) {
	return ContentHash(rec.Raw, rec.Lang, rec.SourceURL)
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
