package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Sum returns the hex SHA-256 of data. Report checksums and ETags use it.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ChecksumMatcher verifies data against a previously issued checksum.
type ChecksumMatcher struct {
	expectedChecksum string
}

// NewChecksumMatcher creates a matcher for the expected checksum. Surrounding
// quotes are dropped so an If-None-Match header value can be passed as is.
func NewChecksumMatcher(expectedChecksum string) *ChecksumMatcher {
	expected := strings.TrimPrefix(strings.TrimSpace(expectedChecksum), "W/")
	return &ChecksumMatcher{expectedChecksum: strings.Trim(expected, `"`)}
}

// Match checks if the provided data's checksum matches the expected checksum.
func (cm *ChecksumMatcher) Match(data []byte) (bool, error) {
	if cm.expectedChecksum == "" {
		return false, errors.New("expected checksum is not set")
	}
	return cm.MatchSum(Sum(data)), nil
}

// MatchSum compares an already computed checksum.
func (cm *ChecksumMatcher) MatchSum(sum string) bool {
	return cm.expectedChecksum != "" && strings.EqualFold(cm.expectedChecksum, sum)
}
