package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed digests.
// Version suffix enables future algorithm migration.
const (
	DomainFrame = "layerdeck/frame/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FrameDigest hashes the canonical form of a composed frame.
// Two frames with the same digest paint identically.
func FrameDigest(frame IRObject) (string, error) {
	canonical, err := MarshalCanonical(frame)
	if err != nil {
		return "", fmt.Errorf("FrameDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFrame, canonical), nil
}
