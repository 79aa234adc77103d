// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package idgen

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// randomHex creates a random hex string of the specified byte length
func randomHex(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// BallotID creates an identifier for an encrypted ballot, e.g. "b_1b58ac90".
func BallotID() (string, error) {
	h, err := randomHex(4)
	if err != nil {
		return "", err
	}
	return "b_" + h, nil
}

// AuditID creates an identifier for an audit plan, e.g. "rla_3f2a".
func AuditID() (string, error) {
	h, err := randomHex(2)
	if err != nil {
		return "", err
	}
	return "rla_" + h, nil
}

// SamplingSeed returns a random five-digit seed for sampling-plan rows.
func SamplingSeed() (int, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate sampling seed: %w", err)
	}
	return 10000 + int(binary.BigEndian.Uint32(b[:])%90000), nil
}
