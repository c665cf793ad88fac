package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// ProofKind tags the two verification mechanisms the platform supports.
type ProofKind string

const (
	ProofKindCode  ProofKind = "code"  // short numeric code + explicit expiry
	ProofKindToken ProofKind = "token" // signed token with embedded expiry
)

// Proof is a one-time secret issued to prove email ownership. For the
// code kind ExpiresAt holds the explicit expiry; for the token kind the
// expiry lives inside the signed value and ExpiresAt is zero.
type Proof struct {
	Kind      ProofKind
	Value     string
	ExpiresAt time.Time
}

// NewCodeProof draws a 6-digit code uniformly from [100000, 999999] and
// stamps it with the given TTL.
func NewCodeProof(ttl time.Duration) (Proof, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return Proof{}, fmt.Errorf("failed to generate verification code: %w", err)
	}

	return Proof{
		Kind:      ProofKindCode,
		Value:     fmt.Sprintf("%06d", n.Int64()+100000),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// NewTokenProof mints a signed verification token for the email.
func NewTokenProof(email string, ttl time.Duration) (Proof, error) {
	token, err := GenerateVerificationToken(email, ttl)
	if err != nil {
		return Proof{}, fmt.Errorf("failed to sign verification token: %w", err)
	}

	return Proof{
		Kind:  ProofKindToken,
		Value: token,
	}, nil
}
