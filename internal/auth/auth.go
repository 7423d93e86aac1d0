// Package auth turns passwords into stored credentials and checks them.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Mode names accepted by New.
const (
	ModePlaintext = "plaintext"
	ModeBcrypt    = "bcrypt"
)

// ErrUnknownMode is returned by New for an unrecognised mode.
var ErrUnknownMode = errors.New("unknown auth mode")

// Authenticator produces and verifies account credentials.
type Authenticator interface {
	// Enroll returns the credential to store for password.
	Enroll(password string) (string, error)
	// Verify reports whether password matches a stored credential.
	Verify(credential, password string) bool
	Name() string
}

// New returns the authenticator for mode. The empty mode is plaintext.
func New(mode string) (Authenticator, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModePlaintext, "":
		return Plaintext{}, nil
	case ModeBcrypt:
		return Bcrypt{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Modes returns the names accepted by New.
func Modes() []string {
	return []string{ModePlaintext, ModeBcrypt}
}

// Plaintext stores the password as-is.
type Plaintext struct{}

func (Plaintext) Enroll(password string) (string, error) {
	return password, nil
}

func (Plaintext) Verify(credential, password string) bool {
	return subtle.ConstantTimeCompare([]byte(credential), []byte(password)) == 1
}

func (Plaintext) Name() string { return ModePlaintext }

// Bcrypt stores a bcrypt hash. Credentials that are not bcrypt hashes were
// written in plaintext mode and are compared directly, so switching a data
// directory to bcrypt does not lock existing accounts out.
type Bcrypt struct {
	// Cost defaults to bcrypt.DefaultCost.
	Cost int
}

func (b Bcrypt) Enroll(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (b Bcrypt) Verify(credential, password string) bool {
	if _, err := bcrypt.Cost([]byte(credential)); err != nil {
		return Plaintext{}.Verify(credential, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(password)) == nil
}

func (Bcrypt) Name() string { return ModeBcrypt }
