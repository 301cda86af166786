package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTP codes rotate every 5 minutes. A skew of 1 tolerates small clock drift
// between code generation and verification.
const (
	period = 300
	skew   = 1
)

var validateOpts = totp.ValidateOpts{
	Period:    period,
	Skew:      skew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateSecret generates a long-lived base32 secret, stored per user.
func GenerateSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "hirestack-ats",
		AccountName: accountName,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// GenerateCode derives the current 6-digit code from a secret.
func GenerateCode(secret string) (string, error) {
	return totp.GenerateCodeCustom(secret, time.Now(), validateOpts)
}

// Verify checks a code against a secret.
func Verify(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), validateOpts)
	if err != nil {
		return false
	}
	return ok
}
