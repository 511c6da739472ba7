package service

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP parameters shared by enrollment and verification. These are fixed by
// the account records already in the field: changing them would invalidate
// every provisioned secret.
const (
	otpPeriod = 30
	otpSkew   = 1 // accept the step before and after to tolerate clock drift
)

// generateSecret creates a fresh TOTP key for an account. The default
// 20-byte secret gives 160 bits of entropy; the returned key carries both
// the base32 secret and the otpauth:// provisioning URI.
func generateSecret(issuer, username string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: username,
		Period:      otpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
}

// verifyCode checks a submitted code against a secret at the given time.
// The library compares digits in constant time. No state is kept between
// calls; a code observed in flight stays valid for the rest of its skew
// window.
func verifyCode(secret, code string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    otpPeriod,
		Skew:      otpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
