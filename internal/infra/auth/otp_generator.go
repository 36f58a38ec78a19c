package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"authpal/config"
	"authpal/internal/domain/service"

	"github.com/pkg/errors"
)

// otpRange covers the six-digit codes [100000, 999999].
const (
	otpMin   = 100000
	otpRange = 900000
)

type otpGenerator struct {
	ttl time.Duration
	now func() time.Time
}

// NewOTPGenerator builds an email verification code generator whose codes
// expire after the configured TTL.
func NewOTPGenerator(cfg *config.Config) service.OTPGenerator {
	ttl := config.DefaultOTPTTL
	if cfg != nil && cfg.Auth != nil && cfg.Auth.OTPTTL > 0 {
		ttl = cfg.Auth.OTPTTL
	}

	return &otpGenerator{ttl: ttl, now: time.Now}
}

// Generate draws a code uniformly from [100000, 999999] using crypto/rand,
// so every code is exactly six digits with no modulo bias.
func (g *otpGenerator) Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "generate otp")
	}

	code := strconv.FormatInt(n.Int64()+otpMin, 10)

	return code, g.now().Add(g.ttl), nil
}
