package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"authpal/config"
	"authpal/internal/domain/service"

	"github.com/pkg/errors"
)

// resetTokenBytes gives 256 bits of entropy per token.
const resetTokenBytes = 32

type resetTokenCodec struct {
	ttl time.Duration
	now func() time.Time
}

// NewResetTokenCodec builds the password-reset token generator. Only the
// SHA-256 hash of a token is ever meant to be stored.
func NewResetTokenCodec(cfg *config.Config) service.ResetTokenCodec {
	ttl := config.DefaultResetTokenTTL
	if cfg != nil && cfg.Auth != nil && cfg.Auth.ResetTokenTTL > 0 {
		ttl = cfg.Auth.ResetTokenTTL
	}

	return &resetTokenCodec{ttl: ttl, now: time.Now}
}

func (c *resetTokenCodec) Generate() (string, string, time.Time, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, errors.Wrap(err, "generate reset token")
	}

	raw := hex.EncodeToString(buf)

	return raw, c.HashToken(raw), c.now().Add(c.ttl), nil
}

func (c *resetTokenCodec) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}
