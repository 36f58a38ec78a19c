package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"env": map[string]any{
			"serviceName": "authpal",
			"log": map[string]any{
				"pretty": true,
			},
		},
		"smtp": map[string]any{
			"fromName": "Authpal",
		},
		"googleOAuth": map[string]any{
			"clientId": "",
		},
	}

	tests := []struct {
		name   string
		rawKey string
		want   string
	}{
		{
			name:   "matches camelCase leaf",
			rawKey: "SMTP_FROMNAME",
			want:   "smtp.fromName",
		},
		{
			name:   "matches nested section",
			rawKey: "ENV_LOG_PRETTY",
			want:   "env.log.pretty",
		},
		{
			name:   "matches multi-word section",
			rawKey: "GOOGLEOAUTH_CLIENTID",
			want:   "googleOAuth.clientId",
		},
		{
			name:   "unknown key falls back to lowercase",
			rawKey: "REDIS_ADDR",
			want:   "redis.addr",
		},
		{
			name:   "unknown tail after known section",
			rawKey: "ENV_DEBUG",
			want:   "env.debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := canonicalizeEnvKey(tt.rawKey, existing)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "fromname", normalizeToken("fromName"))
	assert.Equal(t, "clientid", normalizeToken("client_id"))
	assert.Equal(t, "db", normalizeToken("DB"))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, DefaultOTPTTL, cfg.Auth.OTPTTL)
	assert.Equal(t, DefaultResetTokenTTL, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, DefaultSessionTTL, cfg.Session.TTL)
	assert.Equal(t, DefaultCookieName, cfg.Session.CookieName)
	assert.Equal(t, 8, cfg.PasswordStrength.MinLength)
}
