package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10*time.Minute, cfg.Cache.StaffTTL)
	assert.Equal(t, 30*time.Minute, cfg.Editor.SessionTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.EventLog.BaseURL)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("EVENT_LOG_URL", "https://script.example.com/exec/")
	v.Set("STAFF_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := fromViper(v)
	assert.Equal(t, "https://script.example.com/exec", cfg.EventLog.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.StaffTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}
