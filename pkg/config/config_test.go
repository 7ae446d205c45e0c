package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "fallback", Env("TAROT_TEST_UNSET_KEY", "fallback"))
	assert.Nil(t, Env("TAROT_TEST_UNSET_KEY"))
}

func TestEnvReadsEnvironment(t *testing.T) {
	t.Setenv("TAROT_TEST_MODEL", "claude-test")
	assert.Equal(t, "claude-test", Env("TAROT_TEST_MODEL", "default"))
}

func TestAddAndGet(t *testing.T) {
	t.Setenv("TAROT_TEST_TIMEOUT", "45")

	Add("tarottest", func() map[string]interface{} {
		return map[string]interface{}{
			"name":    Env("TAROT_TEST_NAME", "Tarot Agent"),
			"timeout": Env("TAROT_TEST_TIMEOUT", 90),
			"debug":   Env("TAROT_TEST_DEBUG", false),
		}
	})
	InitConfig("does-not-exist")

	assert.Equal(t, "Tarot Agent", Get("tarottest.name"))
	assert.Equal(t, 45, GetInt("tarottest.timeout"))
	assert.False(t, GetBool("tarottest.debug"))
	assert.Equal(t, 7, GetInt("tarottest.missing", 7))
	assert.Equal(t, "", GetString("tarottest.missing"))
}

func TestSetOverrides(t *testing.T) {
	Set("tarottest_override.level", "debug")
	assert.Equal(t, "debug", GetString("tarottest_override.level"))
}
