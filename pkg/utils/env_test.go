package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	t.Setenv("EEDX_TEST_STR", "set")
	assert.Equal(t, "set", Env("EEDX_TEST_STR", "def"))
	assert.Equal(t, "def", Env("EEDX_TEST_UNSET", "def"))

	t.Setenv("EEDX_TEST_EMPTY", "")
	assert.Equal(t, "def", Env("EEDX_TEST_EMPTY", "def"))
}

func TestEnvInt(t *testing.T) {
	t.Setenv("EEDX_TEST_INT", "42")
	assert.Equal(t, 42, EnvInt("EEDX_TEST_INT", 7))

	t.Setenv("EEDX_TEST_INT", "not a number")
	assert.Equal(t, 7, EnvInt("EEDX_TEST_INT", 7))

	t.Setenv("EEDX_TEST_INT", "-3")
	assert.Equal(t, 7, EnvInt("EEDX_TEST_INT", 7))

	assert.Equal(t, 7, EnvInt("EEDX_TEST_INT_UNSET", 7))
}

func TestEnvBool(t *testing.T) {
	t.Setenv("EEDX_TEST_BOOL", "true")
	assert.True(t, EnvBool("EEDX_TEST_BOOL", false))

	t.Setenv("EEDX_TEST_BOOL", "0")
	assert.False(t, EnvBool("EEDX_TEST_BOOL", true))

	assert.True(t, EnvBool("EEDX_TEST_BOOL_UNSET", true))
	assert.False(t, EnvBool("EEDX_TEST_BOOL_UNSET", false))
}
