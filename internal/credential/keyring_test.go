package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookie_EnvironmentWins(t *testing.T) {
	t.Setenv(SessionCookieEnv, "from-env")

	v, err := SessionCookie()
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
}
