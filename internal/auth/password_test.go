package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	restore := BcryptCost
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = restore })

	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.True(t, CheckPassword(hash, "secret1"))
	require.False(t, CheckPassword(hash, "secret2"))
	require.False(t, CheckPassword("", "secret1"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	restore := BcryptCost
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = restore })

	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestCheckPasswordAgainstDummy(t *testing.T) {
	require.False(t, CheckPasswordAgainstDummy("anything"))
	require.False(t, CheckPasswordAgainstDummy("meuseventos-timing-equalizer"))
}
