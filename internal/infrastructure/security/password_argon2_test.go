package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
)

func testHashParams() config.PasswordHashConfig {
	// Deliberately small parameters to keep the test fast.
	return config.PasswordHashConfig{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewArgon2idHasher(testHashParams())
	require.NoError(t, err)

	hash, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	match, err := hasher.Verify("Sup3r$ecret", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashesAreSalted(t *testing.T) {
	hasher, err := NewArgon2idHasher(testHashParams())
	require.NoError(t, err)

	first, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	second, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyUsesParametersFromStoredHash(t *testing.T) {
	origin, err := NewArgon2idHasher(testHashParams())
	require.NoError(t, err)
	hash, err := origin.Hash("Sup3r$ecret")
	require.NoError(t, err)

	// A hasher configured with different parameters still verifies hashes
	// produced under the old ones.
	upgraded, err := NewArgon2idHasher(config.PasswordHashConfig{
		Memory:      16 * 1024,
		Iterations:  2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	})
	require.NoError(t, err)

	match, err := upgraded.Verify("Sup3r$ecret", hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	hasher, err := NewArgon2idHasher(testHashParams())
	require.NoError(t, err)

	_, err = hasher.Verify("password", "not-a-phc-string")
	assert.Error(t, err)
}

func TestNewHasherRequiresParameters(t *testing.T) {
	_, err := NewArgon2idHasher(config.PasswordHashConfig{})
	assert.Error(t, err)
}
