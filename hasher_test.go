package credentials_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		salt := "0123456789abcdef0123456789abcdef"
		first := credentials.HashPassword("password1", salt)
		second := credentials.HashPassword("password1", salt)

		assert.Equal(t, first, second)
		assert.Len(t, first, 64)
	})

	t.Run("matches HMAC-SHA256 keyed by the salt", func(t *testing.T) {
		// RFC 4231 test case 2
		digest := credentials.HashPassword("what do ya want for nothing?", "Jefe")
		assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", digest)
	})

	t.Run("changing either input changes the digest", func(t *testing.T) {
		digests := map[string]string{}
		for i := 0; i < 50; i++ {
			for j := 0; j < 10; j++ {
				key := fmt.Sprintf("password-%d|salt-%d", i, j)
				digest := credentials.HashPassword(fmt.Sprintf("password-%d", i), fmt.Sprintf("salt-%d", j))
				prev, exists := digests[digest]
				require.False(t, exists, "collision between %s and %s", key, prev)
				digests[digest] = key
			}
		}
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	salt, err := credentials.NewSalt()
	require.NoError(t, err)
	digest := credentials.HashPassword("testPassword123!", salt)

	tests := []struct {
		name     string
		password string
		salt     string
		digest   string
		wantErr  bool
	}{
		{
			name:     "Matching password",
			password: "testPassword123!",
			salt:     salt,
			digest:   digest,
		},
		{
			name:     "Wrong password",
			password: "testPassword123?",
			salt:     salt,
			digest:   digest,
			wantErr:  true,
		},
		{
			name:     "Wrong salt",
			password: "testPassword123!",
			salt:     salt + "0",
			digest:   digest,
			wantErr:  true,
		},
		{
			name:     "Empty digest",
			password: "testPassword123!",
			salt:     salt,
			digest:   "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := credentials.ComparePasswordAndHash(tt.password, tt.salt, tt.digest)
			if tt.wantErr {
				assertIsError(t, err, credentials.ErrMismatchedHashAndPassword)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewSalt(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		salt, err := credentials.NewSalt()
		require.NoError(t, err)

		raw, err := hex.DecodeString(salt)
		require.NoError(t, err)
		assert.Len(t, raw, credentials.SaltSize)

		assert.False(t, seen[salt], "salt repeated")
		seen[salt] = true
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestHMACHasher_NewSalt(t *testing.T) {
	t.Run("uses the configured reader", func(t *testing.T) {
		hasher := credentials.NewHMACHasherWithReader(bytes.NewReader(bytes.Repeat([]byte{0xab}, credentials.SaltSize)))
		salt, err := hasher.NewSalt()
		require.NoError(t, err)
		assert.Equal(t, "abababababababababababababababab", salt)
	})

	t.Run("fails when the random source is unavailable", func(t *testing.T) {
		hasher := credentials.NewHMACHasherWithReader(failingReader{})
		_, err := hasher.NewSalt()
		assertIsError(t, err, credentials.ErrRandomSourceUnavailable)
	})
}
