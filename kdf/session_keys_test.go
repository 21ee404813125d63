package kdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSessionKeysIsDeterministic(t *testing.T) {
	clientRandom := bytes.Repeat([]byte{0x00}, 16)
	serverRandom := bytes.Repeat([]byte{0xff}, 16)

	a, err := DeriveSessionKeys(clientRandom, serverRandom)
	assert.NoError(t, err)
	b, err := DeriveSessionKeys(clientRandom, serverRandom)
	assert.NoError(t, err)

	assert.Equal(t, a.ClientEncryptKey, b.ClientEncryptKey)
	assert.Equal(t, a.ServerEncryptKey, b.ServerEncryptKey)
	assert.Equal(t, a.ClientMACKey, b.ClientMACKey)
	assert.Equal(t, a.ServerMACKey, b.ServerMACKey)

	assert.Len(t, a.ClientEncryptKey, KeySize)
	assert.Len(t, a.ServerEncryptKey, KeySize)
}

func TestDeriveSessionKeysAllFourKeysDistinct(t *testing.T) {
	clientRandom := bytes.Repeat([]byte{0x00}, 16)
	serverRandom := bytes.Repeat([]byte{0xff}, 16)

	keys, err := DeriveSessionKeys(clientRandom, serverRandom)
	assert.NoError(t, err)

	all := [][]byte{keys.ClientEncryptKey, keys.ClientMACKey, keys.ServerEncryptKey, keys.ServerMACKey}
	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			assert.NotEqual(t, all[i], all[j])
		}
	}
}

func TestDeriveSessionKeysDiffersByRandom(t *testing.T) {
	a, err := DeriveSessionKeys(bytes.Repeat([]byte{0x00}, 16), bytes.Repeat([]byte{0xff}, 16))
	assert.NoError(t, err)
	b, err := DeriveSessionKeys(bytes.Repeat([]byte{0x01}, 16), bytes.Repeat([]byte{0xff}, 16))
	assert.NoError(t, err)

	assert.NotEqual(t, a.ClientEncryptKey, b.ClientEncryptKey)
}

func TestSessionKeysZero(t *testing.T) {
	keys, err := DeriveSessionKeys(bytes.Repeat([]byte{0x00}, 16), bytes.Repeat([]byte{0xff}, 16))
	assert.NoError(t, err)

	keys.Zero()
	assert.Equal(t, make([]byte, KeySize), keys.ClientEncryptKey)
	assert.Equal(t, make([]byte, KeySize), keys.ServerMACKey)
}
