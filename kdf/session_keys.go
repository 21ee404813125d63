// Package kdf implements the key derivation and password verification
// primitives used to bootstrap an MTP session: HKDF-SHA256 for the four
// session keys derived at the end of the login handshake, and
// PBKDF2-HMAC-SHA256 for verifying a submitted password against a stored
// verifier.
package kdf

import (
	"crypto/sha256"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the size, in octets, of each derived session key.
const KeySize = 32

// Context labels fixed by the protocol; each selects one of the four
// session keys derived from the same master secret.
const (
	labelClientEncryptKey = "client_encryption_key"
	labelClientMACKey     = "client_MAC_key"
	labelServerEncryptKey = "server_encryption_key"
	labelServerMACKey     = "server_MAC_key"
)

// SessionKeys holds the four keys derived from a completed login exchange.
// Only ClientEncryptKey and ServerEncryptKey are ever used to seal or open
// an MTP message; ClientMACKey and ServerMACKey are computed for
// interoperability with the reference protocol and are not otherwise
// consumed (see spec's open question on this point).
type SessionKeys struct {
	ClientEncryptKey []byte
	ClientMACKey     []byte
	ServerEncryptKey []byte
	ServerMACKey     []byte
}

// Zero overwrites all four keys in place.
func (k *SessionKeys) Zero() {
	zero(k.ClientEncryptKey)
	zero(k.ClientMACKey)
	zero(k.ServerEncryptKey)
	zero(k.ServerMACKey)
}

// DeriveSessionKeys runs HKDF-SHA256 four times over the concatenation of
// clientRandom and serverRandom (the master secret), once per context
// label, with no salt and a 32-octet output per key.
func DeriveSessionKeys(clientRandom, serverRandom []byte) (SessionKeys, error) {
	masterSecret := append(append([]byte{}, clientRandom...), serverRandom...)

	derive := func(label string) ([]byte, error) {
		r := hkdf.New(sha256.New, masterSecret, nil, []byte(label))
		key := make([]byte, KeySize)
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, errors.Wrapf(err, "kdf: deriving key for %q", label)
		}
		return key, nil
	}

	clientEncryptKey, err := derive(labelClientEncryptKey)
	if err != nil {
		return SessionKeys{}, err
	}
	clientMACKey, err := derive(labelClientMACKey)
	if err != nil {
		return SessionKeys{}, err
	}
	serverEncryptKey, err := derive(labelServerEncryptKey)
	if err != nil {
		return SessionKeys{}, err
	}
	serverMACKey, err := derive(labelServerMACKey)
	if err != nil {
		return SessionKeys{}, err
	}

	return SessionKeys{
		ClientEncryptKey: clientEncryptKey,
		ClientMACKey:     clientMACKey,
		ServerEncryptKey: serverEncryptKey,
		ServerMACKey:     serverMACKey,
	}, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
