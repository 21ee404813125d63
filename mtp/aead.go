package mtp

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	"github.com/pkg/errors"
)

// NonceSize is the size, in octets, of the AES-GCM nonce built for every
// message: sqn (2) || rnd (6) || rsv (2) || direction (2).
const NonceSize = 12

// KeySize is the expected size, in octets, of every AES-256-GCM key used by
// this package (session keys and the login temporary key alike).
const KeySize = 32

// Direction discriminates client->server traffic from server->client
// traffic for nonce construction; it is folded into the AEAD nonce so that
// the same (sqn, rnd, rsv) tuple observed on both directions of a
// connection never collides.
type Direction [2]byte

var (
	DirClientToServer = Direction{0x00, 0x00}
	DirServerToClient = Direction{0x00, 0x01}
)

func buildNonce(sqn uint16, rnd [6]byte, rsv [2]byte, dir Direction) []byte {
	nonce := make([]byte, NonceSize)
	binary.BigEndian.PutUint16(nonce[0:2], sqn)
	copy(nonce[2:8], rnd[:])
	copy(nonce[8:10], rsv[:])
	copy(nonce[10:12], dir[:])
	return nonce
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, errors.Errorf("mtp: key must be %d octets, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "mtp: building AES block cipher")
	}
	gcm, err := cipher.NewGCMWithTagSize(block, MACSize)
	if err != nil {
		return nil, errors.Wrap(err, "mtp: building AES-GCM AEAD")
	}
	return gcm, nil
}

// Seal encrypts plaintext under key, using header as associated data and a
// nonce built from sqn, rnd, rsv and dir. It returns the ciphertext and the
// 12-octet authentication tag separately, matching the wire layout.
func Seal(key []byte, sqn uint16, rnd [6]byte, rsv [2]byte, dir Direction, header []byte, plaintext []byte) (ciphertext, tag []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce := buildNonce(sqn, rnd, rsv, dir)
	sealed := gcm.Seal(nil, nonce, plaintext, header)
	split := len(sealed) - MACSize
	ciphertext = sealed[:split]
	tag = sealed[split:]
	return ciphertext, tag, nil
}

// Open verifies tag and decrypts ciphertext under key, using header as
// associated data and the same nonce construction as Seal. It returns
// ErrAuthFailed (wrapped) if the tag does not verify.
func Open(key []byte, sqn uint16, rnd [6]byte, rsv [2]byte, dir Direction, header []byte, ciphertext, tag []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := buildNonce(sqn, rnd, rsv, dir)
	sealed := append(append([]byte{}, ciphertext...), tag...)
	plaintext, err := gcm.Open(nil, nonce, sealed, header)
	if err != nil {
		return nil, errors.Wrap(ErrAuthFailed, err.Error())
	}
	return plaintext, nil
}
