// Package rsakeys loads the PEM-encoded RSA-2048 key pair used to bootstrap
// an MTP session: the server reads its private key at startup, the client
// reads the server's public key out-of-band. Adapted from the teacher's own
// bin/generate_cert.go PEM/x509 idiom, retargeted from an EC certificate to
// a raw RSA key pair (no certificates; see spec's Non-goals).
package rsakeys

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"

	"github.com/pkg/errors"
)

// KeyBits is the RSA modulus size this protocol requires.
const KeyBits = 2048

// LoadPrivateKey reads a PEM-encoded PKCS#1 or PKCS#8 RSA private key from
// path. A missing file is a fatal, descriptive error, per spec §6.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "rsakeys: reading private key file %q", path)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.Errorf("rsakeys: %q does not contain PEM data", path)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return validatePrivateKey(key)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "rsakeys: parsing private key in %q", path)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.Errorf("rsakeys: %q does not contain an RSA private key", path)
	}
	return validatePrivateKey(rsaKey)
}

// LoadPublicKey reads a PEM-encoded PKIX RSA public key from path.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "rsakeys: reading public key file %q", path)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.Errorf("rsakeys: %q does not contain PEM data", path)
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "rsakeys: parsing public key in %q", path)
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Errorf("rsakeys: %q does not contain an RSA public key", path)
	}
	return rsaKey, nil
}

func validatePrivateKey(key *rsa.PrivateKey) (*rsa.PrivateKey, error) {
	if key.N.BitLen() != KeyBits {
		return nil, errors.Errorf("rsakeys: expected a %d-bit key, got %d", KeyBits, key.N.BitLen())
	}
	return key, nil
}
