package rsakeys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTestKeyPair(t *testing.T, dir string) (privPath, pubPath string, key *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, KeyBits)
	assert.NoError(t, err)

	privPath = filepath.Join(dir, "private.pem")
	pubPath = filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	assert.NoError(t, ioutil.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	assert.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	assert.NoError(t, ioutil.WriteFile(pubPath, pubPEM, 0644))

	return privPath, pubPath, key
}

func TestLoadPrivateKeyPKCS1(t *testing.T) {
	dir, err := ioutil.TempDir("", "rsakeys-test")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	privPath, _, key := writeTestKeyPair(t, dir)

	got, err := LoadPrivateKey(privPath)
	assert.NoError(t, err)
	assert.Equal(t, key.N, got.N)
}

func TestLoadPublicKey(t *testing.T) {
	dir, err := ioutil.TempDir("", "rsakeys-test")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	_, pubPath, key := writeTestKeyPair(t, dir)

	got, err := LoadPublicKey(pubPath)
	assert.NoError(t, err)
	assert.Equal(t, key.PublicKey.N, got.N)
}

func TestLoadPrivateKeyMissingFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "rsakeys-test")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = LoadPrivateKey(filepath.Join(dir, "nope.pem"))
	assert.Error(t, err)
}

func TestLoadPrivateKeyRejectsWrongSize(t *testing.T) {
	dir, err := ioutil.TempDir("", "rsakeys-test")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	assert.NoError(t, err)

	path := filepath.Join(dir, "small.pem")
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	assert.NoError(t, ioutil.WriteFile(path, privPEM, 0600))

	_, err = LoadPrivateKey(path)
	assert.Error(t, err)
}

func TestLoadPrivateKeyRejectsNonPEM(t *testing.T) {
	dir, err := ioutil.TempDir("", "rsakeys-test")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "garbage.pem")
	assert.NoError(t, ioutil.WriteFile(path, []byte("not pem data"), 0600))

	_, err = LoadPrivateKey(path)
	assert.Error(t, err)
}
