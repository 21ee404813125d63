package userstore

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeStoreFile(t *testing.T, contents string) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "userstore-test")
	assert.NoError(t, err)
	path := filepath.Join(dir, "users.txt")
	assert.NoError(t, ioutil.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadParsesValidRecords(t *testing.T) {
	path := writeStoreFile(t, "alice:deadbeef:100000:000102030405060708090a0b0c0d0e0f:/users/alice\n\nbob:cafef00d:50000:ff:/users/bob\n")
	defer os.RemoveAll(filepath.Dir(path))

	store, err := Load(path)
	assert.NoError(t, err)

	rec, ok := store.Lookup("alice")
	assert.True(t, ok)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, rec.PasswordHash)
	assert.Equal(t, 100000, rec.Iterations)
	assert.Equal(t, "/users/alice", rec.Rootdir)
	assert.Len(t, rec.Salt, 16)

	_, ok = store.Lookup("nobody")
	assert.False(t, ok)
}

func TestLoadRejectsWrongFieldCount(t *testing.T) {
	path := writeStoreFile(t, "alice:deadbeef:100000:00\n")
	defer os.RemoveAll(filepath.Dir(path))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadHex(t *testing.T) {
	path := writeStoreFile(t, "alice:not-hex:100000:00:/users/alice\n")
	defer os.RemoveAll(filepath.Dir(path))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadIterationCount(t *testing.T) {
	path := writeStoreFile(t, "alice:deadbeef:notanumber:00:/users/alice\n")
	defer os.RemoveAll(filepath.Dir(path))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "userstore-test")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = Load(filepath.Join(dir, "nope.txt"))
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	path := writeStoreFile(t, "alice:deadbeef:100000:00:/users/alice\n")
	defer os.RemoveAll(filepath.Dir(path))

	store, err := Load(path)
	assert.NoError(t, err)

	assert.NoError(t, ioutil.WriteFile(path, []byte("alice:deadbeef:100000:00:/users/alice\nbob:cafef00d:50000:00:/users/bob\n"), 0600))
	assert.NoError(t, store.Reload())

	_, ok := store.Lookup("bob")
	assert.True(t, ok)
}
