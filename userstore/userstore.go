// Package userstore loads the flat-file credential store described in
// spec.md §6: one record per line, fields separated by ':' in the order
// username:pwdhash_hex:iteration_count:salt_hex:rootdir, blank lines
// ignored, UTF-8. It is the external "credentials store" collaborator the
// login handshake consults through login.UserStore.
//
// Grounded on the original Python reference's Server.load_users and the
// teacher's colon/field-delimited parsing idiom used throughout
// internal/ice for candidate strings.
package userstore

import (
	"bufio"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/xerrors"

	"github.com/lanikai/sift/login"
)

const fieldDelimiter = ":"

// Store is a read-only, in-memory view of a user store file. The zero
// value is not usable; construct one with Load.
type Store struct {
	path string

	mu    sync.RWMutex
	users map[string]login.UserRecord
}

// Load reads and parses the user store file at path.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the store file from disk, replacing the in-memory table.
// Reloading semantics are unspecified by spec.md (the reference reloads
// per connection); this implementation caches and leaves reloading to the
// caller, e.g. on SIGHUP.
func (s *Store) Reload() error {
	f, err := os.Open(s.path)
	if err != nil {
		return xerrors.Errorf("userstore: opening %q: %w", s.path, err)
	}
	defer f.Close()

	users := make(map[string]login.UserRecord)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, fieldDelimiter)
		if len(fields) != 5 {
			return errors.Errorf("userstore: %s:%d: expected 5 fields, got %d", s.path, lineNo, len(fields))
		}

		username := fields[0]
		pwdhash, err := hex.DecodeString(fields[1])
		if err != nil {
			return errors.Wrapf(err, "userstore: %s:%d: decoding pwdhash", s.path, lineNo)
		}
		iterations, err := strconv.Atoi(fields[2])
		if err != nil {
			return errors.Wrapf(err, "userstore: %s:%d: parsing iteration_count", s.path, lineNo)
		}
		salt, err := hex.DecodeString(fields[3])
		if err != nil {
			return errors.Wrapf(err, "userstore: %s:%d: decoding salt", s.path, lineNo)
		}
		rootdir := fields[4]

		users[username] = login.UserRecord{
			PasswordHash: pwdhash,
			Salt:         salt,
			Iterations:   iterations,
			Rootdir:      rootdir,
		}
	}
	if err := scanner.Err(); err != nil {
		return xerrors.Errorf("userstore: reading %q: %w", s.path, err)
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()

	return nil
}

// Lookup implements login.UserStore.
func (s *Store) Lookup(username string) (login.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[username]
	return rec, ok
}
