package login

// UserRecord is what the server's credential store yields for a username:
// the PBKDF2 verifier, the salt and iteration count it was computed with,
// and the root directory the upper (out-of-scope) file sub-protocols scope
// that user to.
type UserRecord struct {
	PasswordHash []byte
	Salt         []byte
	Iterations   int
	Rootdir      string
}

// UserStore answers "given a username, yield a password-verifier record",
// the external collaborator contract spec.md §1 assigns to the
// credentials store. userstore.Store implements this interface.
type UserStore interface {
	Lookup(username string) (UserRecord, bool)
}
