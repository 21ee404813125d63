package mtp

import "errors"

// Sentinel errors corresponding to the MTP error taxonomy. Call sites wrap
// these with github.com/pkg/errors or golang.org/x/xerrors to add context;
// errors.Is still matches the sentinel through either wrapper.
var (
	// ErrTransportClosed indicates the peer closed the connection mid-read.
	ErrTransportClosed = errors.New("mtp: connection closed by peer")

	// ErrTransportError indicates any other I/O failure on the underlying
	// byte stream.
	ErrTransportError = errors.New("mtp: transport error")

	// ErrUnsupportedVersion indicates a header whose ver field is not 0x0100.
	ErrUnsupportedVersion = errors.New("mtp: unsupported header version")

	// ErrUnknownType indicates a header whose typ field is not one of the
	// ten enumerated message types.
	ErrUnknownType = errors.New("mtp: unknown message type")

	// ErrSequenceMismatch indicates a received sqn that does not equal the
	// expected sqn_receive counter.
	ErrSequenceMismatch = errors.New("mtp: sequence number mismatch")

	// ErrAuthFailed indicates an AEAD tag that failed to verify.
	ErrAuthFailed = errors.New("mtp: authentication failed")

	// ErrConfigurationError indicates a call made before the engine has the
	// key or role it needs (a programming error, never a fact about the wire).
	ErrConfigurationError = errors.New("mtp: configuration error")
)
