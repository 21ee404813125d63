package login

import "errors"

// ErrProtocolError indicates a message of the wrong type arrived where the
// handshake expected a specific one (e.g. anything but login_res after the
// client sends login_req).
var ErrProtocolError = errors.New("login: unexpected message type")

// ErrHandshakeFailed is returned for every login-time validation failure:
// bad field sizes, OAEP failure, unknown username, or wrong password. Per
// spec §7, the server must not let the client distinguish among these
// causes; the wrapped detail is for server-side logs only and is never
// echoed to the peer (no login_res is sent before the connection closes).
var ErrHandshakeFailed = errors.New("login: handshake failed")
