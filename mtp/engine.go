package mtp

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"github.com/lanikai/sift/internal/logging"
)

var log = logging.DefaultLogger.WithTag("mtp")

// Engine owns the per-connection MTP state: sequence counters, role, and
// the keys installed by the login handshake. It is single-producer/
// single-consumer per direction; callers must not invoke Send or Receive
// concurrently from multiple goroutines.
type Engine struct {
	rw io.ReadWriter

	isClient *bool

	sqnSend    uint16
	sqnReceive uint16

	tempKey          []byte
	clientEncryptKey []byte
	serverEncryptKey []byte
}

// NewEngine returns an Engine that reads and writes MTP messages over rw.
// Role (client vs. server) is not yet known; SetTempKey sets it if it is
// still unset, and SetSessionKeys always sets it.
func NewEngine(rw io.ReadWriter) *Engine {
	return &Engine{rw: rw}
}

func (e *Engine) setRole(isClient bool) {
	if e.isClient == nil {
		e.isClient = &isClient
	}
}

// SetTempKey installs the 32-octet bootstrap key used for the two login
// messages.
func (e *Engine) SetTempKey(key []byte, isClient bool) error {
	if len(key) != KeySize {
		return errors.Wrapf(ErrConfigurationError, "temp key must be %d octets", KeySize)
	}
	e.tempKey = key
	e.setRole(isClient)
	return nil
}

// SetSessionKeys installs the two session encryption keys derived at the
// end of the login handshake and declares the connection's role.
func (e *Engine) SetSessionKeys(clientEncryptKey, serverEncryptKey []byte, isClient bool) error {
	if len(clientEncryptKey) != KeySize || len(serverEncryptKey) != KeySize {
		return errors.Wrapf(ErrConfigurationError, "session keys must be %d octets each", KeySize)
	}
	e.clientEncryptKey = clientEncryptKey
	e.serverEncryptKey = serverEncryptKey
	e.isClient = &isClient
	return nil
}

// ResetSequenceNumbers zeros both counters. Called once, by both peers,
// immediately after the login handshake completes.
func (e *Engine) ResetSequenceNumbers() {
	e.sqnSend = 0
	e.sqnReceive = 0
}

// ClearTempKey zeros and discards the bootstrap key; it is no longer used
// once session keys are installed.
func (e *Engine) ClearTempKey() {
	zero(e.tempKey)
	e.tempKey = nil
}

// SqnReceive returns the current receive counter. The login handshake
// validates an incoming sqn through CheckReceiveSqn instead.
func (e *Engine) SqnReceive() uint16 { return e.sqnReceive }

// IsClient reports the role declared by SetTempKey/SetSessionKeys.
func (e *Engine) IsClient() bool { return e.isClient != nil && *e.isClient }

// Direction returns the direction tag for a message being sent (sending =
// true) or having just been received (sending = false), based on role.
func (e *Engine) Direction(sending bool) (Direction, error) {
	if e.isClient == nil {
		return Direction{}, errors.Wrap(ErrConfigurationError, "role (is_client) not yet set")
	}
	client := *e.isClient
	switch {
	case client && sending, !client && !sending:
		return DirClientToServer, nil
	default:
		return DirServerToClient, nil
	}
}

func (e *Engine) encryptionKey(sending bool) ([]byte, error) {
	if e.isClient == nil {
		return nil, errors.Wrap(ErrConfigurationError, "role (is_client) not yet set")
	}
	client := *e.isClient
	var key []byte
	switch {
	case client && sending, !client && !sending:
		key = e.clientEncryptKey
	default:
		key = e.serverEncryptKey
	}
	if key == nil {
		return nil, errors.Wrap(ErrConfigurationError, "session keys not installed")
	}
	return key, nil
}

// Send encrypts and transmits a complete MTP message. etk must be exactly
// ETKSize octets for TypeLoginReq and nil otherwise.
func (e *Engine) Send(typ MessageType, payload []byte, etk []byte) error {
	var rnd [6]byte
	if _, err := rand.Read(rnd[:]); err != nil {
		return errors.Wrap(err, "mtp: drawing random nonce material")
	}
	var rsv [2]byte

	var key []byte
	var err error
	switch typ {
	case TypeLoginReq, TypeLoginRes:
		if e.tempKey == nil {
			return errors.Wrap(ErrConfigurationError, "temp key not set for login message")
		}
		key = e.tempKey
		if typ == TypeLoginReq && len(etk) != ETKSize {
			return errors.Wrapf(ErrConfigurationError, "login_req requires a %d-octet etk", ETKSize)
		}
	default:
		key, err = e.encryptionKey(true)
		if err != nil {
			return err
		}
	}

	dir, err := e.Direction(true)
	if err != nil {
		return err
	}

	msgLen := HeaderSize + len(payload) + MACSize
	if typ == TypeLoginReq {
		msgLen += ETKSize
	}

	hdr := Header{
		Ver: version,
		Typ: typ,
		Len: uint16(msgLen),
		Sqn: e.sqnSend,
		Rnd: rnd,
		Rsv: rsv,
	}
	hdrBytes := hdr.Marshal()

	ciphertext, tag, err := Seal(key, hdr.Sqn, hdr.Rnd, hdr.Rsv, dir, hdrBytes, payload)
	if err != nil {
		return errors.Wrap(err, "mtp: sealing message")
	}

	msg := make([]byte, 0, msgLen)
	msg = append(msg, hdrBytes...)
	msg = append(msg, ciphertext...)
	msg = append(msg, tag...)
	if typ == TypeLoginReq {
		msg = append(msg, etk...)
	}

	log.Debug("sending %s (%d octets, sqn=%d)", typ, msgLen, hdr.Sqn)

	if err := WriteAll(e.rw, msg); err != nil {
		return err
	}

	e.sqnSend++
	return nil
}

// Receive reads and decrypts a single non-login_req message. login_req is
// handled manually by the login handshake (see the login package) because
// the decryption key must first be recovered from the trailing ETK.
func (e *Engine) Receive() (MessageType, []byte, error) {
	hdrBytes, err := ReadExact(e.rw, HeaderSize)
	if err != nil {
		return 0, nil, errors.Wrap(err, "mtp: reading message header")
	}

	hdr, err := ParseHeader(hdrBytes)
	if err != nil {
		return 0, nil, err
	}
	if err := hdr.Validate(); err != nil {
		return 0, nil, err
	}

	bodyLen := int(hdr.Len) - HeaderSize
	epdLen := bodyLen - MACSize
	if epdLen < 0 {
		return 0, nil, errors.Wrap(ErrTransportError, "mtp: header length too short to hold a MAC")
	}

	ciphertext, err := ReadExact(e.rw, epdLen)
	if err != nil {
		return 0, nil, errors.Wrap(err, "mtp: reading encrypted payload")
	}
	tag, err := ReadExact(e.rw, MACSize)
	if err != nil {
		return 0, nil, errors.Wrap(err, "mtp: reading MAC")
	}

	if hdr.Sqn != e.sqnReceive {
		return 0, nil, errors.Wrapf(ErrSequenceMismatch, "expected %d, got %d", e.sqnReceive, hdr.Sqn)
	}

	var key []byte
	if hdr.Typ == TypeLoginRes {
		if e.tempKey == nil {
			return 0, nil, errors.Wrap(ErrConfigurationError, "temp key not set for login_res")
		}
		key = e.tempKey
	} else {
		key, err = e.encryptionKey(false)
		if err != nil {
			return 0, nil, err
		}
	}

	dir, err := e.Direction(false)
	if err != nil {
		return 0, nil, err
	}

	plaintext, err := Open(key, hdr.Sqn, hdr.Rnd, hdr.Rsv, dir, hdrBytes, ciphertext, tag)
	if err != nil {
		return 0, nil, err
	}

	e.sqnReceive++
	log.Debug("received %s (%d octets, sqn=%d)", hdr.Typ, hdr.Len, hdr.Sqn)

	return hdr.Typ, plaintext, nil
}

// ReadWriter exposes the underlying transport for the login handshake,
// which must read the login_req header and body manually.
func (e *Engine) ReadWriter() io.ReadWriter { return e.rw }

// CheckReceiveSqn compares sqn against the current receive counter without
// advancing it. Used by the server-side login handshake, which must
// validate sqn itself before the engine's ordinary Receive path can run
// (the decryption key isn't known until the ETK has been unwrapped), and
// must only advance the counter once the AEAD open that follows succeeds.
func (e *Engine) CheckReceiveSqn(sqn uint16) error {
	if sqn != e.sqnReceive {
		return errors.Wrapf(ErrSequenceMismatch, "expected %d, got %d", e.sqnReceive, sqn)
	}
	return nil
}

// AdvanceReceive increments the receive counter. Called by the login
// handshake after a login_req has been successfully opened.
func (e *Engine) AdvanceReceive() {
	e.sqnReceive++
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
