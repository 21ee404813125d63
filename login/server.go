package login

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"

	"github.com/pkg/errors"

	"github.com/lanikai/sift/kdf"
	"github.com/lanikai/sift/mtp"
)

// ServerResult holds what the server's handshake produced.
type ServerResult struct {
	Username    string
	Rootdir     string
	SessionKeys kdf.SessionKeys
}

// RunServer executes the server side of the login exchange over engine,
// reading the client's login_req by hand (the decryption key lives inside
// its trailing ETK, so the engine's ordinary Receive path cannot be used
// for it), authenticating against users, and replying with login_res.
// Size, OAEP, unknown-user and wrong-password failures all return
// ErrHandshakeFailed, with the cause only in the wrapped message for
// server-side logs; header, sequence, AEAD, wrong-type and transport
// failures return the corresponding mtp or login error. No login_res is
// sent on any failure.
func RunServer(engine *mtp.Engine, serverPrivateKey *rsa.PrivateKey, users UserStore) (ServerResult, error) {
	rw := engine.ReadWriter()

	// --- Waiting ---
	hdrBytes, err := mtp.ReadExact(rw, mtp.HeaderSize)
	if err != nil {
		return ServerResult{}, errors.Wrap(err, "login: reading login_req header")
	}
	hdr, err := mtp.ParseHeader(hdrBytes)
	if err != nil {
		return ServerResult{}, err
	}
	if err := hdr.Validate(); err != nil {
		return ServerResult{}, err
	}
	if hdr.Typ != mtp.TypeLoginReq {
		return ServerResult{}, errors.Wrapf(ErrProtocolError, "expected login_req, got %s", hdr.Typ)
	}

	bodyLen := int(hdr.Len) - mtp.HeaderSize
	epdLen := bodyLen - mtp.MACSize - mtp.ETKSize
	if epdLen < 0 {
		return ServerResult{}, errors.Wrap(ErrHandshakeFailed, "login: login_req too short to hold a MAC and ETK")
	}

	ciphertext, err := mtp.ReadExact(rw, epdLen)
	if err != nil {
		return ServerResult{}, errors.Wrap(err, "login: reading login_req encrypted payload")
	}
	tag, err := mtp.ReadExact(rw, mtp.MACSize)
	if err != nil {
		return ServerResult{}, errors.Wrap(err, "login: reading login_req MAC")
	}
	etk, err := mtp.ReadExact(rw, mtp.ETKSize)
	if err != nil {
		return ServerResult{}, errors.Wrap(err, "login: reading etk")
	}

	tempKey, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, serverPrivateKey, etk, nil)
	if err != nil || len(tempKey) != sizeTempKey {
		return ServerResult{}, errors.Wrap(ErrHandshakeFailed, "login: failed to recover temp_key from etk")
	}
	if err := engine.SetTempKey(tempKey, false); err != nil {
		return ServerResult{}, err
	}

	if err := engine.CheckReceiveSqn(hdr.Sqn); err != nil {
		return ServerResult{}, err
	}

	dir, err := engine.Direction(false)
	if err != nil {
		return ServerResult{}, err
	}
	payload, err := mtp.Open(tempKey, hdr.Sqn, hdr.Rnd, hdr.Rsv, dir, hdrBytes, ciphertext, tag)
	if err != nil {
		return ServerResult{}, err
	}
	engine.AdvanceReceive()

	requestHash := sha256.Sum256(payload)

	req, err := parseLoginReq(payload)
	if err != nil {
		return ServerResult{}, errors.Wrap(ErrHandshakeFailed, err.Error())
	}
	if len(req.clientRandom) != sizeRandom {
		return ServerResult{}, errors.Wrap(ErrHandshakeFailed, "login: client_random has wrong size")
	}

	record, ok := users.Lookup(req.username)
	if !ok {
		return ServerResult{}, errors.Wrap(ErrHandshakeFailed, "login: unknown user")
	}
	if !kdf.VerifyPassword(req.password, record.Salt, record.Iterations, record.PasswordHash) {
		return ServerResult{}, errors.Wrap(ErrHandshakeFailed, "login: bad password")
	}

	serverRandom := make([]byte, sizeRandom)
	if _, err := rand.Read(serverRandom); err != nil {
		return ServerResult{}, errors.Wrap(err, "login: drawing server_random")
	}

	sessionKeys, err := kdf.DeriveSessionKeys(req.clientRandom, serverRandom)
	if err != nil {
		return ServerResult{}, errors.Wrap(err, "login: deriving session keys")
	}
	if err := engine.SetSessionKeys(sessionKeys.ClientEncryptKey, sessionKeys.ServerEncryptKey, false); err != nil {
		return ServerResult{}, err
	}

	resPayload := buildLoginRes(requestHash[:], serverRandom)
	if err := engine.Send(mtp.TypeLoginRes, resPayload, nil); err != nil {
		return ServerResult{}, errors.Wrap(err, "login: sending login_res")
	}

	engine.ResetSequenceNumbers()
	engine.ClearTempKey()

	return ServerResult{
		Username:    req.username,
		Rootdir:     record.Rootdir,
		SessionKeys: sessionKeys,
	}, nil
}
