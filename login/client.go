package login

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/pkg/errors"

	"github.com/lanikai/sift/kdf"
	"github.com/lanikai/sift/mtp"
)

const sizeTempKey = mtp.KeySize

// ClientResult holds what the client's handshake produced: the derived
// session keys, already installed into the engine, plus the MAC keys kept
// around only because the protocol computes them (spec's open question;
// they are never used for anything).
type ClientResult struct {
	SessionKeys kdf.SessionKeys
}

// RunClient executes the client side of the one-round-trip login exchange
// over engine, authenticating as username/password to the holder of
// serverPublicKey. On success, engine has session keys installed, both
// sequence counters reset to zero, and the temp key cleared.
func RunClient(engine *mtp.Engine, serverPublicKey *rsa.PublicKey, username, password string) (ClientResult, error) {
	// --- Init ---
	tempKey := make([]byte, sizeTempKey)
	if _, err := rand.Read(tempKey); err != nil {
		return ClientResult{}, errors.Wrap(err, "login: drawing temp_key")
	}
	if err := engine.SetTempKey(tempKey, true); err != nil {
		return ClientResult{}, err
	}

	clientRandom := make([]byte, sizeRandom)
	if _, err := rand.Read(clientRandom); err != nil {
		return ClientResult{}, errors.Wrap(err, "login: drawing client_random")
	}

	etk, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, serverPublicKey, tempKey, nil)
	if err != nil {
		return ClientResult{}, errors.Wrap(err, "login: encrypting temp_key under server public key")
	}
	if len(etk) != mtp.ETKSize {
		return ClientResult{}, errors.Errorf("login: unexpected etk size %d", len(etk))
	}

	payload := buildLoginReq(username, password, clientRandom)
	requestHash := sha256.Sum256(payload)

	if err := engine.Send(mtp.TypeLoginReq, payload, etk); err != nil {
		return ClientResult{}, errors.Wrap(err, "login: sending login_req")
	}

	// --- Sent ---
	typ, resPayload, err := engine.Receive()
	if err != nil {
		return ClientResult{}, errors.Wrap(err, "login: receiving login_res")
	}
	if typ != mtp.TypeLoginRes {
		return ClientResult{}, errors.Wrapf(ErrProtocolError, "expected login_res, got %s", typ)
	}

	res, err := parseLoginRes(resPayload)
	if err != nil {
		return ClientResult{}, errors.Wrap(ErrHandshakeFailed, err.Error())
	}

	if subtle.ConstantTimeCompare(res.requestHash, requestHash[:]) != 1 {
		return ClientResult{}, errors.Wrap(ErrHandshakeFailed, "login: request_hash mismatch in login_res")
	}
	if len(res.serverRandom) != sizeRandom {
		return ClientResult{}, errors.Wrap(ErrHandshakeFailed, "login: server_random has wrong size")
	}

	// --- Verified ---
	sessionKeys, err := kdf.DeriveSessionKeys(clientRandom, res.serverRandom)
	if err != nil {
		return ClientResult{}, errors.Wrap(err, "login: deriving session keys")
	}
	if err := engine.SetSessionKeys(sessionKeys.ClientEncryptKey, sessionKeys.ServerEncryptKey, true); err != nil {
		return ClientResult{}, err
	}
	engine.ResetSequenceNumbers()
	engine.ClearTempKey()

	return ClientResult{SessionKeys: sessionKeys}, nil
}
