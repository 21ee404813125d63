package login

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

const fieldDelimiter = "\n"

// sizeRandom is the size, in octets, of both client_random and
// server_random.
const sizeRandom = 16

// loginReq is the parsed form of a login_req payload: three '\n'-delimited
// UTF-8 fields, username, password, and the client's random nonce rendered
// as lowercase hex.
type loginReq struct {
	username     string
	password     string
	clientRandom []byte
}

func buildLoginReq(username, password string, clientRandom []byte) []byte {
	fields := []string{username, password, hex.EncodeToString(clientRandom)}
	return []byte(strings.Join(fields, fieldDelimiter))
}

func parseLoginReq(payload []byte) (loginReq, error) {
	fields := strings.Split(string(payload), fieldDelimiter)
	if len(fields) != 3 {
		return loginReq{}, errors.Errorf("login: login_req must have 3 fields, got %d", len(fields))
	}
	clientRandom, err := hex.DecodeString(fields[2])
	if err != nil {
		return loginReq{}, errors.Wrap(err, "login: decoding client_random")
	}
	return loginReq{
		username:     fields[0],
		password:     fields[1],
		clientRandom: clientRandom,
	}, nil
}

// loginRes is the parsed form of a login_res payload: two '\n'-delimited
// hex fields, the SHA-256 hash of the plaintext login_req payload and the
// server's random nonce.
type loginRes struct {
	requestHash  []byte
	serverRandom []byte
}

func buildLoginRes(requestHash, serverRandom []byte) []byte {
	fields := []string{hex.EncodeToString(requestHash), hex.EncodeToString(serverRandom)}
	return []byte(strings.Join(fields, fieldDelimiter))
}

func parseLoginRes(payload []byte) (loginRes, error) {
	fields := strings.Split(string(payload), fieldDelimiter)
	if len(fields) != 2 {
		return loginRes{}, errors.Errorf("login: login_res must have 2 fields, got %d", len(fields))
	}
	requestHash, err := hex.DecodeString(fields[0])
	if err != nil {
		return loginRes{}, errors.Wrap(err, "login: decoding request_hash")
	}
	serverRandom, err := hex.DecodeString(fields[1])
	if err != nil {
		return loginRes{}, errors.Wrap(err, "login: decoding server_random")
	}
	return loginRes{
		requestHash:  requestHash,
		serverRandom: serverRandom,
	}, nil
}
