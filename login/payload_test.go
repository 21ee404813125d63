package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginReqRoundTrip(t *testing.T) {
	clientRandom := make([]byte, sizeRandom)
	for i := range clientRandom {
		clientRandom[i] = byte(i)
	}

	payload := buildLoginReq("alice", "pw", clientRandom)
	req, err := parseLoginReq(payload)
	assert.NoError(t, err)
	assert.Equal(t, "alice", req.username)
	assert.Equal(t, "pw", req.password)
	assert.Equal(t, clientRandom, req.clientRandom)
}

func TestParseLoginReqRejectsWrongFieldCount(t *testing.T) {
	_, err := parseLoginReq([]byte("alice\npw"))
	assert.Error(t, err)
}

func TestLoginResRoundTrip(t *testing.T) {
	requestHash := make([]byte, 32)
	serverRandom := make([]byte, sizeRandom)
	for i := range serverRandom {
		serverRandom[i] = 0xff
	}

	payload := buildLoginRes(requestHash, serverRandom)
	res, err := parseLoginRes(payload)
	assert.NoError(t, err)
	assert.Equal(t, requestHash, res.requestHash)
	assert.Equal(t, serverRandom, res.serverRandom)
}

func TestParseLoginResRejectsWrongFieldCount(t *testing.T) {
	_, err := parseLoginRes([]byte("onlyonefield"))
	assert.Error(t, err)
}
