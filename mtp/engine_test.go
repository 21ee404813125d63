package mtp

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pairedEngines() (client, server *Engine, a, b net.Conn) {
	a, b = net.Pipe()
	return NewEngine(a), NewEngine(b), a, b
}

func installSessionKeys(t *testing.T, client, server *Engine) {
	t.Helper()
	clientKey := make([]byte, KeySize)
	serverKey := make([]byte, KeySize)
	for i := range clientKey {
		clientKey[i] = byte(i)
		serverKey[i] = byte(i + 1)
	}
	assert.NoError(t, client.SetSessionKeys(clientKey, serverKey, true))
	assert.NoError(t, server.SetSessionKeys(clientKey, serverKey, false))
}

func TestEngineSendReceiveRoundTrip(t *testing.T) {
	client, server, a, b := pairedEngines()
	defer a.Close()
	defer b.Close()
	installSessionKeys(t, client, server)

	done := make(chan error, 1)
	go func() {
		done <- client.Send(TypeCommandReq, []byte("ping"), nil)
	}()

	typ, payload, err := server.Receive()
	assert.NoError(t, <-done)
	assert.NoError(t, err)
	assert.Equal(t, TypeCommandReq, typ)
	assert.Equal(t, []byte("ping"), payload)
}

func TestEngineRejectsSequenceReplay(t *testing.T) {
	client, server, a, b := pairedEngines()
	defer a.Close()
	defer b.Close()
	installSessionKeys(t, client, server)

	go client.Send(TypeCommandReq, []byte("one"), nil)
	_, _, err := server.Receive()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, server.SqnReceive())

	// Force sqnSend back to a stale value and replay it.
	client.sqnSend = 0
	go client.Send(TypeCommandReq, []byte("replay"), nil)
	_, _, err = server.Receive()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrSequenceMismatch))
}

func TestEngineRejectsTamperedMessage(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	client := NewEngine(a)
	server := NewEngine(b)
	installSessionKeys(t, client, server)

	go func() {
		msg := make([]byte, 0)
		hdr := Header{Ver: version, Typ: TypeCommandReq, Sqn: 0}
		key, _ := client.encryptionKey(true)
		dir, _ := client.Direction(true)
		plaintext := []byte("tamper me")
		hdr.Len = uint16(HeaderSize + len(plaintext) + MACSize)
		hdrBytes := hdr.Marshal()
		ciphertext, tag, _ := Seal(key, hdr.Sqn, hdr.Rnd, hdr.Rsv, dir, hdrBytes, plaintext)
		ciphertext[0] ^= 0xff
		msg = append(msg, hdrBytes...)
		msg = append(msg, ciphertext...)
		msg = append(msg, tag...)
		WriteAll(a, msg)
	}()

	_, _, err := server.Receive()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthFailed))
	// A failed open must not advance the receive counter.
	assert.EqualValues(t, 0, server.SqnReceive())
}

func TestEngineResetSequenceNumbers(t *testing.T) {
	client, server, a, b := pairedEngines()
	defer a.Close()
	defer b.Close()
	installSessionKeys(t, client, server)

	go client.Send(TypeCommandReq, []byte("x"), nil)
	server.Receive()
	assert.EqualValues(t, 1, server.SqnReceive())

	server.ResetSequenceNumbers()
	assert.EqualValues(t, 0, server.SqnReceive())
}
