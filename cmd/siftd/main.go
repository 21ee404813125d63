package main

import (
	"crypto/rsa"
	"net"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/lanikai/sift/internal/logging"
	"github.com/lanikai/sift/login"
	"github.com/lanikai/sift/mtp"
	"github.com/lanikai/sift/rsakeys"
	"github.com/lanikai/sift/userstore"
)

var log = logging.DefaultLogger.WithTag("siftd")

func main() {
	flag.Parse()

	if flagHelp {
		help()
		os.Exit(0)
	}
	if flagVersion {
		version()
		os.Exit(0)
	}

	privateKey, err := rsakeys.LoadPrivateKey(flagPrivateKey)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}

	users, err := userstore.Load(flagUsers)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}

	ln, err := net.Listen("tcp", flagListen)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}
	defer ln.Close()

	log.Info("listening on %s", flagListen)
	log.Info("private key: %s", flagPrivateKey)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Error("accept: %s", err)
			continue
		}
		go handleClient(conn, privateKey, users)
	}
}

// handleClient runs one connection's login handshake followed by a
// stub command loop, mirroring the original reference's
// Server.handle_client. A per-connection failure is logged and the
// connection closed; it never brings down the accept loop.
func handleClient(conn net.Conn, privateKey *rsa.PrivateKey, users *userstore.Store) {
	defer conn.Close()

	peer := conn.RemoteAddr()
	engine := mtp.NewEngine(conn)

	result, err := login.RunServer(engine, privateKey, users)
	if err != nil {
		log.Warn("%s: login failed: %s", peer, err)
		return
	}
	log.Info("%s: logged in as %q", peer, result.Username)

	for {
		typ, payload, err := engine.Receive()
		if err != nil {
			log.Info("%s: connection closed: %s", peer, err)
			return
		}

		switch typ {
		case mtp.TypeCommandReq:
			log.Debug("%s: command_req: %q", peer, payload)
			// Command sub-protocol is out of scope (see spec.md's
			// Non-goals); acknowledge with a stub success response so
			// the wire-level round trip is observable end to end.
			if err := engine.Send(mtp.TypeCommandRes, []byte("ok"), nil); err != nil {
				log.Warn("%s: sending command_res: %s", peer, err)
				return
			}
		default:
			log.Warn("%s: unsupported message type %s, closing", peer, typ)
			return
		}
	}
}
