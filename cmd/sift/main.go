package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/lanikai/sift/internal/logging"
	"github.com/lanikai/sift/login"
	"github.com/lanikai/sift/mtp"
	"github.com/lanikai/sift/rsakeys"
)

var log = logging.DefaultLogger.WithTag("sift")

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

	username := flagUsername
	if username == "" {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		username = strings.TrimSpace(line)
	}

	password := flagPassword
	if password == "" {
		fmt.Print("Password: ")
		raw, err := terminal.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			log.Error("reading password: %s", err)
			os.Exit(1)
		}
		password = string(raw)
	}

	serverKey, err := rsakeys.LoadPublicKey(flagPublicKey)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", flagServer)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}
	defer conn.Close()

	engine := mtp.NewEngine(conn)

	if _, err := login.RunClient(engine, serverKey, username, password); err != nil {
		log.Error("login failed: %s", err)
		os.Exit(1)
	}
	log.Info("logged in as %q", username)

	// Command sub-protocol is out of scope (see spec.md's Non-goals); send
	// one opaque command_req to exercise the wire-level round trip.
	if err := engine.Send(mtp.TypeCommandReq, []byte("ping"), nil); err != nil {
		log.Error("sending command_req: %s", err)
		os.Exit(1)
	}
	typ, payload, err := engine.Receive()
	if err != nil {
		log.Error("receiving command_res: %s", err)
		os.Exit(1)
	}
	if typ != mtp.TypeCommandRes {
		log.Error("unexpected response type %s", typ)
		os.Exit(1)
	}
	log.Info("command_res: %q", payload)
}
