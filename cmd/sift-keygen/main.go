// Command sift-keygen generates the RSA-2048 key pair a siftd server
// bootstraps logins with: a PEM-encoded PKCS#1 private key the server
// loads at startup, and a PEM-encoded PKIX public key distributed
// out-of-band to clients. Adapted from the teacher's bin/generate_cert.go
// (EC certificate generation) and the original reference's
// generate_keys.py, retargeted to a bare RSA key pair since this protocol
// has no certificate chain (see spec.md's Non-goals).
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/lanikai/sift/rsakeys"
)

var (
	flagOut  string
	flagHelp bool
)

func init() {
	flag.StringVarP(&flagOut, "out", "o", "server", "Output file basename: writes BASENAME-private.pem and BASENAME-public.pem")
	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
}

const helpString = `Generate an RSA-2048 key pair for bootstrapping SiFT logins

Usage: sift-keygen [OPTION]...

  -o, --out=BASENAME     Output file basename (default: server)
  -h, --help             Prints this help message and exits

Writes BASENAME-private.pem (PKCS#1, mode 0600) for the server and
BASENAME-public.pem (PKIX) for distribution to clients.`

func main() {
	flag.Parse()

	if flagHelp {
		fmt.Println(helpString)
		os.Exit(0)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	key, err := rsa.GenerateKey(rand.Reader, rsakeys.KeyBits)
	if err != nil {
		log.Fatal(err)
	}

	privPath := flagOut + "-private.pem"
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := ioutil.WriteFile(privPath, privPEM, 0600); err != nil {
		log.Fatal(err)
	}

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		log.Fatal(err)
	}
	pubPath := flagOut + "-public.pem"
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})
	if err := ioutil.WriteFile(pubPath, pubPEM, 0644); err != nil {
		log.Fatal(err)
	}

	log.Printf("wrote %s (keep secret) and %s (distribute to clients)", privPath, pubPath)
}
