package main

import (
	"fmt"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"
)

var (
	flagListen     string
	flagPrivateKey string
	flagUsers      string
	flagHelp       bool
	flagVersion    bool
)

func init() {
	flag.StringVarP(&flagListen, "listen", "l", "localhost:5150", "Address to listen on")
	flag.StringVarP(&flagPrivateKey, "private-key", "k", "server-private.pem", "Server RSA private key (PEM)")
	flag.StringVarP(&flagUsers, "users", "u", "users.txt", "Credentials store file")

	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
	flag.BoolVarP(&flagVersion, "version", "v", false, "Print version information and exit")
}

const helpString = `SiFT file transfer server

Usage: siftd [OPTION]...

Network:
  -l, --listen=ADDR       Address to listen on (default: localhost:5150)

Authentication:
  -k, --private-key=FILE  Server RSA private key, PEM (default: server-private.pem)
  -u, --users=FILE        Credentials store file (default: users.txt)

Miscellaneous:
  -h, --help              Prints this help message and exits
  -v, --version           Prints version information and exits`

func help() {
	b := color.New(color.FgCyan, color.Bold)
	b.Println(" siftd")
	fmt.Println(helpString)
}

func version() {
	fmt.Println("siftd (SiFT v1.0)")
}
