package main

import (
	"fmt"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"
)

var (
	flagServer    string
	flagPublicKey string
	flagUsername  string
	flagPassword  string
	flagHelp      bool
	flagVersion   bool
)

func init() {
	flag.StringVarP(&flagServer, "server", "s", "localhost:5150", "Server address")
	flag.StringVarP(&flagPublicKey, "public-key", "k", "server-public.pem", "Server RSA public key (PEM)")
	flag.StringVarP(&flagUsername, "username", "U", "", "Username")
	flag.StringVarP(&flagPassword, "password", "P", "", "Password (prompted if omitted)")

	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
	flag.BoolVarP(&flagVersion, "version", "v", false, "Print version information and exit")
}

const helpString = `SiFT file transfer client

Usage: sift [OPTION]...

Network:
  -s, --server=ADDR       Server address (default: localhost:5150)

Authentication:
  -k, --public-key=FILE   Server RSA public key, PEM (default: server-public.pem)
  -U, --username=NAME     Username
  -P, --password=PASS     Password (prompted if omitted)

Miscellaneous:
  -h, --help              Prints this help message and exits
  -v, --version           Prints version information and exits`

func help() {
	b := color.New(color.FgCyan, color.Bold)
	b.Println(" sift")
	fmt.Println(helpString)
}

func version() {
	fmt.Println("sift (SiFT v1.0)")
}
