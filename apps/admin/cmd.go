package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/labstack/gommon/color"

	"github.com/epistula/epistula-go/client"
	"github.com/epistula/epistula-go/core"
	"github.com/epistula/epistula-go/datatransfer"
	"github.com/epistula/epistula-go/prefs"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	client   *client.Client
	transfer *datatransfer.Service
	prefs    *prefs.Store
	stdout   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.stdout, color.Bold("Usage:"))
	fmt.Fprintln(cli.stdout, "  login -username USERNAME|EMAIL                      - log in; the password is prompted next")
	fmt.Fprintln(cli.stdout, "  logout                                              - drop the stored token")
	fmt.Fprintln(cli.stdout, "  whoami                                              - show the logged-in identity and token expiry")
	fmt.Fprintln(cli.stdout, "  export -o FILE [-schema temp|production]            - download a data snapshot")
	fmt.Fprintln(cli.stdout, "  import -f FILE [-schema temp] [-strategy skip|overwrite|merge] [-dry-run]")
	fmt.Fprintln(cli.stdout, "                                                      - validate and upload a snapshot")
	fmt.Fprintln(cli.stdout, "  backup -dir DIR                                     - export production into a timestamped file")
	fmt.Fprintln(cli.stdout, "  favorites [-toggle KIND:ID]                         - list or toggle favorites")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "login":
		return cli.runLogin(args[2:])
	case "logout":
		return cli.client.Logout()
	case "whoami":
		return cli.whoAmI()
	case "export":
		return cli.runExport(args[2:])
	case "import":
		return cli.runImport(args[2:])
	case "backup":
		return cli.runBackup(args[2:])
	case "favorites":
		return cli.runFavorites(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) ctx() (context.Context, context.CancelFunc) {
	timeout := cli.conf.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}
