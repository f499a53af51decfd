package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/iov-one/ledger"
	ledgerd "github.com/iov-one/ledger/cmd/ledgerd/app"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/commands/server"
	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// runner executes one subcommand with the arguments following its name.
type runner func(logger log.Logger, home string, args []string) error

var subcommands = map[string]struct {
	help string
	run  runner
}{
	"init": {"Write escrows given as <client> <freelancer> <amount> triples into the genesis app_state",
		func(logger log.Logger, home string, args []string) error {
			return server.InitCmd(ledgerd.GenInitOptions, logger, home, args)
		}},
	"start": {"Serve the ledger over ABCI",
		func(logger log.Logger, home string, args []string) error {
			return server.StartCmd(ledgerd.GenerateApp, logger, home, args)
		}},
	"validate": {"Load the app_state of genesis files without persisting it",
		func(_ log.Logger, _ string, args []string) error {
			return server.ValidateGenesis(ledgerd.Initializers(), args)
		}},
	"keygen": {"Create an ed25519 key and print its address",
		func(_ log.Logger, _ string, args []string) error {
			return commands.KeygenCmd(os.Stdout, args)
		}},
	"testgen": {"Write json and binary encodings of create, deliver and release messages",
		func(_ log.Logger, _ string, args []string) error {
			return commands.TestGenCmd(ledgerd.Examples(), args)
		}},
	"version": {"Print the release",
		func(log.Logger, string, []string) error {
			fmt.Println(ledger.Version())
			return nil
		}},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <command> [<args>]\n\nCommands:\n", filepath.Base(os.Args[0]))
	names := make([]string, 0, len(subcommands))
	for name := range subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-9s %s\n", name, subcommands[name].help)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	var (
		home     = flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".ledgerd"), "directory holding the node state")
		logLevel = flag.String("log_level", "info", "log level: debug, info, error or none")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := subcommands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	logger, err := newLogger(*logLevel)
	if err == nil {
		err = cmd.run(logger, *home, flag.Args()[1:])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "ledger")
	return log.NewFilter(logger, opt), nil
}
