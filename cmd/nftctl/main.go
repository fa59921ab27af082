package main

import (
	"fmt"
	"io"
	"os"

	"shielded-nft/config"
	"shielded-nft/internal/app"
	"shielded-nft/pkg/logger"

	"github.com/urfave/cli/v2"
)

const (
	DatadirEnvVar = "SNFT_DATADIR"
	SecretEnvVar  = "SNFT_VIEWING_SECRET"
	AccountEnvVar = "SNFT_AUTH_ACCOUNT_SECRET"
)

var Version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a config file",
	}
	datadirFlag = &cli.StringFlag{
		Name:    "datadir",
		Usage:   "badger data directory of the local ledger",
		EnvVars: []string{DatadirEnvVar},
	}
	secretFlag = &cli.StringFlag{
		Name:    "viewing-secret",
		Usage:   "HS256 secret for viewing keys",
		EnvVars: []string{SecretEnvVar},
	}
	accountSecretFlag = &cli.StringFlag{
		Name:    "account-secret",
		Usage:   "HS256 secret for account tokens",
		EnvVars: []string{AccountEnvVar},
	}
	verboseFlag = &cli.BoolFlag{
		Name:        "verbose",
		Usage:       "enable debug logs",
		Value:       false,
		DefaultText: "false",
	}
)

// newApp builds the command tree. The ledger is opened before every command
// and closed after it, so each invocation sees what earlier ones persisted.
func newApp(out io.Writer) *cli.App {
	c := &commands{out: out}

	a := cli.NewApp()
	a.Name = "nftctl"
	a.Usage = "shielded NFT ledger command line interface"
	a.Version = Version
	a.Writer = out
	a.Flags = []cli.Flag{configFlag, datadirFlag, secretFlag, accountSecretFlag, verboseFlag}
	a.Commands = c.all()
	a.Before = func(ctx *cli.Context) error {
		switch ctx.Args().First() {
		case "", "help", "h":
			return nil
		}
		ledger, err := openLedger(ctx)
		if err != nil {
			return fmt.Errorf("opening ledger: %v", err)
		}
		c.ledger = ledger
		return nil
	}
	a.After = func(*cli.Context) error {
		if c.ledger != nil {
			c.ledger.Close()
			c.ledger = nil
		}
		return nil
	}
	return a
}

func openLedger(ctx *cli.Context) (*app.App, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}

	// The in-memory store forgets everything between invocations.
	if dir := ctx.String(datadirFlag.Name); dir != "" {
		cfg.Store.Backend = config.StoreBadger
		cfg.Store.BadgerDir = dir
	} else if cfg.Store.Backend == config.StoreMemory {
		cfg.Store.Backend = config.StoreBadger
	}
	if secret := ctx.String(secretFlag.Name); secret != "" {
		cfg.Viewing.Secret = secret
	}
	if secret := ctx.String(accountSecretFlag.Name); secret != "" {
		cfg.Auth.AccountSecret = secret
	}
	if cfg.Viewing.Secret == "" {
		return nil, fmt.Errorf("a viewing secret is required (--%s or %s)", secretFlag.Name, SecretEnvVar)
	}

	level := "warn"
	if ctx.Bool(verboseFlag.Name) {
		level = "debug"
	}
	return app.New(ctx.Context, cfg, logger.NewCLI(level))
}
