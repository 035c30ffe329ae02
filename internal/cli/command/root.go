package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/distkv-go/internal/cli/config"
	"github.com/yndnr/distkv-go/internal/cli/connection"
	"github.com/yndnr/distkv-go/internal/cli/output"
	"github.com/yndnr/distkv-go/internal/infra/buildinfo"
)

// Exit codes.
const (
	ExitNotFound = 1
	ExitError    = 2
)

// state is resolved once in Before and shared by all actions.
type state struct {
	cfg        *config.CLIConfig
	configPath string
	format     output.Format
}

// App creates the CLI application.
func App() *cli.App {
	st := &state{}

	app := &cli.App{
		Name:                 "distkv-cli",
		Usage:                "DistKV command-line client",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Before: func(c *cli.Context) error {
			return st.resolve(c)
		},
		Commands: []*cli.Command{
			setCommand(st),
			getCommand(st),
			deleteCommand(st),
			updateCommand(st),
			listCommand(st),
			clearCommand(st),
			execCommand(st),
			shellCommand(st),
			statusCommand(st),
			configCommand(st),
			versionCommand(st),
		},
	}
	return app
}

// globalFlags returns the global CLI flags. Defaults live in the config
// package so that the file and environment can supply them.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file (default ~/.distkv/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "server TCP address (host:port)",
		},
		&cli.StringFlag{
			Name:    "socket",
			Aliases: []string{"s"},
			Usage:   "server Unix socket, overrides --addr",
		},
		&cli.StringFlag{
			Name:  "http",
			Usage: "server HTTP address for status",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "dial and request timeout",
		},
	}
}

func (st *state) resolve(c *cli.Context) error {
	st.configPath = c.String("config")
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: load config: %v", err), ExitError)
	}

	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("socket") {
		cfg.Socket = c.String("socket")
	}
	if c.IsSet("http") {
		cfg.HTTP = c.String("http")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return cli.Exit("error: "+err.Error(), ExitError)
	}

	st.cfg = cfg
	st.format = format
	return nil
}

func (st *state) client() (*connection.Client, error) {
	ep, err := connection.ResolveEndpoint(st.cfg.Addr, st.cfg.Socket)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: invalid server address: %v", err), ExitError)
	}
	return connection.NewClient(ep, st.cfg.Timeout), nil
}

func (st *state) print(w io.Writer, data any) error {
	return output.NewFormatter(st.format).Format(w, data)
}

// fail wraps err as an ExitError exit.
func fail(err error) error {
	return cli.Exit("error: "+err.Error(), ExitError)
}
