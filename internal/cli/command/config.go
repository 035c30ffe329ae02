package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/distkv-go/internal/cli/config"
)

func configCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or create the CLI config file",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective settings",
				Action: func(c *cli.Context) error {
					return st.print(c.App.Writer, st.cfg)
				},
			},
			{
				Name:  "path",
				Usage: "Print the config file location",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, st.path())
					return err
				},
			},
			{
				Name:  "init",
				Usage: "Write the effective settings to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "overwrite an existing file",
					},
				},
				Action: func(c *cli.Context) error {
					path := st.path()
					if _, err := os.Stat(path); err == nil && !c.Bool("force") {
						return cli.Exit(fmt.Sprintf("error: %s exists (use --force)", path), ExitError)
					} else if err != nil && !errors.Is(err, os.ErrNotExist) {
						return fail(err)
					}
					if err := config.Save(st.cfg, path); err != nil {
						return fail(err)
					}
					_, err := fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
					return err
				},
			},
		},
	}
}

func (st *state) path() string {
	if st.configPath != "" {
		return st.configPath
	}
	return config.DefaultConfigPath()
}
