package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/distkv-go/internal/infra/buildinfo"
)

func versionCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			return st.print(c.App.Writer, buildinfo.Get())
		},
	}
}
