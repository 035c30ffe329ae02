package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/distkv-go/internal/cli/connection"
)

func statusCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Query the server health endpoint",
		Action: func(c *cli.Context) error {
			if st.cfg.HTTP == "" {
				return cli.Exit("error: no HTTP address configured (use --http)", ExitError)
			}
			health, err := connection.NewHTTPClient(st.cfg.HTTP, st.cfg.Timeout).Health(c.Context)
			if err != nil {
				return fail(err)
			}
			if err := st.print(c.App.Writer, health); err != nil {
				return fail(err)
			}
			return nil
		},
	}
}
