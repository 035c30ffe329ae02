package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/distkv-go/internal/cli/repl"
)

func shellCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive session against the server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-banner",
				Usage: "do not print the greeting",
			},
		},
		Action: func(c *cli.Context) error {
			client, err := st.client()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Connect(c.Context); err != nil {
				return fail(err)
			}

			opts := []repl.Option{
				repl.WithIO(c.App.Reader, c.App.Writer),
				repl.WithHistory(st.history()),
			}
			if c.Bool("no-banner") {
				opts = append(opts, repl.WithoutBanner())
			}
			if err := repl.New(client, opts...).Run(c.Context); err != nil {
				return fail(err)
			}
			return nil
		},
	}
}

// history returns the shell history configured for this run.
func (st *state) history() *repl.History {
	if st.cfg.History == "-" {
		return repl.NewHistory()
	}
	return repl.NewFileHistory(st.cfg.History)
}
