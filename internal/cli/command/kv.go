package command

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/distkv-go/internal/cli/output"
	"github.com/yndnr/distkv-go/internal/protocol"
)

func setCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value, creating or overwriting the key",
		ArgsUsage: "KEY VALUE...",
		Action: func(c *cli.Context) error {
			return st.keyValue(c, "SET")
		},
	}
}

func updateCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Replace the value of an existing key",
		ArgsUsage: "KEY VALUE...",
		Action: func(c *cli.Context) error {
			return st.keyValue(c, "UPDATE")
		},
	}
}

func getCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value of a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			return st.keyOnly(c, "GET")
		},
	}
}

func deleteCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"del", "rm"},
		Usage:     "Remove a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			return st.keyOnly(c, "DELETE")
		},
	}
}

func listCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List all keys",
		Action: func(c *cli.Context) error {
			return st.run(c, "LIST")
		},
	}
}

func clearCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove every key",
		Action: func(c *cli.Context) error {
			return st.run(c, "CLEAR")
		},
	}
}

func execCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Send a raw protocol line, e.g. exec HELP",
		ArgsUsage: "LINE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("error: exec requires a command line", ExitError)
			}
			return st.run(c, strings.Join(c.Args().Slice(), " "))
		},
	}
}

func (st *state) keyValue(c *cli.Context, verb string) error {
	if c.NArg() < 2 {
		return cli.Exit(fmt.Sprintf("error: usage: %s KEY VALUE", strings.ToLower(verb)), ExitError)
	}
	key := c.Args().First()
	if err := checkKey(key); err != nil {
		return fail(err)
	}
	value := strings.Join(c.Args().Tail(), " ")
	return st.run(c, verb+" "+key+" "+value)
}

func (st *state) keyOnly(c *cli.Context, verb string) error {
	if c.NArg() != 1 {
		return cli.Exit(fmt.Sprintf("error: usage: %s KEY", strings.ToLower(verb)), ExitError)
	}
	key := c.Args().First()
	if err := checkKey(key); err != nil {
		return fail(err)
	}
	return st.run(c, verb+" "+key)
}

// checkKey rejects keys the line protocol cannot carry.
func checkKey(key string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return fmt.Errorf("key %q must not contain whitespace", key)
	}
	return nil
}

// run sends one line, prints the reply and maps it to an exit status.
func (st *state) run(c *cli.Context, line string) error {
	client, err := st.client()
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(c.Context, line)
	if err != nil {
		return fail(err)
	}

	if reply.Status == protocol.StatusErr {
		return cli.Exit("error: "+reply.Text, ExitError)
	}
	if err := st.print(c.App.Writer, output.NewResult(line, reply)); err != nil {
		return fail(err)
	}
	if reply.Status == protocol.StatusNotFound {
		return cli.Exit("", ExitNotFound)
	}
	return nil
}
