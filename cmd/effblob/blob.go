package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/effblob/pkg/eff"
)

const orderAuto = "auto"

// openBlob decodes the blob at path. order may be "auto" to detect the byte
// order from the header.
func openBlob(path, order string) (*eff.Container, eff.ByteOrder, error) {
	if order == orderAuto {
		return eff.OpenAuto(path)
	}
	o, err := eff.ParseByteOrder(order)
	if err != nil {
		return nil, 0, err
	}
	c, err := eff.Open(path, o)
	return c, o, err
}

// positionalArgs returns exactly n positional arguments or a usage error.
func positionalArgs(cmd *cli.Command, n int) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) != n {
		return nil, cli.Exit(fmt.Sprintf("error: %s expects %d argument(s): %s", cmd.Name, n, cmd.ArgsUsage), 1)
	}
	return args, nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
