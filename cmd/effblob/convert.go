package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/effblob/internal/logger"
	"github.com/samcharles93/effblob/pkg/eff"
)

func convertCmd() *cli.Command {
	var from, to string

	return &cli.Command{
		Name:      "convert",
		Usage:     "Re-encode a blob in another byte order",
		ArgsUsage: "IN.eff OUT.eff",
		Flags: []cli.Flag{
			orderFlag("from", "byte order of the input blob (little, big, auto)", orderAuto, &from),
			&cli.StringFlag{
				Name:        "to",
				Aliases:     []string{"t"},
				Usage:       "byte order of the output blob (little, big)",
				Required:    true,
				Destination: &to,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			args, err := positionalArgs(cmd, 2)
			if err != nil {
				return err
			}
			in, out := args[0], args[1]

			target, err := eff.ParseByteOrder(to)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: --to: %v", err), 1)
			}
			c, source, err := openBlob(in, from)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read %s: %v", in, err), 1)
			}
			if err := c.WriteFile(out, target); err != nil {
				return cli.Exit(fmt.Sprintf("error: write %s: %v", out, err), 1)
			}
			log.Info("converted blob", "in", in, "out", out, "from", source.String(), "to", target.String())
			return nil
		},
	}
}
