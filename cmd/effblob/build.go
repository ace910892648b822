package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/effblob/internal/efftext"
	"github.com/samcharles93/effblob/internal/logger"
	"github.com/samcharles93/effblob/pkg/eff"
)

func buildCmd() *cli.Command {
	var order string

	return &cli.Command{
		Name:      "build",
		Usage:     "Build a blob from an extracted text tree",
		ArgsUsage: "INDIR OUT.eff",
		Flags: []cli.Flag{
			orderFlag("order", "byte order of the output blob (little, big)", "little", &order),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyOrderConfig(cmd, cfg, map[string]*string{"order": &order})

			args, err := positionalArgs(cmd, 2)
			if err != nil {
				return err
			}
			in, out := args[0], args[1]

			o, err := eff.ParseByteOrder(order)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: --order: %v", err), 1)
			}
			if v, err := efftext.MarkerVersion(in); err == nil && v != "" {
				log.Debug("text tree marker", "version", v)
			}
			c, err := efftext.Read(in)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read %s: %v", in, err), 1)
			}
			if err := c.WriteFile(out, o); err != nil {
				return cli.Exit(fmt.Sprintf("error: write %s: %v", out, err), 1)
			}
			attrs := []any{"path", out, "order", o.String(), "effects", c.Stats().Effects}
			if fi, err := os.Stat(out); err == nil {
				attrs = append(attrs, "bytes", fi.Size())
			}
			log.Info("built blob", attrs...)
			return nil
		},
	}
}
