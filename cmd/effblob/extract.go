package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/effblob/internal/efftext"
	"github.com/samcharles93/effblob/internal/logger"
	"github.com/samcharles93/effblob/internal/version"
)

func extractCmd() *cli.Command {
	var (
		order string
		obj   bool
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract a blob into an editable text tree",
		ArgsUsage: "IN.eff OUTDIR",
		Flags: []cli.Flag{
			orderFlag("order", "byte order of the input blob (little, big, auto)", "little", &order),
			&cli.BoolFlag{
				Name:        "obj",
				Usage:       "write a Wavefront OBJ position preview for each effect group",
				Value:       true,
				Destination: &obj,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyExtractConfig(cmd, cfg, &order, &obj)

			args, err := positionalArgs(cmd, 2)
			if err != nil {
				return err
			}
			in, out := args[0], args[1]

			c, o, err := openBlob(in, order)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read %s: %v", in, err), 1)
			}
			log.Debug("decoded blob", "path", in, "order", o.String())

			if err := efftext.Write(out, c, efftext.Options{OBJ: obj, Version: version.String()}); err != nil {
				return cli.Exit(fmt.Sprintf("error: write %s: %v", out, err), 1)
			}
			s := c.Stats()
			log.Info("extracted blob",
				"path", out,
				"order", o.String(),
				"effect_groups", s.EffectGroups0+s.EffectGroups1,
				"effects", s.Effects,
				"paths", s.Paths,
			)
			return nil
		},
	}
}
