package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/effblob/pkg/eff"
)

type inspectReport struct {
	Path     string        `json:"path"`
	Size     int           `json:"size"`
	Order    string        `json:"order"`
	Slots    uint32        `json:"slot_count"`
	Sections []sectionInfo `json:"sections"`
	Stats    eff.Stats     `json:"stats"`
}

type sectionInfo struct {
	Slot   int    `json:"slot"`
	Name   string `json:"name"`
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
}

func inspectCmd() *cli.Command {
	var (
		order  string
		asJSON bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header and collection counts of a blob",
		ArgsUsage: "IN.eff",
		Flags: []cli.Flag{
			orderFlag("order", "byte order of the blob (little, big, auto)", orderAuto, &order),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the report as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyOrderConfig(cmd, cfg, map[string]*string{"order": &order})

			args, err := positionalArgs(cmd, 1)
			if err != nil {
				return err
			}
			rep, err := inspectBlob(args[0], order)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: inspect %s: %v", args[0], err), 1)
			}
			w := stdout(cmd)
			if asJSON {
				out, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode report: %v", err), 1)
				}
				_, err = fmt.Fprintf(w, "%s\n", out)
				return err
			}
			printReport(w, rep)
			return nil
		},
	}
}

func inspectBlob(path, order string) (inspectReport, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return inspectReport{}, err
	}
	var o eff.ByteOrder
	if order == orderAuto {
		o, err = eff.DetectByteOrder(b)
	} else {
		o, err = eff.ParseByteOrder(order)
	}
	if err != nil {
		return inspectReport{}, err
	}
	h, err := eff.ReadHeader(bytes.NewReader(b), o)
	if err != nil {
		return inspectReport{}, err
	}
	c, err := eff.Unmarshal(b, o)
	if err != nil {
		return inspectReport{}, err
	}
	return inspectReport{
		Path:     path,
		Size:     len(b),
		Order:    o.String(),
		Slots:    h.SlotCount,
		Sections: sectionSpans(h, len(b)),
		Stats:    c.Stats(),
	}, nil
}

// sectionSpans lists the present sections. A section runs until the next
// higher offset or the end of the blob.
func sectionSpans(h eff.Header, size int) []sectionInfo {
	var offs []uint32
	for _, off := range h.Offsets {
		if off != 0 {
			offs = append(offs, off)
		}
	}
	slices.Sort(offs)
	offs = slices.Compact(offs)

	end := func(off uint32) uint32 {
		i, _ := slices.BinarySearch(offs, off)
		if i+1 < len(offs) {
			return offs[i+1]
		}
		return uint32(size)
	}

	out := make([]sectionInfo, 0, len(offs))
	for i, off := range h.Offsets {
		if off == 0 {
			continue
		}
		info := sectionInfo{Slot: i, Name: eff.Slot(i).String(), Offset: off}
		if e := end(off); e > off {
			info.Size = e - off
		}
		out = append(out, info)
	}
	return out
}

func printReport(w io.Writer, r inspectReport) {
	_, _ = fmt.Fprintf(w, "EFF Inspect: %s\n", r.Path)
	_, _ = fmt.Fprintf(w, "File: %s (%s, %s endian)\n", filepath.Base(r.Path), formatBytes(uint64(r.Size)), r.Order)
	_, _ = fmt.Fprintf(w, "Header: slots=%d\n", r.Slots)

	section(w, "Sections")
	for _, s := range r.Sections {
		_, _ = fmt.Fprintf(w, "%2d %-18s off=0x%-8X size=%s\n", s.Slot, s.Name, s.Offset, formatBytes(uint64(s.Size)))
	}

	section(w, "Collections")
	st := r.Stats
	rowInt(w, "texture_ids", st.TextureIDs)
	rowInt(w, "core_ids", st.CoreIDs)
	rowInt(w, "ear_links", st.EarLinks)
	rowInt(w, "unknown_ids", st.UnknownIDs)
	rowInt(w, "model_ids", st.ModelIDs)
	rowInt(w, "texture_metadata", st.TextureMetadata)
	rowInt(w, "effect_groups_0", st.EffectGroups0)
	rowInt(w, "effect_groups_1", st.EffectGroups1)
	rowInt(w, "effects", st.Effects)
	rowInt(w, "paths", st.Paths)
	rowInt(w, "curve_points", st.CurvePoints)
}

func section(w io.Writer, title string) {
	line := strings.Repeat("-", len(title)+8)
	_, _ = fmt.Fprintf(w, "\n%s\n--- %s ---\n%s\n", line, title, line)
}

func rowInt(w io.Writer, label string, v int) {
	_, _ = fmt.Fprintf(w, "%-24s %d\n", label+":", v)
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
