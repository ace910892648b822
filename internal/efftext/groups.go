package efftext

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samcharles93/effblob/pkg/eff"
)

func groupDataName(i int) string  { return fmt.Sprintf("Effect Group %d Data.txt2", i) }
func groupModelName(i int) string { return fmt.Sprintf("Effect Group %d Model.obj", i) }

func writeGroup(path string, g *eff.EffectGroup) error {
	return writeText(path, func(w *bufio.Writer) {
		fmt.Fprintf(w, "Effect Count: %d\n", len(g.Effects))
		for _, f := range g.HeaderFields() {
			writeField(w, "", "", f)
		}
		w.WriteString("\n\n")
		for k := range g.Effects {
			fmt.Fprintf(w, "Effect %d\n", k)
			for _, f := range g.Effects[k].Fields() {
				writeField(w, "", "", f)
			}
			w.WriteString("\n")
		}
	})
}

func readGroup(path string) (eff.EffectGroup, bool, error) {
	var g eff.EffectGroup
	found, err := readText(path, func(s *lineScanner) error {
		n, err := s.count("Effect Count")
		if err != nil {
			return err
		}
		if err := s.fields("", g.HeaderFields()); err != nil {
			return err
		}
		g.Effects = make([]eff.Effect, 0, capHint(n))
		for k := range n {
			if _, err := s.expect(fmt.Sprintf("Effect %d", k)); err != nil {
				return err
			}
			var fx eff.Effect
			if err := s.fields("", fx.Fields()); err != nil {
				return err
			}
			g.Effects = append(g.Effects, fx)
		}
		return trailing(s)
	})
	return g, found, err
}

// writeGroups writes one data file per group, plus an OBJ preview when obj
// is set. table is the top-level slot the list came from.
func writeGroups(dir string, groups []eff.EffectGroup, table eff.Slot, obj bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range groups {
		if err := writeGroup(filepath.Join(dir, groupDataName(i)), &groups[i]); err != nil {
			return fmt.Errorf("effect group %d: %w", i, err)
		}
		if !obj {
			continue
		}
		if err := writeOBJ(filepath.Join(dir, groupModelName(i)), &groups[i], int(table), i); err != nil {
			return fmt.Errorf("effect group %d preview: %w", i, err)
		}
	}
	return nil
}

// readGroups reads "Effect Group 0 Data.txt2", "Effect Group 1 Data.txt2"
// and so on until the next index is missing.
func readGroups(dir string) ([]eff.EffectGroup, error) {
	var groups []eff.EffectGroup
	for i := 0; ; i++ {
		g, found, err := readGroup(filepath.Join(dir, groupDataName(i)))
		if err != nil {
			return nil, err
		}
		if !found {
			return groups, nil
		}
		groups = append(groups, g)
	}
}
