package efftext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samcharles93/effblob/pkg/eff"
)

// writeText creates path and hands a buffered writer to fn. Write errors are
// sticky in bufio.Writer and surface on Flush.
func writeText(path string, fn func(w *bufio.Writer)) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	fn(w)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readText opens path and runs fn over its lines. A missing file is reported
// as found=false with no error.
func readText(path string, fn func(s *lineScanner) error) (found bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()
	return true, fn(newLineScanner(path, f))
}

func writeField(w *bufio.Writer, indent, prefix string, f eff.Field) {
	fmt.Fprintf(w, "%s%s%s: %s\n", indent, prefix, f.Name, f.String())
}

func writeIDs(path string, ids []eff.TableEntry) error {
	return writeText(path, func(w *bufio.Writer) {
		fmt.Fprintf(w, "Entry Count: %d\n", len(ids))
		for i, id := range ids {
			fmt.Fprintf(w, "Entry %d: 0x%X\n", i, id.ID)
		}
	})
}

// readIDs collects every "Entry i" line. The count line is only a hint, so
// entries can be added or removed without renumbering it.
func readIDs(path string) ([]eff.TableEntry, error) {
	var ids []eff.TableEntry
	_, err := readText(path, func(s *lineScanner) error {
		n, err := s.count("Entry Count")
		if err != nil {
			return err
		}
		ids = make([]eff.TableEntry, 0, capHint(n))
		for {
			k, v, err := s.next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return s.wrap(err)
			}
			if want := fmt.Sprintf("Entry %d", len(ids)); k != want {
				return s.errorf("got key %q, want %q", k, want)
			}
			var e eff.TableEntry
			if err := e.Fields()[0].Set(v); err != nil {
				return s.errorf("%v", err)
			}
			ids = append(ids, e)
		}
	})
	return ids, err
}

func writeEarLinks(path string, links []eff.EarLink) error {
	return writeText(path, func(w *bufio.Writer) {
		fmt.Fprintf(w, "Entry Count: %d\n\n", len(links))
		for i := range links {
			prefix := fmt.Sprintf("Entry %d ", i)
			for _, f := range earLinkTextFields(&links[i]) {
				writeField(w, "", prefix, f)
			}
			w.WriteString("\n")
		}
	})
}

// earLinkTextFields omits the reserved word, which is not carried in text.
func earLinkTextFields(l *eff.EarLink) []eff.Field {
	return l.Fields()[:2]
}

func readEarLinks(path string) ([]eff.EarLink, error) {
	var links []eff.EarLink
	_, err := readText(path, func(s *lineScanner) error {
		n, err := s.count("Entry Count")
		if err != nil {
			return err
		}
		links = make([]eff.EarLink, 0, capHint(n))
		for i := range n {
			var l eff.EarLink
			if err := s.fields(fmt.Sprintf("Entry %d ", i), earLinkTextFields(&l)); err != nil {
				return err
			}
			links = append(links, l)
		}
		return trailing(s)
	})
	return links, err
}

func writeTextureData(path string, metas []eff.TextureMetadata) error {
	return writeText(path, func(w *bufio.Writer) {
		fmt.Fprintf(w, "Texture Count: %d\n\n", len(metas))
		for i := range metas {
			fmt.Fprintf(w, "Entry %d:\n", i)
			for _, f := range metas[i].Fields() {
				writeField(w, "", "", f)
			}
			w.WriteString("\n")
		}
	})
}

func readTextureData(path string) ([]eff.TextureMetadata, error) {
	var metas []eff.TextureMetadata
	_, err := readText(path, func(s *lineScanner) error {
		n, err := s.count("Texture Count")
		if err != nil {
			return err
		}
		metas = make([]eff.TextureMetadata, 0, capHint(n))
		for i := range n {
			if _, err := s.expect(fmt.Sprintf("Entry %d", i)); err != nil {
				return err
			}
			var m eff.TextureMetadata
			if err := s.fields("", m.Fields()); err != nil {
				return err
			}
			metas = append(metas, m)
		}
		return trailing(s)
	})
	return metas, err
}

func writePaths(path string, curves []eff.Curve) error {
	return writeText(path, func(w *bufio.Writer) {
		fmt.Fprintf(w, "Path Count: %d\n", len(curves))
		for i := range curves {
			fmt.Fprintf(w, "Entry %d:\n", i)
			fmt.Fprintf(w, "\tPoint Count: %d\n", len(curves[i].Points))
			for j := range curves[i].Points {
				fmt.Fprintf(w, "\tPoint %d:\n", j)
				for _, f := range curves[i].Points[j].Fields() {
					writeField(w, "\t\t", "", f)
				}
			}
		}
	})
}

func readPaths(path string) ([]eff.Curve, error) {
	var curves []eff.Curve
	_, err := readText(path, func(s *lineScanner) error {
		n, err := s.count("Path Count")
		if err != nil {
			return err
		}
		curves = make([]eff.Curve, 0, capHint(n))
		for i := range n {
			if _, err := s.expect(fmt.Sprintf("Entry %d", i)); err != nil {
				return err
			}
			points, err := s.count("Point Count")
			if err != nil {
				return err
			}
			c := eff.Curve{Points: make([]eff.CurvePoint, 0, capHint(points))}
			for j := range points {
				if _, err := s.expect(fmt.Sprintf("Point %d", j)); err != nil {
					return err
				}
				var p eff.CurvePoint
				if err := s.fields("", p.Fields()); err != nil {
					return err
				}
				c.Points = append(c.Points, p)
			}
			curves = append(curves, c)
		}
		return trailing(s)
	})
	return curves, err
}

// trailing reports a syntax error if anything but comments follows the last
// record of a count-driven file.
func trailing(s *lineScanner) error {
	k, _, err := s.next()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return s.wrap(err)
	}
	return s.errorf("unexpected %q after the last record", k)
}
