package efftext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samcharles93/effblob/pkg/eff"
)

// ErrSyntax reports a text file that does not follow the expected layout.
var ErrSyntax = errors.New("efftext: syntax error")

// lineScanner yields "Key: Value" lines. Text after '#' is a comment, leading
// whitespace is ignored and blank lines are skipped.
type lineScanner struct {
	path string
	sc   *bufio.Scanner
	line int
}

func newLineScanner(path string, r io.Reader) *lineScanner {
	return &lineScanner{path: path, sc: bufio.NewScanner(r)}
}

func (s *lineScanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", s.path, s.line, ErrSyntax, fmt.Sprintf(format, args...))
}

func (s *lineScanner) wrap(err error) error {
	return fmt.Errorf("%s:%d: %w", s.path, s.line, err)
}

// next returns the following significant line. At the end of input it
// returns io.EOF.
func (s *lineScanner) next() (key, value string, err error) {
	for s.sc.Scan() {
		s.line++
		text := s.sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		k, v, _ := strings.Cut(text, ":")
		return strings.TrimSpace(k), strings.TrimSpace(v), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", "", err
	}
	return "", "", io.EOF
}

// expect consumes a line that must carry the given key.
func (s *lineScanner) expect(key string) (string, error) {
	k, v, err := s.next()
	if errors.Is(err, io.EOF) {
		return "", s.errorf("unexpected end of file, want %q", key)
	}
	if err != nil {
		return "", s.wrap(err)
	}
	if k != key {
		return "", s.errorf("got key %q, want %q", k, key)
	}
	return v, nil
}

// count reads a decimal count line.
func (s *lineScanner) count(key string) (int, error) {
	v, err := s.expect(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, s.errorf("%s: %v", key, err)
	}
	return int(n), nil
}

// fields reads one line per field, in order, keyed by prefix+field name.
func (s *lineScanner) fields(prefix string, fs []eff.Field) error {
	for _, f := range fs {
		v, err := s.expect(prefix + f.Name)
		if err != nil {
			return err
		}
		if err := f.Set(v); err != nil {
			return s.errorf("%v", err)
		}
	}
	return nil
}

// capHint bounds preallocation driven by counts read from text.
func capHint(n int) int {
	return min(n, 1<<12)
}
