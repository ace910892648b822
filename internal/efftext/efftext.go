// Package efftext converts an eff.Container to and from an editable directory
// of plain-text files.
//
// Each table lives in its own file under Tables/, each effect group in its own
// file under "Effect 0"/ or "Effect 1"/. Lines are "Key: Value" pairs in a
// fixed order; '#' starts a comment. Reserved words of id tables, ear links and
// the effect group gap are not carried and come back as zero.
package efftext

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samcharles93/effblob/pkg/eff"
)

// File and directory names inside an extracted tree.
const (
	TablesDir   = "Tables"
	Effects0Dir = "Effect 0"
	Effects1Dir = "Effect 1"

	TextureIDsFile  = "Table_0_TPL_Texture_IDs.txt2"
	CoreIDsFile     = "Table_1_Effect_0_Indexes.txt2"
	EarLinksFile    = "Table_2_EAR_Links.txt2"
	UnknownIDsFile  = "Table_3_Effect_Path_IDs.txt2"
	ModelIDsFile    = "Table_4_BIN_Model_IDs.txt2"
	TextureDataFile = "Table_6_TextureData.txt2"
	PathsFile       = "Table_9_Paths.txt2"

	// MarkerExt is appended to the tree's directory name for the marker file
	// written next to it.
	MarkerExt = ".EFFBLOBTXT"
)

// Options controls Write.
type Options struct {
	// OBJ writes a Wavefront preview next to every effect group.
	OBJ bool
	// Version is recorded in the marker file.
	Version string
}

// MarkerPath returns the marker file written alongside dir.
func MarkerPath(dir string) string {
	return strings.TrimRight(filepath.Clean(dir), `/\`) + MarkerExt
}

// Write extracts c into dir, creating it if needed. Existing files with the
// same names are replaced.
func Write(dir string, c *eff.Container, opts Options) error {
	tables := filepath.Join(dir, TablesDir)
	if err := os.MkdirAll(tables, 0o755); err != nil {
		return err
	}

	idTables := []struct {
		name string
		ids  []eff.TableEntry
	}{
		{TextureIDsFile, c.TextureIDs},
		{CoreIDsFile, c.CoreIDs},
		{UnknownIDsFile, c.UnknownIDs},
		{ModelIDsFile, c.ModelIDs},
	}
	for _, t := range idTables {
		if err := writeIDs(filepath.Join(tables, t.name), t.ids); err != nil {
			return err
		}
	}
	if err := writeEarLinks(filepath.Join(tables, EarLinksFile), c.EarLinks); err != nil {
		return err
	}
	if err := writeTextureData(filepath.Join(tables, TextureDataFile), c.TextureMetadata); err != nil {
		return err
	}
	if err := writePaths(filepath.Join(tables, PathsFile), c.Paths); err != nil {
		return err
	}
	if err := writeGroups(filepath.Join(dir, Effects0Dir), c.Effects0, eff.SlotEffects0, opts.OBJ); err != nil {
		return fmt.Errorf("%s: %w", Effects0Dir, err)
	}
	if err := writeGroups(filepath.Join(dir, Effects1Dir), c.Effects1, eff.SlotEffects1, opts.OBJ); err != nil {
		return fmt.Errorf("%s: %w", Effects1Dir, err)
	}
	return writeMarker(MarkerPath(dir), opts.Version)
}

// Read builds a container from a tree produced by Write. Missing table files
// yield empty collections.
func Read(dir string) (*eff.Container, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	tables := filepath.Join(dir, TablesDir)
	c := &eff.Container{}
	ids := []struct {
		name string
		dst  *[]eff.TableEntry
	}{
		{TextureIDsFile, &c.TextureIDs},
		{CoreIDsFile, &c.CoreIDs},
		{UnknownIDsFile, &c.UnknownIDs},
		{ModelIDsFile, &c.ModelIDs},
	}
	for _, t := range ids {
		if *t.dst, err = readIDs(filepath.Join(tables, t.name)); err != nil {
			return nil, err
		}
	}
	if c.EarLinks, err = readEarLinks(filepath.Join(tables, EarLinksFile)); err != nil {
		return nil, err
	}
	if c.TextureMetadata, err = readTextureData(filepath.Join(tables, TextureDataFile)); err != nil {
		return nil, err
	}
	if c.Paths, err = readPaths(filepath.Join(tables, PathsFile)); err != nil {
		return nil, err
	}
	if c.Effects0, err = readGroups(filepath.Join(dir, Effects0Dir)); err != nil {
		return nil, err
	}
	if c.Effects1, err = readGroups(filepath.Join(dir, Effects1Dir)); err != nil {
		return nil, err
	}
	return c, nil
}

func writeMarker(path, version string) error {
	if version == "" {
		version = "dev"
	}
	body := fmt.Sprintf("# effblob text tree\n# Version %s\n", version)
	return os.WriteFile(path, []byte(body), 0o644)
}

// MarkerVersion returns the tool version recorded next to dir, or an empty
// string when there is no marker.
func MarkerVersion(dir string) (string, error) {
	b, err := os.ReadFile(MarkerPath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(b), "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "# Version "); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", nil
}

func fmtFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
