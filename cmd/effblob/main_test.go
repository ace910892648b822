package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/effblob/internal/efftext"
	"github.com/samcharles93/effblob/pkg/eff"
)

// runApp runs the CLI with an isolated config directory and returns what it
// printed to stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("EFFBLOB_CONFIG", "")

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	err := app.Run(context.Background(), append([]string{"effblob", "--log-level", "error"}, args...))
	return out.String(), err
}

func testContainer() *eff.Container {
	var fx eff.Effect
	fx.Header.StateID = 5
	fx.Header.Flags = 0x8000_0001
	fx.Motion.Position = [3]float32{100, 200, 300}
	fx.Color.RGBA = [4]uint8{0xFF, 0x80, 0x40, 0x20}
	fx.Timing.Lifetime = 60

	return &eff.Container{
		TextureIDs: []eff.TableEntry{{ID: 0x1234}},
		CoreIDs:    []eff.TableEntry{{ID: 1}, {ID: 2}},
		EarLinks:   []eff.EarLink{{ID: 1, EarLinkID: 2}},
		ModelIDs:   []eff.TableEntry{{ID: 7}},
		TextureMetadata: []eff.TextureMetadata{
			{TextureHeight: 256, TextureWidth: 256, EffectHeight: 64, EffectWidth: 64, TextureCount: 16},
		},
		Effects0: []eff.EffectGroup{{Unknown02: 3, Unknown0C: 0.5, Effects: []eff.Effect{fx, fx}}},
		Effects1: []eff.EffectGroup{{Effects: []eff.Effect{fx}}},
		Paths: []eff.Curve{
			{Points: []eff.CurvePoint{{Point: [3]float32{0, 1, 2}, Unknown: 4}}},
		},
	}
}

func writeBlob(t *testing.T, c *eff.Container, order eff.ByteOrder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "core.eff")
	if err := c.WriteFile(path, order); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	return path
}

func marshal(t *testing.T, c *eff.Container, order eff.ByteOrder) []byte {
	t.Helper()
	b, err := c.Marshal(order)
	if err != nil {
		t.Fatalf("marshal %s: %v", order, err)
	}
	return b
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return b
}

func TestExtractBuildRoundTrip(t *testing.T) {
	c := testContainer()
	in := writeBlob(t, c, eff.LittleEndian)
	dir := filepath.Join(t.TempDir(), "core")

	if _, err := runApp(t, "extract", "--order", "little", in, dir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := os.Stat(efftext.MarkerPath(dir)); err != nil {
		t.Fatalf("marker missing: %v", err)
	}
	if objs, _ := filepath.Glob(filepath.Join(dir, efftext.Effects0Dir, "*.obj")); len(objs) != 1 {
		t.Fatalf("obj previews: got %d want 1", len(objs))
	}

	for _, order := range []eff.ByteOrder{eff.LittleEndian, eff.BigEndian} {
		out := filepath.Join(t.TempDir(), "rebuilt.eff")
		if _, err := runApp(t, "build", "--order", order.String(), dir, out); err != nil {
			t.Fatalf("build %s: %v", order, err)
		}
		if !bytes.Equal(readFile(t, out), marshal(t, c, order)) {
			t.Fatalf("build %s: rebuilt blob differs", order)
		}
	}
}

func TestExtractDetectsOrder(t *testing.T) {
	c := testContainer()
	in := writeBlob(t, c, eff.BigEndian)
	dir := filepath.Join(t.TempDir(), "core")

	if _, err := runApp(t, "extract", "--order", "auto", "--obj=false", in, dir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if objs, _ := filepath.Glob(filepath.Join(dir, efftext.Effects0Dir, "*.obj")); len(objs) != 0 {
		t.Fatalf("--obj=false wrote %d previews", len(objs))
	}
	got, err := efftext.Read(dir)
	if err != nil {
		t.Fatalf("read tree: %v", err)
	}
	if got.Stats() != c.Stats() {
		t.Fatalf("stats: got %+v want %+v", got.Stats(), c.Stats())
	}
}

func TestExtractWrongOrderFails(t *testing.T) {
	in := writeBlob(t, testContainer(), eff.BigEndian)
	_, err := runApp(t, "extract", "--order", "little", in, filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatalf("expected error decoding a big-endian blob as little-endian")
	}
}

func TestConvert(t *testing.T) {
	c := testContainer()
	in := writeBlob(t, c, eff.LittleEndian)
	out := filepath.Join(t.TempDir(), "core_be.eff")

	if _, err := runApp(t, "convert", "--to", "big", in, out); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !bytes.Equal(readFile(t, out), marshal(t, c, eff.BigEndian)) {
		t.Fatalf("converted blob differs")
	}

	back := filepath.Join(t.TempDir(), "core_le.eff")
	if _, err := runApp(t, "convert", "--from", "big", "--to", "little", out, back); err != nil {
		t.Fatalf("convert back: %v", err)
	}
	if !bytes.Equal(readFile(t, back), readFile(t, in)) {
		t.Fatalf("little -> big -> little changed the blob")
	}
}

func TestConvertRequiresTarget(t *testing.T) {
	in := writeBlob(t, testContainer(), eff.LittleEndian)
	if _, err := runApp(t, "convert", in, filepath.Join(t.TempDir(), "out.eff")); err == nil {
		t.Fatalf("expected error without --to")
	}
}

func TestPositionalArgs(t *testing.T) {
	if _, err := runApp(t, "build", "only-one"); err == nil || !strings.Contains(err.Error(), "expects 2 argument") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInspect(t *testing.T) {
	c := testContainer()
	in := writeBlob(t, c, eff.BigEndian)

	out, err := runApp(t, "inspect", in)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"big endian", "texture_ids", "effects_0", "effects:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}

	out, err = runApp(t, "inspect", "--json", in)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var rep inspectReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if rep.Order != "big" || rep.Slots != uint32(eff.SlotCount) {
		t.Fatalf("unexpected report header: %+v", rep)
	}
	if rep.Stats != c.Stats() {
		t.Fatalf("stats: got %+v want %+v", rep.Stats, c.Stats())
	}
	if len(rep.Sections) != eff.SlotCount || rep.Sections[0].Offset != eff.HeaderSize {
		t.Fatalf("unexpected sections: %+v", rep.Sections)
	}
}

func TestSectionSpans(t *testing.T) {
	t.Parallel()

	var h eff.Header
	h.SlotCount = uint32(eff.SlotCount)
	h.Offsets[eff.SlotTextureIDs] = 0x40
	h.Offsets[eff.SlotPaths] = 0x100
	h.Offsets[eff.SlotCoreIDs] = 0x60

	got := sectionSpans(h, 0x180)
	want := []sectionInfo{
		{Slot: 0, Name: "texture_ids", Offset: 0x40, Size: 0x20},
		{Slot: 1, Name: "core_ids", Offset: 0x60, Size: 0xA0},
		{Slot: 9, Name: "paths", Offset: 0x100, Size: 0x80},
	}
	if len(got) != len(want) {
		t.Fatalf("sections: got %+v want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("section %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	c := testContainer()
	in := writeBlob(t, c, eff.BigEndian)
	dir := filepath.Join(t.TempDir(), "core")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	data := "byte_order: big\nwrite_obj: false\nlog_level: error\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := runApp(t, "--config", cfgPath, "extract", in, dir); err != nil {
		t.Fatalf("extract with config: %v", err)
	}
	if objs, _ := filepath.Glob(filepath.Join(dir, efftext.Effects0Dir, "*.obj")); len(objs) != 0 {
		t.Fatalf("write_obj=false ignored: %d previews", len(objs))
	}

	// An explicit flag wins over the file.
	out := filepath.Join(t.TempDir(), "rebuilt.eff")
	if _, err := runApp(t, "--config", cfgPath, "build", "--order", "little", dir, out); err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.Equal(readFile(t, out), marshal(t, c, eff.LittleEndian)) {
		t.Fatalf("--order little did not override byte_order: big")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configFile = ""
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("missing default config: %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	configFile = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { configFile = "" })
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for missing --config file")
	}

	configFile = filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configFile, []byte("byte_order: [\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}

	configFile = filepath.Join(t.TempDir(), "ok.yaml")
	if err := os.WriteFile(configFile, []byte("server_address: 0.0.0.0:9000\nmax_blob_size: 1024\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerAddress != "0.0.0.0:9000" || cfg.MaxBlobSize == nil || *cfg.MaxBlobSize != 1024 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "version:") {
		t.Fatalf("unexpected output: %q", out)
	}
}
