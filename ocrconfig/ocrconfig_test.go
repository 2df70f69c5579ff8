package ocrconfig_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v2"

	"github.com/rafelafrance/ocrensemble/ensemble"
	"github.com/rafelafrance/ocrensemble/ocrconfig"
)

func TestDefaultHasSensibleGapPenalties(t *testing.T) {
	cfg := ocrconfig.Default()
	if cfg.GapOpen > 0 || cfg.GapExtend > 0 {
		t.Fatalf("default gap penalties must be <= 0, got open=%v extend=%v", cfg.GapOpen, cfg.GapExtend)
	}
	if !cfg.NoneEasyOCR || !cfg.NoneTesseract {
		t.Fatal("default config must enable at least one OCR pipeline")
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := ocrconfig.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ocrconfig.Default(), cfg); diff != "" {
		t.Fatalf("Load(\"\") mismatch with Default() (-want +got):\n%s", diff)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlText := "char_set: herbarium\nfilter_threshold: 64\npost_process: true\n"
	if err := os.WriteFile(path, []byte(yamlText), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ocrconfig.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CharSet != "herbarium" {
		t.Errorf("CharSet = %q, want %q", cfg.CharSet, "herbarium")
	}
	if cfg.FilterThreshold != 64 {
		t.Errorf("FilterThreshold = %d, want 64", cfg.FilterThreshold)
	}
	if !cfg.PostProcess {
		t.Error("PostProcess = false, want true")
	}
	// Unset fields keep their compiled-in default.
	if cfg.VocabLen != ocrconfig.Default().VocabLen {
		t.Errorf("VocabLen = %d, want default %d", cfg.VocabLen, ocrconfig.Default().VocabLen)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := ocrconfig.Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("Load of a missing explicit path must return an error")
	}
}

func newFlagContext(t *testing.T, set map[string]string) *cli.Context {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	app := &cli.App{Flags: ocrconfig.Flags()}
	for _, f := range app.Flags {
		if err := f.Apply(fs); err != nil {
			t.Fatal(err)
		}
	}
	var args []string
	for name, value := range set {
		args = append(args, "-"+name+"="+value)
	}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(app, fs, nil)
}

func TestApplyFlagsOverridesOnlySetFlags(t *testing.T) {
	base := ocrconfig.Default()
	c := newFlagContext(t, map[string]string{"filter-threshold": "32"})

	got := ocrconfig.ApplyFlags(base, c)
	if got.FilterThreshold != 32 {
		t.Errorf("FilterThreshold = %d, want 32", got.FilterThreshold)
	}
	if got.CharSet != base.CharSet {
		t.Errorf("CharSet = %q, want unchanged %q", got.CharSet, base.CharSet)
	}
}

func TestApplyFlagsPipelineBooleans(t *testing.T) {
	base := ocrconfig.Default()
	c := newFlagContext(t, map[string]string{"post-process": "true", "none-tesseract": "false"})

	got := ocrconfig.ApplyFlags(base, c)
	if !got.PostProcess {
		t.Error("PostProcess = false, want true")
	}
	if got.NoneTesseract {
		t.Error("NoneTesseract = true, want false")
	}
}

func TestPipesProjection(t *testing.T) {
	cfg := ocrconfig.Default()
	cfg.PostProcess = true

	pipes := cfg.Pipes()
	if !pipes[ensemble.NoneEasyOCR] || !pipes[ensemble.NoneTesseract] {
		t.Fatal("Pipes must carry the default OCR pipelines through")
	}
	if !pipes[ensemble.PostProcess] {
		t.Fatal("Pipes must carry PostProcess through")
	}
	if pipes[ensemble.DeskewEasyOCR] {
		t.Fatal("Pipes must not enable a pipe the config never set")
	}
}
