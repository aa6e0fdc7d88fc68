package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderFrame_WritesPPMWithRequestedDimensions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.ppm")

	app := buildApp()
	args := []string{"tracecore", "render",
		"--scene", "emission",
		"--width", "8",
		"--height", "8",
		"--spp", "1",
		"--out", out,
	}
	if err := app.Run(args); err != nil {
		t.Fatalf("app.Run returned error: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("expected PPM file to exist: %v", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(r, &magic, &width, &height, &maxVal); err != nil {
		t.Fatalf("failed to parse PPM header: %v", err)
	}

	if magic != "P3" {
		t.Errorf("expected P3 magic, got %q", magic)
	}
	if width != 8 || height != 8 {
		t.Errorf("expected 8x8 dimensions, got %dx%d", width, height)
	}
	if maxVal != 255 {
		t.Errorf("expected maxVal 255, got %d", maxVal)
	}
}
