package visualtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/require"
)

// TestReftests renders every snapshot in testdata/reftests together with
// its -ref.json counterpart and compares the images at two scales.
func TestReftests(t *testing.T) {
	testFiles := reftestFiles(t)
	if len(testFiles) == 0 {
		t.Skip("no reftests found")
	}
	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".json")
		for _, scale := range []float64{1, 2} {
			t.Run(fmt.Sprintf("%s@%gx", name, scale), func(t *testing.T) {
				runReftest(t, testFile, scale)
			})
		}
	}
}

func reftestFiles(t *testing.T) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join("testdata", "reftests", "*.json"))
	require.NoError(t, err)
	var tests []string
	for _, f := range files {
		if !strings.HasSuffix(f, "-ref.json") {
			tests = append(tests, f)
		}
	}
	return tests
}

func refPath(testPath string) string {
	return strings.TrimSuffix(testPath, ".json") + "-ref.json"
}

func runReftest(t *testing.T, testPath string, scale float64) {
	t.Helper()
	ref := refPath(testPath)
	if _, err := os.Stat(ref); os.IsNotExist(err) {
		t.Skipf("reference file not found: %s", ref)
	}

	actual, err := RenderSnapshotFile(testPath, scale)
	require.NoError(t, err, "render test")
	expected, err := RenderSnapshotFile(ref, scale)
	require.NoError(t, err, "render reference")

	opts := DefaultOptions()
	opts.SaveDiffImage = true
	result, err := Compare(actual, expected, opts)
	require.NoError(t, err)

	if !result.Match {
		t.Errorf("REFTEST FAIL: %d/%d pixels differ (%.1f%%, max diff: %d)",
			result.DifferentPixels, result.TotalPixels, result.DifferentPercent(), result.MaxDifference)

		// Keep the images for inspection.
		outputDir := filepath.Join("..", "..", "output", "reftests")
		if err := os.MkdirAll(outputDir, 0o755); err == nil {
			base := strings.TrimSuffix(filepath.Base(testPath), ".json")
			_ = gg.SavePNG(filepath.Join(outputDir, base+"_test.png"), actual)
			_ = gg.SavePNG(filepath.Join(outputDir, base+"_ref.png"), expected)
			_ = gg.SavePNG(filepath.Join(outputDir, base+"_diff.png"), result.Diff)
			t.Logf("  saved to output/reftests/%s_*.png", base)
		}
		return
	}
	t.Logf("REFTEST PASS (%d pixels, max diff: %d)", result.TotalPixels, result.MaxDifference)
}

func TestEveryReftestHasReference(t *testing.T) {
	for _, f := range reftestFiles(t) {
		require.FileExists(t, refPath(f))
	}
}
