package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"domshot/pkg/visualtest"
)

// Regenerates the reference PNGs of a directory of snapshots: every
// <name>.json becomes reference/<name>.png.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Reference Image Generator for domshot")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/update-references <snapshot-dir> [scale]")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  go run ./cmd/update-references pkg/visualtest/testdata/reftests 2")
		os.Exit(1)
	}

	dir := os.Args[1]
	scale := 1.0
	if len(os.Args) >= 3 {
		s, err := strconv.ParseFloat(os.Args[2], 64)
		if err != nil || s <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid scale: %s\n", os.Args[2])
			os.Exit(1)
		}
		scale = s
	}

	n, err := generate(dir, scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ %d reference images generated\n", n)
}

func generate(dir string, scale float64) (int, error) {
	snapshots, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	for _, src := range snapshots {
		name := strings.TrimSuffix(filepath.Base(src), ".json") + ".png"
		ref := filepath.Join(dir, "reference", name)
		fmt.Printf("Generating: %s\n", ref)
		if err := visualtest.UpdateReferenceImage(src, ref, scale); err != nil {
			return 0, fmt.Errorf("failed to generate %s: %w", ref, err)
		}
	}
	return len(snapshots), nil
}
