// Package transform is the document-transform collaborator boundary. Every
// operation takes paths to readable bytes and returns bytes to persist; the
// vault owns identity, metadata and retention of the results.
package transform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Engine is the set of document operations the service exposes. Page numbers
// are one-based.
type Engine interface {
	// Merge concatenates the sources into one document.
	Merge(ctx context.Context, srcs []string) ([]byte, error)
	// Split cuts the source into chunks of span pages (span 1 yields one
	// document per page), returned in page order.
	Split(ctx context.Context, src string, span int) ([][]byte, error)
	// Compress rewrites the document with optimized resources.
	Compress(ctx context.Context, src string) ([]byte, error)
	// RemovePages drops the given pages.
	RemovePages(ctx context.Context, src string, pages []int) ([]byte, error)
	// ExtractPages keeps only the given pages.
	ExtractPages(ctx context.Context, src string, pages []int) ([]byte, error)
	// CollectPages rebuilds the document with pages in the given order;
	// pages may repeat or be omitted.
	CollectPages(ctx context.Context, src string, order []int) ([]byte, error)
	// RotatePages rotates the given pages by degrees (multiples of 90).
	// An empty page list rotates the whole document.
	RotatePages(ctx context.Context, src string, degrees int, pages []int) ([]byte, error)
	// TextWatermark stamps text across every page.
	TextWatermark(ctx context.Context, src, text string, opacity float64, diagonal bool) ([]byte, error)
	// ImageStamp stamps the image file over every page.
	ImageStamp(ctx context.Context, src, image string, opacity float64) ([]byte, error)
	// PageCount reports the number of pages.
	PageCount(ctx context.Context, src string) (int, error)
}

// pageSelection renders one-based page numbers as a pdfcpu selection.
func pageSelection(pages []int) []string {
	sel := make([]string, 0, len(pages))
	for _, p := range pages {
		sel = append(sel, fmt.Sprintf("%d", p))
	}

	return sel
}

// withOutFile runs fn against a temp output path and returns the bytes it
// produced.
func withOutFile(fn func(out string) error) ([]byte, error) {
	f, err := os.CreateTemp("", "pdfvault-out-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	out := f.Name()
	_ = f.Close()

	defer func() { _ = os.Remove(out) }()

	if err := fn(out); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read output file: %w", err)
	}

	return data, nil
}

// collectSplitOutputs reads the documents a split wrote into dir, in name
// order, which matches page order for pdfcpu's <name>_<n>.pdf scheme when
// zero-padded by sortSplitNames.
func collectSplitOutputs(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read split dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	sortSplitNames(names)

	chunks := make([][]byte, 0, len(names))

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read split output %s: %w", name, err)
		}

		chunks = append(chunks, data)
	}

	return chunks, nil
}

// sortSplitNames orders split outputs numerically on the trailing _<n>
// component so page 10 sorts after page 9.
func sortSplitNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		ni, oki := trailingNumber(names[i])
		nj, okj := trailingNumber(names[j])

		if oki && okj && ni != nj {
			return ni < nj
		}

		return names[i] < names[j]
	})
}

func trailingNumber(name string) (int, bool) {
	base := name[:len(name)-len(filepath.Ext(name))]

	idx := -1
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] < '0' || base[i] > '9' {
			idx = i
			break
		}
	}

	if idx == len(base)-1 || idx < 0 {
		return 0, false
	}

	var n int
	if _, err := fmt.Sscanf(base[idx+1:], "%d", &n); err != nil {
		return 0, false
	}

	return n, true
}
