package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/yeisme/pdfvault/pkg/apperr"
	"github.com/yeisme/pdfvault/pkg/internal/model"
	"github.com/yeisme/pdfvault/pkg/internal/transform"
	"github.com/yeisme/pdfvault/pkg/metrics"
)

// PageRange is an inclusive zero-based page range.
type PageRange struct {
	Start int `json:"start" rule:"min=0"`
	End   int `json:"end"   rule:"min=0"`
}

// TransformService bridges the vault and the document-transform collaborator:
// it resolves source records to local paths, invokes one engine operation and
// persists the result as a new record. Source records are never mutated.
type TransformService struct {
	vault  *Vault
	engine transform.Engine
}

// NewTransformService creates a TransformService.
func NewTransformService(vault *Vault, engine transform.Engine) *TransformService {
	return &TransformService{vault: vault, engine: engine}
}

// onePlus converts zero-based page indices (the API surface) to the
// one-based numbering the engine expects.
func onePlus(pages []int) []int {
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		out = append(out, p+1)
	}

	return out
}

func transformErr(op string, err error) error {
	// The collaborator's message may embed local paths; clients get the
	// operation name only, the cause stays in logs.
	return apperr.Wrap(apperr.Transform, fmt.Sprintf("%s operation failed", op), err)
}

func (s *TransformService) persist(ctx context.Context, data []byte, name string) (*model.FileRecord, error) {
	return s.vault.Create(ctx, bytes.NewReader(data), int64(len(data)), name, "application/pdf", "transform")
}

// resultName derives a display name for a transform output from its source
// record.
func resultName(rec *model.FileRecord, suffix string) string {
	base := rec.OriginalName
	if base == "" {
		base = rec.StoredName
	}

	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" {
		base = "document"
	}

	return base + "_" + suffix + ".pdf"
}

// Merge concatenates the sources, in order, into a new record.
func (s *TransformService) Merge(ctx context.Context, ids []string) (*model.FileRecord, error) {
	srcs := make([]string, 0, len(ids))

	for _, id := range ids {
		p, cleanup, err := s.vault.MaterializeTemp(ctx, id)
		if err != nil {
			return nil, err
		}
		defer cleanup()

		srcs = append(srcs, p)
	}

	data, err := s.engine.Merge(ctx, srcs)
	if err != nil {
		return nil, transformErr("merge", err)
	}

	metrics.Transforms.WithLabelValues("merge").Inc()

	return s.persist(ctx, data, "merged.pdf")
}

// Split cuts the source into several new records. splitType "individual"
// yields one record per page; "every" cuts chunks of pageCount pages.
func (s *TransformService) Split(ctx context.Context, id, splitType string, pageCount int) ([]*model.FileRecord, error) {
	src, cleanup, err := s.vault.MaterializeTemp(ctx, id)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	span := 1
	if splitType == "every" {
		if pageCount < 1 {
			return nil, apperr.New(apperr.Validation, "pageCount must be at least 1")
		}

		span = pageCount
	}

	chunks, err := s.engine.Split(ctx, src, span)
	if err != nil {
		return nil, transformErr("split", err)
	}

	rec, _ := s.vault.Describe(ctx, id)
	if rec == nil {
		rec = &model.FileRecord{FileID: id}
	}

	records := make([]*model.FileRecord, 0, len(chunks))

	for i, chunk := range chunks {
		out, err := s.persist(ctx, chunk, resultName(rec, fmt.Sprintf("part%d", i+1)))
		if err != nil {
			return nil, err
		}

		records = append(records, out)
	}

	metrics.Transforms.WithLabelValues("split").Inc()

	return records, nil
}

// SplitRanges extracts each zero-based page range into its own new record.
func (s *TransformService) SplitRanges(ctx context.Context, id string, ranges []PageRange) ([]*model.FileRecord, error) {
	src, cleanup, err := s.vault.MaterializeTemp(ctx, id)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rec, _ := s.vault.Describe(ctx, id)
	if rec == nil {
		rec = &model.FileRecord{FileID: id}
	}

	records := make([]*model.FileRecord, 0, len(ranges))

	for i, rng := range ranges {
		if rng.End < rng.Start {
			return nil, apperr.Newf(apperr.Validation, "invalid page range %d-%d", rng.Start, rng.End)
		}

		pages := make([]int, 0, rng.End-rng.Start+1)
		for p := rng.Start; p <= rng.End; p++ {
			pages = append(pages, p)
		}

		data, err := s.engine.ExtractPages(ctx, src, onePlus(pages))
		if err != nil {
			return nil, transformErr("split", err)
		}

		out, err := s.persist(ctx, data, resultName(rec, fmt.Sprintf("part%d", i+1)))
		if err != nil {
			return nil, err
		}

		records = append(records, out)
	}

	metrics.Transforms.WithLabelValues("split").Inc()

	return records, nil
}

// Compress rewrites the source with optimized resources as a new record.
func (s *TransformService) Compress(ctx context.Context, id string) (*model.FileRecord, error) {
	return s.singleSource(ctx, id, "compress", "compressed", func(src string) ([]byte, error) {
		return s.engine.Compress(ctx, src)
	})
}

// RemovePages drops the given zero-based pages.
func (s *TransformService) RemovePages(ctx context.Context, id string, pages []int) (*model.FileRecord, error) {
	return s.singleSource(ctx, id, "remove-pages", "modified", func(src string) ([]byte, error) {
		return s.engine.RemovePages(ctx, src, onePlus(pages))
	})
}

// ExtractPages keeps only the given zero-based pages.
func (s *TransformService) ExtractPages(ctx context.Context, id string, pages []int) (*model.FileRecord, error) {
	return s.singleSource(ctx, id, "extract-pages", "extracted", func(src string) ([]byte, error) {
		return s.engine.ExtractPages(ctx, src, onePlus(pages))
	})
}

// RearrangePages rebuilds the document with pages in the given zero-based
// order.
func (s *TransformService) RearrangePages(ctx context.Context, id string, order []int) (*model.FileRecord, error) {
	return s.singleSource(ctx, id, "rearrange-pages", "rearranged", func(src string) ([]byte, error) {
		return s.engine.CollectPages(ctx, src, onePlus(order))
	})
}

// RotatePages applies per-page rotations, keyed by zero-based page index.
// Pages sharing an angle are rotated together; groups apply in ascending
// angle order.
func (s *TransformService) RotatePages(ctx context.Context, id string, rotations map[int]int) (*model.FileRecord, error) {
	src, cleanup, err := s.vault.MaterializeTemp(ctx, id)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	groups := make(map[int][]int)
	for page, degrees := range rotations {
		groups[degrees] = append(groups[degrees], page+1)
	}

	angles := make([]int, 0, len(groups))
	for a := range groups {
		angles = append(angles, a)
	}

	sort.Ints(angles)

	cur := src

	var data []byte

	for _, angle := range angles {
		pages := groups[angle]
		sort.Ints(pages)

		data, err = s.engine.RotatePages(ctx, cur, angle, pages)
		if err != nil {
			return nil, transformErr("rotate-pages", err)
		}

		// Chain groups through temp files; only the last output is persisted.
		if cur != src {
			_ = os.Remove(cur)
		}

		f, werr := os.CreateTemp("", "pdfvault-rot-*.pdf")
		if werr != nil {
			return nil, apperr.Wrap(apperr.Storage, "failed to create temp file", werr)
		}

		if _, werr := f.Write(data); werr != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())

			return nil, apperr.Wrap(apperr.Storage, "failed to write temp file", werr)
		}

		_ = f.Close()
		cur = f.Name()
	}

	if cur != src {
		defer os.Remove(cur)
	}

	if data == nil {
		return nil, apperr.New(apperr.Validation, "no rotations provided")
	}

	rec, _ := s.vault.Describe(ctx, id)
	if rec == nil {
		rec = &model.FileRecord{FileID: id}
	}

	metrics.Transforms.WithLabelValues("rotate-pages").Inc()

	return s.persist(ctx, data, resultName(rec, "rotated"))
}

// WatermarkText stamps text across every page.
func (s *TransformService) WatermarkText(ctx context.Context, id, text string, opacity float64, diagonal bool) (*model.FileRecord, error) {
	if opacity <= 0 || opacity > 1 {
		opacity = 0.3
	}

	return s.singleSource(ctx, id, "watermark", "watermarked", func(src string) ([]byte, error) {
		return s.engine.TextWatermark(ctx, src, text, opacity, diagonal)
	})
}

// WatermarkImage stamps a previously uploaded image over every page of the
// source document.
func (s *TransformService) WatermarkImage(ctx context.Context, id, imageID string, opacity float64) (*model.FileRecord, error) {
	if opacity <= 0 || opacity > 1 {
		opacity = 0.3
	}

	img, imgCleanup, err := s.vault.MaterializeTemp(ctx, imageID)
	if err != nil {
		return nil, err
	}
	defer imgCleanup()

	return s.singleSource(ctx, id, "add-image", "stamped", func(src string) ([]byte, error) {
		return s.engine.ImageStamp(ctx, src, img, opacity)
	})
}

// singleSource materializes one source, runs op and persists the result.
func (s *TransformService) singleSource(ctx context.Context, id, op, suffix string,
	fn func(src string) ([]byte, error),
) (*model.FileRecord, error) {
	src, cleanup, err := s.vault.MaterializeTemp(ctx, id)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	data, err := fn(src)
	if err != nil {
		return nil, transformErr(op, err)
	}

	rec, _ := s.vault.Describe(ctx, id)
	if rec == nil {
		rec = &model.FileRecord{FileID: id}
	}

	metrics.Transforms.WithLabelValues(op).Inc()

	return s.persist(ctx, data, resultName(rec, suffix))
}
