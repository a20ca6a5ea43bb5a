package transform

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// pdfcpuEngine implements Engine with the pdfcpu library.
type pdfcpuEngine struct {
	conf *model.Configuration
}

// NewPDFCPUEngine returns the default engine implementation.
func NewPDFCPUEngine() Engine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &pdfcpuEngine{conf: conf}
}

func (e *pdfcpuEngine) Merge(ctx context.Context, srcs []string) ([]byte, error) {
	return withOutFile(func(out string) error {
		if err := api.MergeCreateFile(srcs, out, false, e.conf); err != nil {
			return fmt.Errorf("merge: %w", err)
		}

		return nil
	})
}

func (e *pdfcpuEngine) Split(ctx context.Context, src string, span int) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "pdfvault-split-")
	if err != nil {
		return nil, fmt.Errorf("create split dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	if err := api.SplitFile(src, dir, span, e.conf); err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	return collectSplitOutputs(dir)
}

func (e *pdfcpuEngine) Compress(ctx context.Context, src string) ([]byte, error) {
	return withOutFile(func(out string) error {
		if err := api.OptimizeFile(src, out, e.conf); err != nil {
			return fmt.Errorf("compress: %w", err)
		}

		return nil
	})
}

func (e *pdfcpuEngine) RemovePages(ctx context.Context, src string, pages []int) ([]byte, error) {
	return withOutFile(func(out string) error {
		if err := api.RemovePagesFile(src, out, pageSelection(pages), e.conf); err != nil {
			return fmt.Errorf("remove pages: %w", err)
		}

		return nil
	})
}

func (e *pdfcpuEngine) ExtractPages(ctx context.Context, src string, pages []int) ([]byte, error) {
	return withOutFile(func(out string) error {
		if err := api.TrimFile(src, out, pageSelection(pages), e.conf); err != nil {
			return fmt.Errorf("extract pages: %w", err)
		}

		return nil
	})
}

func (e *pdfcpuEngine) CollectPages(ctx context.Context, src string, order []int) ([]byte, error) {
	return withOutFile(func(out string) error {
		if err := api.CollectFile(src, out, pageSelection(order), e.conf); err != nil {
			return fmt.Errorf("rearrange pages: %w", err)
		}

		return nil
	})
}

func (e *pdfcpuEngine) RotatePages(ctx context.Context, src string, degrees int, pages []int) ([]byte, error) {
	var sel []string
	if len(pages) > 0 {
		sel = pageSelection(pages)
	}

	return withOutFile(func(out string) error {
		if err := api.RotateFile(src, out, degrees, sel, e.conf); err != nil {
			return fmt.Errorf("rotate pages: %w", err)
		}

		return nil
	})
}

func (e *pdfcpuEngine) TextWatermark(ctx context.Context, src, text string, opacity float64, diagonal bool) ([]byte, error) {
	rot := 0
	if diagonal {
		rot = 45
	}

	desc := fmt.Sprintf("fontname:Helvetica, points:48, fillcolor:#b0b0b0, opacity:%.2f, rotation:%d", opacity, rot)

	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("text watermark: %w", err)
	}

	return withOutFile(func(out string) error {
		if err := api.AddWatermarksFile(src, out, nil, wm, e.conf); err != nil {
			return fmt.Errorf("text watermark: %w", err)
		}

		return nil
	})
}

func (e *pdfcpuEngine) ImageStamp(ctx context.Context, src, image string, opacity float64) ([]byte, error) {
	desc := fmt.Sprintf("scalefactor:0.5 rel, opacity:%.2f", opacity)

	wm, err := api.ImageWatermark(image, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("image stamp: %w", err)
	}

	return withOutFile(func(out string) error {
		if err := api.AddWatermarksFile(src, out, nil, wm, e.conf); err != nil {
			return fmt.Errorf("image stamp: %w", err)
		}

		return nil
	})
}

func (e *pdfcpuEngine) PageCount(ctx context.Context, src string) (int, error) {
	count, err := api.PageCountFile(src)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}

	return count, nil
}
