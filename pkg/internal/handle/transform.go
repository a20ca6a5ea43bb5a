package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/internal/model"
	"github.com/yeisme/pdfvault/pkg/internal/types"
)

func recordIDs(recs []*model.FileRecord) []string {
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.FileID)
	}

	return ids
}

// Merge concatenates two or more files into a new record.
func (h *Handler) Merge(c *gin.Context) {
	var req types.MergeRequest
	if !bind(c, &req) {
		return
	}

	rec, err := h.transforms.Merge(c.Request.Context(), req.FileIDs)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TransformResponse{
		Message: "files merged successfully",
		FileID:  rec.FileID,
	})
}

// Split cuts a file into parts according to the requested split type.
func (h *Handler) Split(c *gin.Context) {
	var req types.SplitRequest
	if !bind(c, &req) {
		return
	}

	var (
		recs []*model.FileRecord
		err  error
	)

	if req.SplitType == "ranges" {
		if len(req.Ranges) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ranges are required for split type ranges"})
			return
		}

		recs, err = h.transforms.SplitRanges(c.Request.Context(), req.FileID, req.Ranges)
	} else {
		recs, err = h.transforms.Split(c.Request.Context(), req.FileID, req.SplitType, req.PageCount)
	}

	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.MultiTransformResponse{
		Message: "file split successfully",
		FileIDs: recordIDs(recs),
	})
}

// Compress rewrites a file with optimized resources.
func (h *Handler) Compress(c *gin.Context) {
	var req types.CompressRequest
	if !bind(c, &req) {
		return
	}

	rec, err := h.transforms.Compress(c.Request.Context(), req.FileID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TransformResponse{
		Message: "file compressed successfully",
		FileID:  rec.FileID,
	})
}

// RemovePages drops the listed zero-based pages from a file.
func (h *Handler) RemovePages(c *gin.Context) {
	var req types.RemovePagesRequest
	if !bind(c, &req) {
		return
	}

	rec, err := h.transforms.RemovePages(c.Request.Context(), req.FileID, req.Pages)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TransformResponse{
		Message: "pages removed successfully",
		FileID:  rec.FileID,
	})
}

// ExtractPages keeps only the listed zero-based pages of a file.
func (h *Handler) ExtractPages(c *gin.Context) {
	var req types.ExtractPagesRequest
	if !bind(c, &req) {
		return
	}

	rec, err := h.transforms.ExtractPages(c.Request.Context(), req.FileID, req.Pages)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TransformResponse{
		Message: "pages extracted successfully",
		FileID:  rec.FileID,
	})
}

// RearrangePages rebuilds a file with pages in the given order.
func (h *Handler) RearrangePages(c *gin.Context) {
	var req types.RearrangeRequest
	if !bind(c, &req) {
		return
	}

	rec, err := h.transforms.RearrangePages(c.Request.Context(), req.FileID, req.Order)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TransformResponse{
		Message: "pages rearranged successfully",
		FileID:  rec.FileID,
	})
}

// RotatePages applies per-page rotations to a file.
func (h *Handler) RotatePages(c *gin.Context) {
	var req types.RotateRequest
	if !bind(c, &req) {
		return
	}

	for _, deg := range req.Rotations {
		if deg%90 != 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rotation must be a multiple of 90 degrees"})
			return
		}
	}

	rec, err := h.transforms.RotatePages(c.Request.Context(), req.FileID, req.Rotations)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TransformResponse{
		Message: "pages rotated successfully",
		FileID:  rec.FileID,
	})
}

// Watermark stamps a text watermark across every page of a file.
func (h *Handler) Watermark(c *gin.Context) {
	var req types.WatermarkRequest
	if !bind(c, &req) {
		return
	}

	wm := req.Watermark

	rec, err := h.transforms.WatermarkText(c.Request.Context(), req.FileID, wm.Text, wm.Opacity, wm.Diagonal)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TransformResponse{
		Message: "watermark added successfully",
		FileID:  rec.FileID,
	})
}

// AddImage stamps a previously uploaded image over every page of a file.
func (h *Handler) AddImage(c *gin.Context) {
	var req types.AddImageRequest
	if !bind(c, &req) {
		return
	}

	rec, err := h.transforms.WatermarkImage(c.Request.Context(), req.FileID, req.ImageID, req.Opacity)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TransformResponse{
		Message: "image added successfully",
		FileID:  rec.FileID,
	})
}
