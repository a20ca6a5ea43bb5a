// Package types defines the HTTP request and response bodies of the API.
// Validation lives in the rule tags; handlers bind and validate, services
// only ever see checked values.
package types

import "github.com/yeisme/pdfvault/pkg/internal/service"

// FileResponse is the public shape of a stored file record.
type FileResponse struct {
	FileID       string `json:"fileId"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}

// UploadResponse is returned by the single-file upload route.
type UploadResponse struct {
	Message string       `json:"message"`
	File    FileResponse `json:"file"`
}

// UploadMultipleResponse is returned by the multi-file upload route.
type UploadMultipleResponse struct {
	Message string         `json:"message"`
	Files   []FileResponse `json:"files"`
}

// UnlockRequest acknowledges the reward gate for a download.
type UnlockRequest struct {
	AdWatched bool `json:"adWatched"`
}

// UnlockResponse carries the issued download token.
type UnlockResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// MergeRequest merges the listed files in order. Between 2 and 10 files per
// merge.
type MergeRequest struct {
	FileIDs []string `json:"fileIds" rule:"required,min=2,max=10,dive,required"`
}

// SplitRequest cuts one file into parts. SplitType "individual" produces one
// part per page, "every" cuts chunks of PageCount pages, "ranges" extracts
// the listed ranges.
type SplitRequest struct {
	FileID    string              `json:"fileId"    rule:"required"`
	SplitType string              `json:"splitType" rule:"required,oneof=individual every ranges"`
	PageCount int                 `json:"pageCount" rule:"omitempty,min=1"`
	Ranges    []service.PageRange `json:"ranges"    rule:"omitempty,min=1,dive"`
}

// CompressRequest rewrites one file with optimized resources. Quality is
// accepted for compatibility; the optimizer has no quality knob.
type CompressRequest struct {
	FileID  string `json:"fileId"  rule:"required"`
	Quality string `json:"quality" rule:"omitempty,oneof=low medium high"`
}

// RemovePagesRequest drops zero-based pages from one file.
type RemovePagesRequest struct {
	FileID string `json:"fileId"        rule:"required"`
	Pages  []int  `json:"pagesToRemove" rule:"required,min=1,dive,min=0"`
}

// ExtractPagesRequest keeps only the listed zero-based pages of one file.
type ExtractPagesRequest struct {
	FileID string `json:"fileId"         rule:"required"`
	Pages  []int  `json:"pagesToExtract" rule:"required,min=1,dive,min=0"`
}

// RearrangeRequest rebuilds one file with pages in the given order.
type RearrangeRequest struct {
	FileID string `json:"fileId"    rule:"required"`
	Order  []int  `json:"pageOrder" rule:"required,min=1,dive,min=0"`
}

// RotateRequest applies per-page rotations, keyed by zero-based page index,
// in degrees clockwise.
type RotateRequest struct {
	FileID    string      `json:"fileId"    rule:"required"`
	Rotations map[int]int `json:"rotations" rule:"required,min=1"`
}

// WatermarkOptions describes a text watermark.
type WatermarkOptions struct {
	Type     string  `json:"type"    rule:"required,oneof=text"`
	Text     string  `json:"text"    rule:"required,max=200"`
	Opacity  float64 `json:"opacity" rule:"omitempty,gt=0,lte=1"`
	Diagonal bool    `json:"diagonal"`
}

// WatermarkRequest stamps a watermark across every page of one file.
type WatermarkRequest struct {
	FileID    string           `json:"fileId"    rule:"required"`
	Watermark WatermarkOptions `json:"watermark" rule:"required"`
}

// AddImageRequest stamps a previously uploaded image over every page.
type AddImageRequest struct {
	FileID  string  `json:"fileId"  rule:"required"`
	ImageID string  `json:"imageId" rule:"required"`
	Opacity float64 `json:"opacity" rule:"omitempty,gt=0,lte=1"`
}

// TransformResponse is returned by transforms producing a single file.
type TransformResponse struct {
	Message string `json:"message"`
	FileID  string `json:"fileId"`
}

// MultiTransformResponse is returned by transforms producing several files.
type MultiTransformResponse struct {
	Message string   `json:"message"`
	FileIDs []string `json:"fileIds"`
}
