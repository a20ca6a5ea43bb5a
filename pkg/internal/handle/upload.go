package handle

import (
	"mime/multipart"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/apperr"
	"github.com/yeisme/pdfvault/pkg/configs"
	"github.com/yeisme/pdfvault/pkg/internal/model"
	"github.com/yeisme/pdfvault/pkg/internal/types"
)

// maxUploadFiles bounds one multi-file upload request.
const maxUploadFiles = 10

// Upload stores a single multipart file under the form field "file".
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	rec, err := h.storeUpload(c, fh)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.UploadResponse{
		Message: "file uploaded successfully",
		File:    fileResponse(rec),
	})
}

// UploadMultiple stores up to maxUploadFiles multipart files under the form
// field "files". The request fails as a whole on the first invalid file;
// records stored before the failure remain and age out with the sweep.
func (h *Handler) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	fhs := form.File["files"]
	if len(fhs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	if len(fhs) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many files, at most 10 per request"})
		return
	}

	recs := make([]*model.FileRecord, 0, len(fhs))

	for _, fh := range fhs {
		rec, err := h.storeUpload(c, fh)
		if err != nil {
			renderError(c, err)
			return
		}

		recs = append(recs, rec)
	}

	c.JSON(http.StatusOK, types.UploadMultipleResponse{
		Message: "files uploaded successfully",
		Files:   fileResponses(recs),
	})
}

// storeUpload validates one multipart file and persists it as a new record.
// The extension allow-list and size bounds come from configuration; the MIME
// type is sniffed from content rather than trusting the client header.
func (h *Handler) storeUpload(c *gin.Context, fh *multipart.FileHeader) (*model.FileRecord, error) {
	cfg := configs.GetConfig()

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fh.Filename), "."))
	if !slices.Contains(cfg.Storage.GetAllowedExtensions(), ext) {
		return nil, apperr.Newf(apperr.Validation, "file type .%s is not allowed", ext)
	}

	if fh.Size > cfg.Storage.MaxFileSize {
		return nil, apperr.Newf(apperr.Validation, "file exceeds the %s limit",
			humanize.IBytes(uint64(cfg.Storage.MaxFileSize)))
	}

	if fh.Size < cfg.Storage.MinFileSize {
		return nil, apperr.New(apperr.Validation, "file is empty or too small")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to read uploaded file", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, "failed to detect file type", err)
	}

	// DetectReader consumed the sniff prefix; rewind before storing.
	if _, err := f.Seek(0, 0); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to rewind uploaded file", err)
	}

	return h.vault.Create(c.Request.Context(), f, fh.Size, fh.Filename, mt.String(), "upload")
}
