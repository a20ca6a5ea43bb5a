package handle_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/pdfvault/pkg/api"
	"github.com/yeisme/pdfvault/pkg/configs"
	"github.com/yeisme/pdfvault/pkg/internal/abuse"
	"github.com/yeisme/pdfvault/pkg/internal/handle"
	"github.com/yeisme/pdfvault/pkg/internal/service"
	"github.com/yeisme/pdfvault/pkg/internal/storage"
	"github.com/yeisme/pdfvault/pkg/middleware"
	"github.com/yeisme/pdfvault/pkg/scheduler"
	"github.com/yeisme/pdfvault/pkg/token"
)

// stubEngine satisfies the transform boundary; handler tests never reach it.
type stubEngine struct{}

func (stubEngine) Merge(context.Context, []string) ([]byte, error)          { return []byte("pdf"), nil }
func (stubEngine) Split(context.Context, string, int) ([][]byte, error)    { return nil, nil }
func (stubEngine) Compress(context.Context, string) ([]byte, error)        { return []byte("pdf"), nil }
func (stubEngine) RemovePages(context.Context, string, []int) ([]byte, error) {
	return []byte("pdf"), nil
}
func (stubEngine) ExtractPages(context.Context, string, []int) ([]byte, error) {
	return []byte("pdf"), nil
}
func (stubEngine) CollectPages(context.Context, string, []int) ([]byte, error) {
	return []byte("pdf"), nil
}
func (stubEngine) RotatePages(context.Context, string, int, []int) ([]byte, error) {
	return []byte("pdf"), nil
}
func (stubEngine) TextWatermark(context.Context, string, string, float64, bool) ([]byte, error) {
	return []byte("pdf"), nil
}
func (stubEngine) ImageStamp(context.Context, string, string, float64) ([]byte, error) {
	return []byte("pdf"), nil
}
func (stubEngine) PageCount(context.Context, string) (int, error) { return 1, nil }

type testServer struct {
	engine  *gin.Engine
	vault   *service.Vault
	tracker *abuse.Tracker
	issuer  *token.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	require.NoError(t, configs.InitConfig(t.TempDir()))
	cfg := configs.GetConfig()

	store := storage.NewLocalStoreFs(afero.NewMemMapFs())
	vault := service.NewVault(store, cfg.Storage.GetRetention())
	transforms := service.NewTransformService(vault, stubEngine{})
	issuer := token.NewIssuer(cfg.Token.Secret)

	tracker := abuse.NewTracker(cfg.Abuse.FailureThreshold,
		cfg.Abuse.GetBlockDuration(), cfg.Abuse.GetIdleTimeout())
	limiter := abuse.NewWindowLimiter()

	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)

	e := gin.New()
	e.Use(gin.Recovery(), middleware.AbuseGuard(tracker))

	h := handle.New(vault, transforms, issuer, sched)
	api.RegisterGroup(e, h, limiter, issuer)

	return &testServer{engine: e, vault: vault, tracker: tracker, issuer: issuer}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	return w
}

func pdfBody(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)

	// A recognizable PDF header plus padding past the minimum size check.
	_, err = fw.Write([]byte("%PDF-1.4\n" + strings.Repeat("0 obj padding\n", 20) + "%%EOF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, filename string) string {
	t.Helper()

	buf, contentType := pdfBody(t, "file", filename)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", buf)
	req.Header.Set("Content-Type", contentType)

	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		File struct {
			FileID string `json:"fileId"`
		} `json:"file"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.File.FileID)

	return resp.File.FileID
}

func TestUploadUnlockDownloadRoundTrip(t *testing.T) {
	s := newTestServer(t)

	fileID := s.upload(t, "Quarterly Report.pdf")

	body := strings.NewReader(`{"adWatched":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/unlock/"+fileID, body)
	req.Header.Set("Content-Type", "application/json")

	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var unlock struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unlock))
	require.NotEmpty(t, unlock.Token)
	assert.Equal(t, 3600, unlock.ExpiresIn)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/download/"+unlock.Token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "%PDF-1.4")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "quarterly_report.pdf")
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	s := newTestServer(t)

	buf, contentType := pdfBody(t, "file", "malware.exe")

	req := httptest.NewRequest(http.MethodPost, "/api/upload", buf)
	req.Header.Set("Content-Type", contentType)

	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not allowed")
}

func TestUploadRejectsTinyFile(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "tiny.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnlockRequiresAdWatched(t *testing.T) {
	s := newTestServer(t)

	fileID := s.upload(t, "doc.pdf")

	body := strings.NewReader(`{"adWatched":false}`)
	req := httptest.NewRequest(http.MethodPost, "/api/unlock/"+fileID, body)
	req.Header.Set("Content-Type", "application/json")

	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ad must be watched")
}

func TestUnlockUnknownFile(t *testing.T) {
	s := newTestServer(t)

	body := strings.NewReader(`{"adWatched":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/unlock/no-such-id", body)
	req.Header.Set("Content-Type", "application/json")

	w := s.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadRejectsMalformedToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/download/not-a-token", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "malformed")
}

func TestDownloadRejectsWrongClassToken(t *testing.T) {
	s := newTestServer(t)

	fileID := s.upload(t, "doc.pdf")

	signed, err := s.issuer.Issue(fileID, token.ClassGeneral, time.Hour)
	require.NoError(t, err)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/download/"+signed, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "class")
}

func TestDownloadRejectsExpiredToken(t *testing.T) {
	s := newTestServer(t)

	fileID := s.upload(t, "doc.pdf")

	signed, err := s.issuer.Issue(fileID, token.ClassDownload, -time.Minute)
	require.NoError(t, err)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/download/"+signed, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestDownloadAfterSweepIs404(t *testing.T) {
	s := newTestServer(t)

	fileID := s.upload(t, "doc.pdf")

	signed, err := s.issuer.Issue(fileID, token.ClassDownload, time.Hour)
	require.NoError(t, err)

	// Age the vault past retention and sweep; the token alone must not
	// resurrect the file.
	s.vault.SetNow(func() time.Time {
		return time.Now().Add(s.vault.Retention() + time.Minute)
	})

	_, _, err = s.vault.SweepExpired(context.Background())
	require.NoError(t, err)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/download/"+signed, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestFileInfo(t *testing.T) {
	s := newTestServer(t)

	fileID := s.upload(t, "Report Final.pdf")

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/files/"+fileID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "report_final.pdf")
	assert.Contains(t, w.Body.String(), "expiresAt")
}

func TestBlockedAddressGets403(t *testing.T) {
	s := newTestServer(t)

	threshold := configs.GetConfig().Abuse.FailureThreshold

	for i := range threshold {
		w := s.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/files/unknown-%d", i), nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	// The threshold is reached; the next request is refused before routing.
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "try again")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestTransformValidation(t *testing.T) {
	s := newTestServer(t)

	// Merge needs at least two file ids.
	req := httptest.NewRequest(http.MethodPost, "/api/merge",
		strings.NewReader(`{"fileIds":["only-one"]}`))
	req.Header.Set("Content-Type", "application/json")

	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// And at most ten; eleven must be rejected before any file is touched.
	ids := make([]string, 11)
	for i := range ids {
		ids[i] = fmt.Sprintf("file-%d", i)
	}

	body, err := json.Marshal(gin.H{"fileIds": ids})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/merge", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w = s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Rotations must be quarter turns.
	req = httptest.NewRequest(http.MethodPost, "/api/rotate-pages",
		strings.NewReader(`{"fileId":"abc","rotations":{"0":45}}`))
	req.Header.Set("Content-Type", "application/json")

	w = s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "90")
}
