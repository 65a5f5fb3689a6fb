package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adwatch/adscan/internal/application"
	appscans "github.com/adwatch/adscan/internal/application/scans"
	domai "github.com/adwatch/adscan/internal/domain/ai"
	domfail "github.com/adwatch/adscan/internal/domain/scanfailures"
	domain "github.com/adwatch/adscan/internal/domain/scans"
	"github.com/adwatch/adscan/internal/infra/ai/prompt"
)

const classifierReply = `{
	"compliance_score": 20,
	"risk_level": "CRITICAL",
	"violations": [{
		"category": "Health & Weight Loss",
		"severity": "HIGH",
		"issue": "Guaranteed weight loss claim",
		"text_snippet": "Guaranteed results",
		"policy_reference": "Health & Weight Loss"
	}],
	"recommendations": ["Drop the guarantee"],
	"summary": "Non-compliant weight loss ad"
}`

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	scans  map[domain.ScanID]*domain.Scan
}

func (r *memRepo) Create(ctx context.Context, s *domain.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = domain.ScanID(r.nextID)
	copied := *s
	r.scans[s.ID] = &copied
	return nil
}

func (r *memRepo) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.HistoryEntry{}
	for id := domain.ScanID(r.nextID); id >= 1 && len(out) < limit; id-- {
		s, ok := r.scans[id]
		if !ok || s.UserID != userID {
			continue
		}
		out = append(out, domain.HistoryEntry{
			ScanID:          s.ID,
			ComplianceScore: s.ComplianceScore,
			RiskLevel:       s.RiskLevel,
			CreatedAt:       s.CreatedAt,
			AdCopyPreview:   domain.PreviewAdCopy(s.AdCopy),
		})
	}
	return out, nil
}

type stubClassifier struct {
	reply string
	err   error
}

func (c *stubClassifier) Classify(ctx context.Context, p domai.Prompt) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type memFailures struct {
	mu    sync.Mutex
	saved []*domfail.Failure
}

func (f *memFailures) Save(ctx context.Context, e *domfail.Failure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, e)
	return nil
}

func (f *memFailures) ListByScan(ctx context.Context, scanID int64, limit int) ([]*domfail.Failure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domfail.Failure{}
	for _, e := range f.saved {
		if e.ScanID == scanID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestHandler(cls domai.Classifier) (http.Handler, *memRepo) {
	repo := &memRepo{scans: map[domain.ScanID]*domain.Scan{}}
	svc := &appscans.Service{
		Repo:       repo,
		Classifier: cls,
		Prompts:    prompt.NewBuilder(),
		Failures:   &memFailures{},
		Clock:      application.SystemClock{},
		Logger:     zap.NewNop(),
	}
	return NewRouter(svc, zap.NewNop(), nil), repo
}

func scanForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestScanEndpoint(t *testing.T) {
	h, _ := newTestHandler(&stubClassifier{reply: classifierReply})

	body, contentType := scanForm(t, map[string]string{
		"ad_copy": "Lose 30 pounds in 2 weeks! Guaranteed results!",
		"user_id": "u1",
	})
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ScanID(1), resp.ScanID)
	assert.Equal(t, float64(20), resp.ComplianceScore)
	assert.Equal(t, domain.RiskCritical, resp.RiskLevel)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "Drop the guarantee", resp.Recommendations[0])
	assert.Equal(t, "Non-compliant weight loss ad", resp.Summary)
}

func TestScanEndpointMissingAdCopy(t *testing.T) {
	h, _ := newTestHandler(&stubClassifier{reply: classifierReply})

	body, contentType := scanForm(t, map[string]string{"user_id": "u1"})
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ad copy is required")
}

func TestScanEndpointClassifierDownStillAnswers(t *testing.T) {
	h, repo := newTestHandler(&stubClassifier{err: errors.New("upstream timeout")})

	body, contentType := scanForm(t, map[string]string{"ad_copy": "some ad"})
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(50), resp.ComplianceScore)
	assert.Equal(t, domain.RiskMedium, resp.RiskLevel)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "Analysis Error", resp.Violations[0].Category)

	// degraded scans are persisted too
	stored, err := repo.Get(context.Background(), resp.ScanID)
	require.NoError(t, err)
	assert.Equal(t, domain.AnonymousUser, stored.UserID)
}

func TestGetScanRoundTrip(t *testing.T) {
	h, _ := newTestHandler(&stubClassifier{reply: classifierReply})

	body, contentType := scanForm(t, map[string]string{"ad_copy": "Guaranteed results!", "user_id": "u1"})
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/scan/1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var scan domain.Scan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scan))
	assert.Equal(t, "Guaranteed results!", scan.AdCopy)
	require.Len(t, scan.Violations, 1)
	assert.Equal(t, "Health & Weight Loss", scan.Violations[0].Category)
	assert.Equal(t, domain.SeverityHigh, scan.Violations[0].Severity)
	assert.Equal(t, []string{"Drop the guarantee"}, scan.Recommendations)
}

func TestGetScanNotFound(t *testing.T) {
	h, _ := newTestHandler(&stubClassifier{reply: classifierReply})

	req := httptest.NewRequest(http.MethodGet, "/scan/999", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetScanBadID(t *testing.T) {
	h, _ := newTestHandler(&stubClassifier{reply: classifierReply})

	req := httptest.NewRequest(http.MethodGet, "/scan/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	h, repo := newTestHandler(&stubClassifier{reply: classifierReply})

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &domain.Scan{
			UserID:    "u1",
			AdCopy:    string(long),
			Analysis:  domain.Analysis{ComplianceScore: 90, RiskLevel: domain.RiskLow},
			CreatedAt: time.Now().UTC(),
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/history/u1?limit=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		UserID     string                `json:"user_id"`
		TotalScans int                   `json:"total_scans"`
		Scans      []domain.HistoryEntry `json:"scans"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, 2, resp.TotalScans)
	require.Len(t, resp.Scans, 2)
	assert.Equal(t, domain.ScanID(3), resp.Scans[0].ScanID)
	assert.Len(t, resp.Scans[0].AdCopyPreview, 103) // 100 chars + marker
}

func TestPoliciesEndpoint(t *testing.T) {
	h, _ := newTestHandler(&stubClassifier{reply: classifierReply})

	req := httptest.NewRequest(http.MethodGet, "/policies", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Policies   string   `json:"policies"`
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Policies, "PROHIBITED CONTENT")
	assert.Contains(t, resp.Categories, "Financial Claims")
}

func TestRootAndHealth(t *testing.T) {
	h, _ := newTestHandler(&stubClassifier{reply: classifierReply})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), serviceName)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}
