package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appscans "github.com/adwatch/adscan/internal/application/scans"
	domfail "github.com/adwatch/adscan/internal/domain/scanfailures"
	domain "github.com/adwatch/adscan/internal/domain/scans"
	"github.com/adwatch/adscan/internal/infra/ai/prompt"
	"github.com/adwatch/adscan/internal/middleware"
)

const serviceName = "Ad Compliance Scanner API"

type Router struct {
	scansSvc *appscans.Service
	logger   *zap.Logger
}

func NewRouter(scansSvc *appscans.Service, logger *zap.Logger, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{scansSvc: scansSvc, logger: logger}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RequestLogger(logger))
	mux.Use(middleware.CountRequests)

	mux.Get("/", r.wrap(r.handleRoot))
	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler())

	mux.Post("/scan", r.wrap(r.handleScan))
	mux.Get("/scan/{scanID}", r.wrap(r.handleGetScan))
	mux.Get("/scan/{scanID}/failures", r.wrap(r.handleScanFailures))
	mux.Get("/history/{userID}", r.wrap(r.handleHistory))
	mux.Get("/policies", r.wrap(r.handlePolicies))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var ve *middleware.ValidationError
			if errors.As(err, &ve) {
				http.Error(w, ve.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "scan not found", http.StatusNotFound)
				return
			}
			r.logger.Error("request failed",
				zap.String("path", req.URL.Path), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) error {
	resp := map[string]any{
		"message": serviceName,
		"version": "1.0",
		"endpoints": map[string]string{
			"/scan":              "POST - Scan ad copy and image",
			"/scan/{scan_id}":    "GET - Get scan details",
			"/history/{user_id}": "GET - Get scan history",
			"/policies":          "GET - Advertising policies reference",
			"/health":            "GET - Health check",
		},
	}
	return writeJSON(w, http.StatusOK, resp)
}

// ScanResponse is the POST /scan reply shape
type ScanResponse struct {
	ScanID          domain.ScanID      `json:"scan_id"`
	ComplianceScore float64            `json:"compliance_score"`
	RiskLevel       domain.RiskLevel   `json:"risk_level"`
	Violations      []domain.Violation `json:"violations"`
	Recommendations []string           `json:"recommendations"`
	Summary         string             `json:"summary"`
}

// POST /scan
// multipart form: ad_copy (required), user_id (optional), image (optional file)
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(middleware.MaxImageBytes + 1<<20); err != nil {
		return &middleware.ValidationError{Field: "body", Message: "invalid multipart form"}
	}

	adCopy := req.FormValue("ad_copy")
	if err := middleware.ValidateAdCopy(adCopy); err != nil {
		return err
	}
	userID := req.FormValue("user_id")

	var imageName, mediaType string
	var imageData []byte
	file, header, err := req.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		imageData, err = io.ReadAll(file)
		if err != nil {
			return &middleware.ValidationError{Field: "image", Message: "could not read image"}
		}
		imageName = header.Filename
		if verr := middleware.ValidateImage(imageName, len(imageData)); verr != nil {
			return verr
		}
		mediaType = header.Header.Get("Content-Type")
		if mediaType == "" {
			mediaType = http.DetectContentType(imageData)
		}
	case errors.Is(err, http.ErrMissingFile):
		// image stays optional
	default:
		return &middleware.ValidationError{Field: "image", Message: "invalid image upload"}
	}

	middleware.IncrementScans()
	scan, err := r.scansSvc.Scan(req.Context(), appscans.ScanCommand{
		UserID:         userID,
		AdCopy:         adCopy,
		ImageName:      imageName,
		ImageData:      imageData,
		ImageMediaType: mediaType,
	})
	if err != nil {
		return err
	}
	if degraded(scan.Analysis) {
		middleware.IncrementScansDegraded()
	}

	return writeJSON(w, http.StatusOK, ScanResponse{
		ScanID:          scan.ID,
		ComplianceScore: scan.ComplianceScore,
		RiskLevel:       scan.RiskLevel,
		Violations:      scan.Violations,
		Recommendations: scan.Recommendations,
		Summary:         scan.Summary,
	})
}

// GET /scan/{scanID}
func (r *Router) handleGetScan(w http.ResponseWriter, req *http.Request) error {
	id, err := scanIDParam(req)
	if err != nil {
		return err
	}
	scan, err := r.scansSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, scan)
}

// GET /scan/{scanID}/failures
func (r *Router) handleScanFailures(w http.ResponseWriter, req *http.Request) error {
	id, err := scanIDParam(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.scansSvc.FailuresByScan(req.Context(), id, middleware.ClampLimit(limit))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domfail.Failure{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"scan_id":  id,
		"failures": list,
	})
}

// GET /history/{userID}?limit=10
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	userID := chi.URLParam(req, "userID")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	entries, err := r.scansSvc.History(req.Context(), userID, middleware.ClampLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"user_id":     userID,
		"total_scans": len(entries),
		"scans":       entries,
	})
}

// GET /policies
func (r *Router) handlePolicies(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"version":    prompt.PolicyVersion,
		"policies":   prompt.Policies,
		"categories": prompt.Categories(),
	})
}

func scanIDParam(req *http.Request) (domain.ScanID, error) {
	raw := chi.URLParam(req, "scanID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &middleware.ValidationError{Field: "scan_id", Message: "scan id must be an integer"}
	}
	return domain.ScanID(id), nil
}

func degraded(a domain.Analysis) bool {
	return len(a.Violations) == 1 && a.Violations[0].Category == "Analysis Error"
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
