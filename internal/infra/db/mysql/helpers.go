package mysql

import (
	"encoding/json"

	domain "github.com/adwatch/adscan/internal/domain/scans"
)

// The structured sub-objects are stored as JSON text and must deserialize
// back without loss.

func encodeViolations(v []domain.Violation) (string, error) {
	if v == nil {
		v = []domain.Violation{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func decodeViolations(s string) ([]domain.Violation, error) {
	out := []domain.Violation{}
	if s == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(s), &out)
	return out, err
}

func encodeRecommendations(r []string) (string, error) {
	if r == nil {
		r = []string{}
	}
	b, err := json.Marshal(r)
	return string(b), err
}

func decodeRecommendations(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(s), &out)
	return out, err
}
