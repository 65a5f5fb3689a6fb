package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Input validation and sanitization utilities

const (
	MaxAdCopyLen  = 5000
	MaxImageBytes = 8 << 20 // 8 MiB
	DefaultLimit  = 10
	MaxLimit      = 100
)

// ValidationError marks caller mistakes so the HTTP layer can answer 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateAdCopy checks the required ad copy field
func ValidateAdCopy(adCopy string) error {
	if strings.TrimSpace(adCopy) == "" {
		return &ValidationError{Field: "ad_copy", Message: "ad copy is required"}
	}
	if len(adCopy) > MaxAdCopyLen {
		return &ValidationError{Field: "ad_copy", Message: fmt.Sprintf("ad copy exceeds %d characters", MaxAdCopyLen)}
	}
	return nil
}

// ValidateImage checks the optional uploaded image
func ValidateImage(filename string, size int) error {
	if size > MaxImageBytes {
		return &ValidationError{Field: "image", Message: "image exceeds 8 MiB"}
	}
	allowed := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowed[ext] {
		return &ValidationError{Field: "image", Message: fmt.Sprintf("unsupported image type: %s (allowed: jpg, jpeg, png, gif, webp)", ext)}
	}
	return nil
}

// ClampLimit normalizes a listing limit to [1, MaxLimit], defaulting when unset.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
