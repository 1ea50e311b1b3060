package middleware

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var ownerPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateOwnerID validates owner ID format
func ValidateOwnerID(owner string) error {
	if owner == "" {
		return fmt.Errorf("owner ID cannot be empty")
	}
	if !ownerPattern.MatchString(owner) {
		return fmt.Errorf("invalid owner ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateID checks that a vehicle, analysis or report id is a UUID.
func ValidateID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty", kind)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid %s ID format", kind)
	}
	return nil
}

// ValidateAudioURL accepts an empty value or an absolute http(s) URL.
func ValidateAudioURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

var audioExtensions = map[string]bool{
	".m4a": true, ".mp4": true, ".aac": true, ".wav": true, ".caf": true,
	".3gp": true, ".mp3": true, ".ogg": true, ".opus": true,
}

// ValidateAudioName checks an uploaded file name. An empty name is allowed.
func ValidateAudioName(name string) error {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid characters in file name")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !audioExtensions[ext] {
		return fmt.Errorf("unsupported audio format: %q", ext)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ParseIntParam reads an optional integer query value; empty yields def.
func ParseIntParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return n, nil
}
