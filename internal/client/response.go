package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"rideadmin/pricing/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const maxErrorMessageLength = 200

var whitespace = regexp.MustCompile(`\s+`)

// APIError is a non-2xx answer from the admin API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == domain.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsAPIError unwraps an APIError
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type responseParser struct{}

func newResponseParser() *responseParser {
	return &responseParser{}
}

// ErrorMessage pulls a human readable message out of an error body. JSON
// bodies give their "message" or "error" field; HTML error pages from a proxy
// in front of the API give their title or visible text.
func (p *responseParser) ErrorMessage(body, contentType string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			if obj.Message != "" {
				return obj.Message
			}
			if obj.Error != "" {
				return obj.Error
			}
		}
	}

	if strings.Contains(contentType, "html") || strings.HasPrefix(strings.ToLower(trimmed), "<!doctype") || strings.HasPrefix(strings.ToLower(trimmed), "<html") {
		if msg := p.htmlMessage(trimmed); msg != "" {
			return msg
		}
	}

	return truncate(collapse(trimmed))
}

func (p *responseParser) htmlMessage(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if title := collapse(doc.Find("title").First().Text()); title != "" {
		return truncate(title)
	}
	if heading := collapse(doc.Find("h1").First().Text()); heading != "" {
		return truncate(heading)
	}
	return truncate(collapse(doc.Find("body").Text()))
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func truncate(s string) string {
	if len(s) <= maxErrorMessageLength {
		return s
	}
	cut := maxErrorMessageLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// decodeList accepts a bare JSON array or an object with the array under "data"
func decodeList[T any](body string) ([]T, error) {
	raw := bytes.TrimSpace([]byte(body))
	if len(raw) == 0 {
		return []T{}, nil
	}

	if raw[0] != '[' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode response envelope: %w", err)
		}
		raw = bytes.TrimSpace(envelope.Data)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return []T{}, nil
		}
	}

	items := make([]T, 0)
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode response list: %w", err)
	}
	return items, nil
}

// decodeObject accepts a bare JSON object or one wrapped under "data". An
// empty body yields a zero value.
func decodeObject[T any](body string) (*T, error) {
	raw := bytes.TrimSpace([]byte(body))
	result := new(T)
	if len(raw) == 0 {
		return result, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		data := bytes.TrimSpace(envelope.Data)
		if len(data) > 0 && data[0] == '{' {
			raw = data
		}
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return nil, fmt.Errorf("failed to decode response object: %w", err)
	}
	return result, nil
}

func decodeRidePage(body string) (*domain.RidePage, error) {
	page := &domain.RidePage{Rides: []domain.Ride{}}
	if err := json.Unmarshal([]byte(body), page); err != nil {
		return nil, fmt.Errorf("failed to decode rides page: %w", err)
	}
	if page.Rides == nil {
		page.Rides = []domain.Ride{}
	}
	return page, nil
}
