package airtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxErrorBody caps how much of a failed response is read for diagnostics.
const maxErrorBody = 64 << 10

// APIError is returned for any non-2xx response.
//
// Type and Message come from Airtable's JSON error body when there is one,
// or Message holds the <title> of an HTML error page served by a proxy.
// The raw body is never included.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("airtable API returned status %d", e.StatusCode)
	switch {
	case e.Type != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", msg, e.Type, e.Message)
	case e.Type != "":
		return fmt.Sprintf("%s: %s", msg, e.Type)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", msg, e.Message)
	}
	return msg
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return apiErr
	}

	if isHTML(resp.Header.Get("Content-Type"), body) {
		apiErr.Message = htmlTitle(body)
		return apiErr
	}

	// Airtable sends either {"error": {"type": ..., "message": ...}}
	// or {"error": "NOT_FOUND"}.
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return apiErr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		apiErr.Type = detail.Type
		apiErr.Message = detail.Message
		return apiErr
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil {
		apiErr.Type = code
	}
	return apiErr
}

func isHTML(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType == "text/html"
	}
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}

// htmlTitle extracts a short description from an HTML error page
func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
