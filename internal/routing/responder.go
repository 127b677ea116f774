package routing

import (
	"encoding/json"
	"html"
	"mime"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// ErrorEnvelope is the JSON body of every API error response.
type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	TraceID string            `json:"trace_id"`
	Meta    ErrorEnvelopeMeta `json:"meta"`
}

type ErrorEnvelopeMeta struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// WriteError answers with the JSON envelope for API and webhook routes, or
// for any request that accepts JSON, and with a minimal HTML page otherwise.
func WriteError(w http.ResponseWriter, r *http.Request, rc RouteClass, status int, code string, message string) {
	message = normalizeErrorMessage(code, message)
	if !isJSONOnly(rc) && !wantsJSON(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte("<!doctype html><html><body>" + html.EscapeString(message) + "</body></html>"))
		return
	}
	WriteJSON(w, status, ErrorEnvelope{
		Code:    code,
		Message: message,
		TraceID: traceIDFromRequest(r),
		Meta:    ErrorEnvelopeMeta{Path: r.URL.Path, Method: r.Method},
	})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsJSON(r *http.Request) bool {
	for part := range strings.SplitSeq(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(part)
		if err == nil && mt == "application/json" {
			return true
		}
	}
	return false
}

func isJSONOnly(rc RouteClass) bool {
	switch rc {
	case RouteClassInternalAPI, RouteClassPublicAPI, RouteClassWebhook:
		return true
	}
	return false
}

// traceIDFromRequest prefers the span already on the request context and
// falls back to the W3C traceparent header.
func traceIDFromRequest(r *http.Request) string {
	if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	parts := strings.Split(strings.TrimSpace(r.Header.Get("traceparent")), "-")
	if len(parts) != 4 {
		return ""
	}
	id, err := trace.TraceIDFromHex(strings.ToLower(parts[1]))
	if err != nil {
		return ""
	}
	return id.String()
}

var errorMessages = map[string]string{
	"forbidden":                    "You are not allowed to perform this operation.",
	"invalid_request":              "The request is invalid. Check the parameters and try again.",
	"MENU_NOT_FOUND":               "Menu not found.",
	"MENU_PARENT_NOT_FOUND":        "The selected parent menu does not exist.",
	"MENU_PARENT_CYCLE":            "The selected parent would create a loop in the menu hierarchy.",
	"MENU_HAS_CHILDREN":            "The menu still has child menus. Move or delete them first.",
	"ORG_RECORD_NOT_FOUND":         "No active organizational record matches the given criteria.",
	"ORG_UNIT_IN_USE":              "The organizational unit is referenced by personnel records.",
	"POSTAL_CODE_NOT_FOUND":        "Postal code not found.",
	"COLONY_POSTAL_CODE_NOT_FOUND": "The colony's postal code does not exist.",
	"POSTAL_CODE_HAS_COLONIES":     "The postal code still has colonies. Delete them first.",
	"LOG_FILE_ACTIVE":              "The active log file cannot be deleted.",
	"LOG_FILE_NAME_INVALID":        "Invalid log file name.",
	"LOG_FILE_NOT_FOUND":           "Log file not found.",
}

// normalizeErrorMessage replaces placeholder messages (empty, the code
// itself, "x_failed") with a sentence a user can read.
func normalizeErrorMessage(code string, message string) string {
	message = strings.TrimSpace(message)
	if !isGenericErrorMessage(code, message) {
		return message
	}
	if known, ok := errorMessages[code]; ok {
		return known
	}
	return humanizeErrorCode(code)
}

func isGenericErrorMessage(code string, message string) bool {
	m := strings.ToLower(strings.TrimSpace(message))
	switch {
	case m == "", m == "internal_error", m == "internal error":
		return true
	case strings.EqualFold(m, strings.TrimSpace(code)):
		return true
	case !strings.Contains(m, " "):
		return strings.HasSuffix(m, "_failed")
	}
	return len(strings.Fields(m)) <= 2 && (strings.HasSuffix(m, " failed") || strings.HasSuffix(m, " error"))
}

var upperWords = map[string]bool{"api": true, "db": true, "id": true, "uuid": true, "sql": true, "cel": true}

// humanizeErrorCode turns "menu_tree_failed" into "Menu tree failed.".
func humanizeErrorCode(code string) string {
	words := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(code)), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	switch {
	case len(words) == 0:
		return "Request failed."
	case len(words) == 1 && (words[0] == "failed" || words[0] == "error"):
		return "Request " + words[0] + "."
	}
	for i, w := range words {
		switch {
		case upperWords[w]:
			words[i] = strings.ToUpper(w)
		case i == 0:
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ") + "."
}
