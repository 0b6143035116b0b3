package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func ReplyWithError(w http.ResponseWriter, statusCode int, errMsg string) {
	ReplyWithErrorKind(w, statusCode, "", errMsg)
}

func ReplyWithErrorKind(w http.ResponseWriter, statusCode int, kind, errMsg string) {
	errResponse := &ErrorResponse{
		Message: errMsg,
		Kind:    kind,
	}
	ReplyJSONResponse(w, statusCode, errResponse)
}

func ReplyJSONResponse(w http.ResponseWriter, statusCode int, output any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(output)
}

// DecodeJSONBody decodes the request body into placeholder. Numbers are kept
// as json.Number so callers can tell integers from decimals.
func DecodeJSONBody(r *http.Request, placeholder any) error {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(reqBody))
	decoder.UseNumber()
	if err := decoder.Decode(placeholder); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}

	return nil
}

func GetQueryParam(r *http.Request, name string) string {
	return r.URL.Query().Get(name)
}

func GetSpanFromContext(r *http.Request) trace.Span {
	return trace.SpanFromContext(r.Context())
}
