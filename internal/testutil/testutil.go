package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"libroteca/internal/entity"
)

// TestBook is a canned book record for handler tests.
var TestBook = entity.Book{
	ID:              MustObjectID("64f0c2a4b1e3d5a6c7b8e901"),
	Title:           "The Test Book",
	Author:          "Test Author",
	Genre:           "Fiction",
	PublicationDate: 1999,
	Fragment:        "An opening line.",
}

// TestAccount is a canned account record for handler tests. Password
// must be filled in per test when a real hash is needed.
var TestAccount = entity.Account{
	ID:       MustObjectID("64f0c2a4b1e3d5a6c7b8e902"),
	Username: "alice123",
}

// MustObjectID parses a 24-hex identifier or panics.
func MustObjectID(hex string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return oid
}

// NewJSONRequest creates a request with a JSON-encoded body.
func NewJSONRequest(method, path string, body interface{}) *http.Request {
	var r *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewMultipartRequest creates a request carrying the given form fields
// as a multipart body.
func NewMultipartRequest(method, path string, fields map[string]string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()

	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// RecordedResponse is a decoded HTTP response for assertions.
type RecordedResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// Record reads back what the handler wrote to the recorder.
func Record(w *httptest.ResponseRecorder) RecordedResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordedResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
