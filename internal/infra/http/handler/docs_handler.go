package handler

import (
	"net/http"
)

// DocsHandler serves the API schema document at the root path.
type DocsHandler struct {
	schema []byte
}

// NewDocsHandler creates a docs handler serving the given OpenAPI document.
func NewDocsHandler(schema []byte) *DocsHandler {
	return &DocsHandler{schema: schema}
}

// Schema handles GET /.
func (h *DocsHandler) Schema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.schema)
}
