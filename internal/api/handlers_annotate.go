package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/haemilia/Ybigta-HDMedi/internal/annotate"
	"github.com/haemilia/Ybigta-HDMedi/internal/extractor"
	"github.com/haemilia/Ybigta-HDMedi/internal/keywords"
	"github.com/haemilia/Ybigta-HDMedi/internal/label"
	"github.com/haemilia/Ybigta-HDMedi/internal/personal"
	"github.com/haemilia/Ybigta-HDMedi/internal/segment"
)

// annotateRequest is the body of POST /api/annotate. Text is a pointer
// so that a JSON null (missing label data) degrades to an empty result
// instead of an error. Keywords, when present, overrides the server's
// configuration; it stays raw because key order carries the id scheme.
type annotateRequest struct {
	Text               *string         `json:"text"`
	Keywords           json.RawMessage `json:"keywords,omitempty"`
	PriorMedications   []string        `json:"prior_medications,omitempty"`
	DiseasesOfInterest []string        `json:"diseases_of_interest,omitempty"`
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	text := ""
	if req.Text != nil {
		text = *req.Text
	}

	cfg := s.keywords
	if len(req.Keywords) > 0 {
		parsed, err := keywords.Parse(bytes.NewReader(req.Keywords))
		if err != nil {
			jsonError(w, "invalid keywords: "+err.Error(), http.StatusBadRequest)
			return
		}
		cfg = parsed
	}

	var user *personal.Context
	if len(req.PriorMedications) > 0 || len(req.DiseasesOfInterest) > 0 {
		user = &personal.Context{
			PriorMedications: req.PriorMedications,
			DiseaseInterests: req.DiseasesOfInterest,
		}
	}

	res, err := annotate.Annotate(text, cfg, user)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

type segmentRequest struct {
	Text *string `json:"text"`
}

// sectionJSON is the wire form of one segmented section: either plain
// text or an ordered fragment list, never both.
type sectionJSON struct {
	Heading   string   `json:"heading"`
	Text      string   `json:"text,omitempty"`
	Fragments []string `json:"fragments,omitempty"`
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	text := ""
	if req.Text != nil {
		text = *req.Text
	}
	doc := segment.Split(text)

	sections := []sectionJSON{}
	for _, sec := range doc.Sections() {
		out := sectionJSON{Heading: sec.Heading}
		switch c := sec.Content.(type) {
		case label.Plain:
			out.Text = string(c)
		case label.Subsections:
			out.Fragments = c
		}
		sections = append(sections, out)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"sections": sections})
}

// handleAnnotateFile runs the full pass synchronously on one uploaded
// document.
func (s *Server) handleAnnotateFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !extractor.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	ex, err := extractor.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pe, ok := ex.(*extractor.PDFExtractor); ok {
		pe.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}
	text, err := ex.Extract(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "extract: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	var user *personal.Context
	if meds, diseases := splitList(r.FormValue("prior_medications")), splitList(r.FormValue("diseases_of_interest")); len(meds) > 0 || len(diseases) > 0 {
		user = &personal.Context{PriorMedications: meds, DiseaseInterests: diseases}
	}

	res, err := annotate.Annotate(text, s.keywords, user)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
