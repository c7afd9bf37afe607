package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/haemilia/Ybigta-HDMedi/internal/extractor"
	"github.com/haemilia/Ybigta-HDMedi/internal/pipeline"
)

// jobRef is what batch endpoints return per accepted document.
type jobRef struct {
	JobID      string `json:"job_id"`
	MedicineID string `json:"medicine_id"`
	Filename   string `json:"filename,omitempty"`
	StatusURL  string `json:"status_url"`
}

// handleBatchAnnotate accepts multiple label documents under the
// "files" form field and queues one job per file. Medicine ids default
// to a prefix of the content hash so resubmitting the same document
// targets the same downstream record.
func (s *Server) handleBatchAnnotate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required under 'files'", http.StatusBadRequest)
		return
	}

	refs := []jobRef{}
	for _, header := range files {
		filename := sanitizeFilename(header.Filename)
		if !extractor.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s (%s)", filepath.Ext(filename), filename), http.StatusBadRequest)
			return
		}
		if header.Size > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		f, err := header.Open()
		if err != nil {
			jsonError(w, "failed to open upload: "+err.Error(), http.StatusInternalServerError)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			jsonError(w, "failed to read upload: "+err.Error(), http.StatusInternalServerError)
			return
		}

		medicineID := r.FormValue("medicine_id")
		if medicineID == "" || len(files) > 1 {
			medicineID = pipeline.ContentHashHex(data)[:16]
		}

		job := &pipeline.Job{
			ID:         pipeline.NewJobID(),
			MedicineID: medicineID,
			Status:     pipeline.StatusQueued,
			Phase:      "queued",
			Filename:   filename,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		job.SetFileData(data)

		if err := s.orchestrator.Submit(job); err != nil {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		refs = append(refs, jobRef{
			JobID:      job.ID,
			MedicineID: medicineID,
			Filename:   filename,
			StatusURL:  "/api/annotate/" + job.ID,
		})
	}

	s.log.Info("batch accepted", "jobs", len(refs))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": refs})
}

// handleCSVAnnotate ingests a CSV export of label texts. The first row
// is a header; the first column is the medicine id and the second the
// raw label text. One job is queued per data row.
func (s *Server) handleCSVAnnotate(w http.ResponseWriter, r *http.Request) {
	var body io.Reader

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()
		f, _, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		body = f
	} else {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1 // validated per row below

	header, err := reader.Read()
	if err != nil {
		jsonError(w, "failed to read CSV header: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(header) < 2 {
		jsonError(w, "CSV must have at least two columns: medicine_id, text", http.StatusBadRequest)
		return
	}

	refs := []jobRef{}
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			jsonError(w, fmt.Sprintf("CSV parse error at line %d: %v", line, err), http.StatusBadRequest)
			return
		}
		if len(record) < 2 {
			skipped++
			continue
		}
		medicineID := strings.TrimSpace(record[0])
		text := record[1]
		if medicineID == "" {
			medicineID = pipeline.ContentHashHex([]byte(text))[:16]
		}

		job := &pipeline.Job{
			ID:         pipeline.NewJobID(),
			MedicineID: medicineID,
			Status:     pipeline.StatusQueued,
			Phase:      "queued",
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		job.SetRawText(text)

		if err := s.orchestrator.Submit(job); err != nil {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		refs = append(refs, jobRef{
			JobID:      job.ID,
			MedicineID: medicineID,
			StatusURL:  "/api/annotate/" + job.ID,
		})
	}

	s.log.Info("csv accepted", "jobs", len(refs), "skipped", skipped)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"jobs":    refs,
		"skipped": skipped,
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":      snap.ID,
		"medicine_id": snap.MedicineID,
		"status":      snap.Status,
		"phase":       snap.Phase,
		"progress":    snap.Progress,
	}
	if snap.Filename != "" {
		resp["filename"] = snap.Filename
	}
	if snap.Status == pipeline.StatusCompleted {
		if res := job.Result(); res != nil {
			resp["result"] = res
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
