package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/haemilia/Ybigta-HDMedi/internal/annotate"
)

// JobStatus represents the state of an annotation job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusAnnotating JobStatus = "annotating"
	StatusDelivering JobStatus = "delivering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single medicine-label annotation.
type Job struct {
	mu sync.Mutex

	ID         string `json:"job_id"`
	MedicineID string `json:"medicine_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	rawText  string
	result   *annotate.Result
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	Sections  int      `json:"sections"`
	Rows      int      `json:"rows"`
	Delivered bool     `json:"delivered"`
	Errors    []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records section and row counts after annotation.
func (j *Job) SetCounts(sections, rows int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Sections = sections
	j.Progress.Rows = rows
	j.UpdatedAt = time.Now()
}

// SetDelivered marks downstream delivery as complete.
func (j *Job) SetDelivered() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Delivered = true
	j.UpdatedAt = time.Now()
}

// SetContentHash records the hash of the extracted text.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetRawText sets pre-extracted label text, used by CSV ingestion
// where no file parsing is needed.
func (j *Job) SetRawText(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rawText = text
}

// RawText returns pre-extracted label text, if any.
func (j *Job) RawText() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rawText
}

// SetResult stores the completed annotation table on the job.
func (j *Job) SetResult(res *annotate.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.UpdatedAt = time.Now()
}

// Result returns the completed annotation table, or nil while the job
// is still in flight.
func (j *Job) Result() *annotate.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	MedicineID string    `json:"medicine_id"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Filename   string    `json:"filename"`
	Progress   Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:         j.ID,
		MedicineID: j.MedicineID,
		Status:     j.Status,
		Phase:      j.Phase,
		Filename:   j.Filename,
		Progress: Progress{
			Sections:  j.Progress.Sections,
			Rows:      j.Progress.Rows,
			Delivered: j.Progress.Delivered,
			Errors:    errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
