package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haemilia/Ybigta-HDMedi/internal/annotate"
	"github.com/haemilia/Ybigta-HDMedi/internal/extractor"
	"github.com/haemilia/Ybigta-HDMedi/internal/keywords"
	"github.com/haemilia/Ybigta-HDMedi/internal/sink"
)

// Worker processes a single annotation job.
type Worker struct {
	keywords keywords.Config
	sink     *sink.Client
	stats    *annotate.Stats
	log      *slog.Logger

	deliverSem  chan struct{}
	pdfFallback bool
}

func NewWorker(kw keywords.Config, sc *sink.Client, stats *annotate.Stats, log *slog.Logger, deliverSem chan struct{}, pdfFallback bool) *Worker {
	return &Worker{
		keywords:    kw,
		sink:        sc,
		stats:       stats,
		log:         log,
		deliverSem:  deliverSem,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full annotation pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "medicine_id", job.MedicineID)
	start := time.Now()

	// Phase 1: Extract raw text. CSV-ingested jobs arrive with text
	// already in place; file jobs go through the format extractors.
	text := job.RawText()
	if text == "" && len(job.FileData()) > 0 {
		job.SetStatus(StatusExtracting, "extracting")
		ex, err := extractor.ForFile(job.Filename)
		if err != nil {
			log.Error("unsupported format", "error", err)
			job.AddError(err.Error())
			job.SetStatus(StatusFailed, "extracting")
			return
		}
		if pe, ok := ex.(*extractor.PDFExtractor); ok {
			pe.FallbackPdftotext = w.pdfFallback
		}
		text, err = ex.Extract(bytes.NewReader(job.FileData()), job.Filename)
		if err != nil {
			log.Error("extraction failed", "error", err)
			job.AddError(fmt.Sprintf("extract: %s", err))
			job.SetStatus(StatusFailed, "extracting")
			return
		}
	}
	job.SetContentHash(ContentHashHex([]byte(text)))

	// Phase 2: Segment and tag.
	job.SetStatus(StatusAnnotating, "annotating")
	res, err := annotate.Annotate(text, w.keywords, nil)
	if err != nil {
		log.Error("annotation failed", "error", err)
		job.AddError(fmt.Sprintf("annotate: %s", err))
		job.SetStatus(StatusFailed, "annotating")
		return
	}
	job.SetResult(&res)
	job.SetCounts(countSections(&res), len(res.Rows))
	log.Info("annotated document", "rows", len(res.Rows))

	if len(res.Rows) == 0 {
		log.Warn("no sections recognized", "filename", job.Filename)
	}

	// Phase 3: Deliver downstream, when a sink is configured.
	if w.sink != nil {
		job.SetStatus(StatusDelivering, "delivering")
		if err := w.deliver(ctx, job, &res); err != nil {
			log.Error("delivery failed", "error", err)
			job.AddError(fmt.Sprintf("deliver: %s", err))
			job.SetStatus(StatusFailed, "delivering")
			return
		}
		job.SetDelivered()
	}

	job.SetStatus(StatusCompleted, "done")
	w.stats.Record(time.Since(start).Milliseconds())
	log.Info("job completed", "duration_ms", time.Since(start).Milliseconds())
}

// deliver pushes the annotation table to the downstream service,
// retrying transient failures with backoff.
func (w *Worker) deliver(ctx context.Context, job *Job, res *annotate.Result) error {
	select {
	case w.deliverSem <- struct{}{}:
		defer func() { <-w.deliverSem }()
	case <-ctx.Done():
		return ctx.Err()
	}

	payload := sink.AnnotationPayload{
		MedicineID:  job.MedicineID,
		Source:      job.Filename,
		ContentHash: job.ContentHash,
		Rows:        res.Rows,
		Topics:      res.Topics,
		AnnotatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.sink.PutAnnotations(ctx, job.MedicineID, payload)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		w.log.Warn("retryable delivery error", "job_id", job.ID, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// countSections counts distinct section titles in a result table.
func countSections(res *annotate.Result) int {
	seen := make(map[string]struct{})
	for _, row := range res.Rows {
		seen[row.Section] = struct{}{}
	}
	return len(seen)
}
