package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/haemilia/Ybigta-HDMedi/internal/label"
)

// Client delivers completed annotation tables to the downstream
// recommendation service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AnnotationPayload is the body for PUT /medicines/{id}/annotations.
type AnnotationPayload struct {
	MedicineID  string         `json:"medicine_id"`
	Source      string         `json:"source,omitempty"`
	ContentHash string         `json:"content_hash,omitempty"`
	Rows        label.Table    `json:"rows"`
	Topics      map[string]int `json:"topics"`
	AnnotatedAt string         `json:"annotated_at"`
}

// PutAnnotations stores or replaces the annotation table for a medicine.
func (c *Client) PutAnnotations(ctx context.Context, medicineID string, payload AnnotationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal annotations: %w", err)
	}
	url := c.baseURL + "/medicines/" + medicineID + "/annotations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &RetryableError{Message: fmt.Sprintf("put annotations %s: %v", medicineID, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("put annotations %s: status %d: %s", medicineID, resp.StatusCode, string(respBody)),
		}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put annotations %s: status %d: %s", medicineID, resp.StatusCode, string(respBody))
	}
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient delivery failure worth retrying.
type RetryableError struct {
	Status  int
	Message string
}

func (e *RetryableError) Error() string {
	return e.Message
}
