// Package xis talks to the remote experience metadata service. The service
// itself is an opaque HTTP collaborator; this client only fetches records
// and reshapes them into the form the rest of the system indexes and
// serves.
package xis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lumenlearn/discovery/config"
	"github.com/lumenlearn/discovery/logger"
)

var ErrRecordNotFound = errors.New("metadata record not found")

type RecordNotFoundError struct {
	ID string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("metadata record not found: %s", e.ID)
}

func (e *RecordNotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Logger
}

func NewClient(logger logger.Logger, cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.GetRequestTimeout(),
		},
		baseURL: strings.TrimSuffix(cfg.GetMetadataAPIURL(), "/") + "/",
		logger:  logger,
	}
}

// Experience fetches a single metadata record by identifier and reshapes it
// into the target form.
func (c *Client) Experience(ctx context.Context, recordID string) (map[string]any, error) {
	var record map[string]any
	if err := c.getJSON(ctx, c.baseURL+recordID, &record); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &RecordNotFoundError{ID: recordID}
		}
		return nil, err
	}

	formatted := FormatRecord(record)
	if formatted == nil {
		c.logger.Warn("metadata record has no metadata ledger", "record_id", recordID)
		return nil, &RecordNotFoundError{ID: recordID}
	}

	return formatted, nil
}

// Experiences fetches the full record set from the metadata service.
// Records that do not carry a metadata ledger are skipped.
func (c *Client) Experiences(ctx context.Context) ([]map[string]any, error) {
	var records []map[string]any
	if err := c.getJSON(ctx, c.baseURL, &records); err != nil {
		return nil, err
	}

	formatted := make([]map[string]any, 0, len(records))
	for _, record := range records {
		if f := FormatRecord(record); f != nil {
			formatted = append(formatted, f)
		}
	}

	return formatted, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build metadata request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Error("metadata service request failed", "url", url, "err", err.Error())
		return fmt.Errorf("metadata service request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return ErrRecordNotFound
	}
	if response.StatusCode != http.StatusOK {
		c.logger.Error("metadata service returned an error", "url", url, "status", response.StatusCode)
		return fmt.Errorf("metadata service returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read metadata response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal metadata response: %w", err)
	}

	return nil
}
