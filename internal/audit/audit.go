// internal/audit/audit.go

// Package audit indexes roster changes into Elasticsearch. Like notify,
// the audit trail is an observer: failures are logged, never surfaced.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"activities-service/internal/common/config"
	apperrors "activities-service/internal/common/errors"
	"activities-service/internal/common/logger"
)

// Entry is one audit document.
type Entry struct {
	Operation   string    `json:"operation"`
	Activity    string    `json:"activity"`
	Participant string    `json:"participant"`
	RequestID   string    `json:"requestId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Recorder records audit entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// NewNoOp returns a Recorder that drops every entry.
func NewNoOp() Recorder {
	return noopRecorder{}
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, Entry) {}

// ESRecorder indexes audit entries into a single index.
type ESRecorder struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

// NewESRecorder creates a Recorder over a new Elasticsearch client.
func NewESRecorder(cfg config.AuditConfig, log logger.Logger) (*ESRecorder, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ESRecorder{
		client: es,
		index:  cfg.Index,
		logger: log.WithFields(map[string]interface{}{"component": "audit"}),
	}, nil
}

// Ping tests the Elasticsearch connection.
func (r *ESRecorder) Ping(ctx context.Context) error {
	res, err := r.client.Ping(r.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// Record indexes one entry.
func (r *ESRecorder) Record(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(entry)
	if err != nil {
		r.logger.WithError(err).Error("failed to serialize audit entry", nil)
		return
	}

	res, err := r.client.Index(r.index, bytes.NewReader(body),
		r.client.Index.WithContext(ctx))
	if err != nil {
		r.logger.WithError(apperrors.NewAuditIndexFailedError(err)).Error(
			"audit index request failed", map[string]interface{}{
				"activity": entry.Activity,
			})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		r.logger.WithError(apperrors.NewAuditIndexFailedError(
			fmt.Errorf("elasticsearch response: %s", res.Status()))).Error(
			"audit index rejected", map[string]interface{}{
				"activity": entry.Activity,
			})
	}
}
