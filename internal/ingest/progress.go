package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ProgressTTL is how long a session's progress survives in Redis after
	// the last update.
	ProgressTTL = 24 * time.Hour

	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Ingestion stages in order, with the percentage reported when each begins.
const (
	StageClassify = "classifying"
	StageParse    = "parsing"
	StageUpload   = "uploading"
	StageSave     = "saving"
	StageDone     = "done"
)

var stagePercent = map[string]int{
	StageClassify: 10,
	StageParse:    40,
	StageUpload:   80,
	StageSave:     95,
	StageDone:     100,
}

// Progress is the per-session state the dashboard polls during an upload.
type Progress struct {
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage"`
	Percent   int       `json:"percent"`
	RecordID  string    `json:"record_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker stores upload progress in Redis keyed by session ID.
type Tracker struct {
	redis *redis.Client
}

// NewTracker creates a Redis-backed progress tracker.
func NewTracker(redisClient *redis.Client) *Tracker {
	return &Tracker{redis: redisClient}
}

func (t *Tracker) key(sessionID string) string {
	return fmt.Sprintf("leadupload:progress:%s", sessionID)
}

func (t *Tracker) set(ctx context.Context, p *Progress) {
	p.UpdatedAt = time.Now().UTC()
	data, _ := json.Marshal(p)
	// Progress writes are best effort; a lost update only stales the
	// poller, it never fails the ingestion itself.
	t.redis.Set(ctx, t.key(p.SessionID), data, ProgressTTL)
}

// Stage records that the session entered the given stage.
func (t *Tracker) Stage(ctx context.Context, sessionID, stage string) {
	t.set(ctx, &Progress{
		SessionID: sessionID,
		Status:    StatusProcessing,
		Stage:     stage,
		Percent:   stagePercent[stage],
	})
}

// Complete marks the session finished and records the created record ID.
func (t *Tracker) Complete(ctx context.Context, sessionID, recordID string) {
	t.set(ctx, &Progress{
		SessionID: sessionID,
		Status:    StatusCompleted,
		Stage:     StageDone,
		Percent:   stagePercent[StageDone],
		RecordID:  recordID,
	})
}

// Fail marks the session failed with the given error message. The percent of
// the failing stage is preserved so the UI shows where it stopped.
func (t *Tracker) Fail(ctx context.Context, sessionID, stage string, err error) {
	t.set(ctx, &Progress{
		SessionID: sessionID,
		Status:    StatusFailed,
		Stage:     stage,
		Percent:   stagePercent[stage],
		Error:     err.Error(),
	})
}

// Get returns the session's progress. Unknown sessions come back with an
// "unknown" status rather than an error so pollers that race the upload
// start don't see failures.
func (t *Tracker) Get(ctx context.Context, sessionID string) (*Progress, error) {
	data, err := t.redis.Get(ctx, t.key(sessionID)).Bytes()
	if err == redis.Nil {
		return &Progress{SessionID: sessionID, Status: "unknown"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading upload progress: %w", err)
	}

	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding upload progress: %w", err)
	}
	return &p, nil
}
