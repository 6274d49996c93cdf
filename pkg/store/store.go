// Package store persists infill jobs submitted to the HTTP service.
//
// A job records the submitted layer stack, the settings it was generated
// with, its progress and, once finished, the generated lines. Two backends
// implement [Store]:
//   - [MemoryStore]: in-process storage for development and tests
//   - [MongoStore]: MongoDB-backed storage for deployments that must keep
//     job history across restarts
//
// # Usage
//
//	st := store.NewMemoryStore()
//	job := store.NewJob(input, settings, "exact")
//	if err := st.Create(ctx, job); err != nil {
//	    return err
//	}
//	job, err := st.Get(ctx, job.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // unknown job
//	}
package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lightning/pkg/lightning"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a job does not exist.
	ErrNotFound = errors.New("job not found")

	// ErrExists is returned when creating a job whose ID is taken.
	ErrExists = errors.New("job already exists")
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Finished reports whether the job will not change any more.
func (s Status) Finished() bool { return s == StatusDone || s == StatusFailed }

// Job is one submitted layer stack and its outcome.
type Job struct {
	ID        string             `json:"id" bson:"_id"`
	Status    Status             `json:"status" bson:"status"`
	Settings  lightning.Settings `json:"settings" bson:"settings"`
	Kernel    string             `json:"kernel" bson:"kernel"`
	Input     []byte             `json:"-" bson:"input"`            // layer stack JSON
	Result    []byte             `json:"-" bson:"result,omitempty"` // generated lines JSON
	Stats     JobStats           `json:"stats" bson:"stats"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// JobStats summarizes a finished job.
type JobStats struct {
	Layers     int   `json:"layers" bson:"layers"`
	Roots      int   `json:"roots" bson:"roots"`
	Nodes      int   `json:"nodes" bson:"nodes"`
	Lines      int   `json:"lines" bson:"lines"`
	Length     int64 `json:"length" bson:"length"`
	DurationMS int64 `json:"duration_ms" bson:"duration_ms"`
	Cached     bool  `json:"cached" bson:"cached"`
}

// NewJob creates a pending job with a fresh ID.
func NewJob(input []byte, settings lightning.Settings, kernel string) *Job {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Settings:  settings,
		Kernel:    kernel,
		Input:     input,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the job.
func (j *Job) Clone() *Job {
	c := *j
	c.Input = slices.Clone(j.Input)
	c.Result = slices.Clone(j.Result)
	return &c
}

// Store is the interface for job storage backends.
type Store interface {
	// Create stores a new job. Returns ErrExists if the ID is taken.
	Create(ctx context.Context, job *Job) error

	// Get retrieves a job by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Job, error)

	// Update replaces a stored job and refreshes its UpdatedAt.
	// Returns ErrNotFound if it doesn't exist.
	Update(ctx context.Context, job *Job) error

	// List returns up to limit jobs, newest first; a limit of zero returns
	// all jobs. Input and result payloads are omitted.
	List(ctx context.Context, limit int) ([]*Job, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
