package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kozaktomas/cardsheet/internal/constants"
	"github.com/kozaktomas/cardsheet/internal/export"
)

// JobStatus represents the status of an async job.
type JobStatus string

// JobStatus constants define the lifecycle states of an async job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// ExportJob represents an async export job.
type ExportJob struct {
	EventBroadcaster

	ID          string
	Destination string
	Status      JobStatus
	Progress    int
	TotalImages int
	Processed   int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
	Result      *export.Result

	committing bool
}

// exportJobJSON is the wire form of an ExportJob.
type exportJobJSON struct {
	ID          string         `json:"id"`
	Destination string         `json:"destination"`
	Status      JobStatus      `json:"status"`
	Progress    int            `json:"progress"`
	TotalImages int            `json:"total_images"`
	Processed   int            `json:"processed_images"`
	Error       string         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Result      *export.Result `json:"result,omitempty"`
}

// MarshalJSON encodes a consistent snapshot of the job.
func (j *ExportJob) MarshalJSON() ([]byte, error) {
	j.mu.RLock()
	snapshot := exportJobJSON{
		ID:          j.ID,
		Destination: j.Destination,
		Status:      j.Status,
		Progress:    j.Progress,
		TotalImages: j.TotalImages,
		Processed:   j.Processed,
		Error:       j.Error,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		Result:      j.Result,
	}
	j.mu.RUnlock()
	return json.Marshal(snapshot)
}

// GetStatus returns the current job status (implements SSEJob).
func (j *ExportJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// Cancel cancels the export job. Finished jobs, and jobs already replacing
// their destination file, are left as they are and false is returned.
func (j *ExportJob) Cancel() bool {
	j.mu.Lock()
	if isJobTerminal(j.Status) || j.committing {
		j.mu.Unlock()
		return false
	}
	now := time.Now()
	j.Status = JobStatusCancelled
	j.CompletedAt = &now
	j.mu.Unlock()

	j.EventBroadcaster.Cancel()
	return true
}

// beginCommit marks the job as writing its destination. It fails once the
// job has been cancelled, after which Cancel no longer succeeds.
func (j *ExportJob) beginCommit() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status == JobStatusCancelled {
		return context.Canceled
	}
	j.committing = true
	return nil
}

// JobEvent represents an event from a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting for async jobs.
// Embed this in job structs to get AddListener, RemoveListener, and SendEvent methods.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener adds an event listener.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Cancel cancels the job via context and sends a cancelled event.
func (b *EventBroadcaster) Cancel() {
	b.mu.RLock()
	cancel := b.cancel
	b.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
	b.SendEvent(JobEvent{Type: "cancelled", Message: "Job cancelled by user"})
}

// SSEJob is the interface required by streamSSEEvents to stream job events via SSE.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
}

// JobManager manages async jobs.
type JobManager struct {
	jobs map[string]*ExportJob
	mu   sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*ExportJob),
	}
}

// CreateJob creates a new export job.
func (m *JobManager) CreateJob(id, destination string, totalImages int) *ExportJob {
	job := &ExportJob{
		ID:          id,
		Destination: destination,
		Status:      JobStatusPending,
		TotalImages: totalImages,
		StartedAt:   time.Now(),
	}

	m.mu.Lock()
	m.jobs[id] = job
	m.mu.Unlock()

	return job
}

// GetJob retrieves a job by ID.
func (m *JobManager) GetJob(id string) *ExportJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob removes a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

// ListJobs returns all jobs.
func (m *JobManager) ListJobs() []*ExportJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*ExportJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// CancelAll cancels every job that is still running.
func (m *JobManager) CancelAll() {
	for _, job := range m.ListJobs() {
		job.Cancel()
	}
}
