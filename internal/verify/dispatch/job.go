package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of an asynchronously dispatched
// verification.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job tracks one VerifyAsync call. Job state lives in memory only: this
// service is stateless per request, so there is no store to recover jobs
// from across a restart.
type Job struct {
	ID         string        `json:"id"`
	Verifier   string        `json:"verifier"`
	Status     JobStatus     `json:"status"`
	Output     *VerifyOutput `json:"output,omitempty"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
}

func (j *Job) clone() *Job {
	cp := *j
	return &cp
}

// jobStore is a mutex-guarded in-memory map of job id -> Job.
type jobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: map[string]*Job{}}
}

func (s *jobStore) put(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
}

func (s *jobStore) get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	return j.clone(), true
}

// VerifyAsync starts a verification in the background and returns its job
// id immediately; poll GetJob for completion.
func (s *Service) VerifyAsync(in VerifyInput) *Job {
	job := &Job{
		ID:        uuid.NewString(),
		Verifier:  in.Verifier,
		Status:    JobPending,
		CreatedAt: time.Now(),
	}
	s.jobsStore.put(job)

	go func() {
		running := job.clone()
		running.Status = JobRunning
		s.jobsStore.put(running)

		out, err := s.VerifySync(context.Background(), in)

		finished := running.clone()
		finished.FinishedAt = time.Now()
		if err != nil {
			finished.Status = JobFailed
			finished.Error = err.Error()
		} else {
			finished.Status = JobSucceeded
			finished.Output = out
		}
		s.jobsStore.put(finished)
	}()

	return job.clone()
}

// GetJob returns the current state of a previously dispatched async job.
func (s *Service) GetJob(id string) (*Job, bool) {
	return s.jobsStore.get(id)
}
