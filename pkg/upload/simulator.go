// Package upload runs document batches one file at a time, either as a
// timed simulation or as real ingestion into the documents table.
package upload

import (
	"context"
	"time"
)

// Status is the state of one file in a batch.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// File is one entry of a batch and its current status.
type File struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// Transition is reported to an observer each time a file changes status.
type Transition struct {
	Index  int
	Name   string
	Status Status
}

// Simulator flips each file pending then success after Delay, strictly in
// input order. It performs no transfer.
type Simulator struct {
	Delay   time.Duration
	Observe func(Transition)
}

// Run processes names in order and returns the final statuses. If ctx ends
// mid batch the current file is left pending, later files stay queued, and
// ctx.Err() is returned alongside the partial result.
func (s Simulator) Run(ctx context.Context, names []string) ([]File, error) {
	files := make([]File, len(names))
	for i, name := range names {
		files[i] = File{Name: name, Status: StatusQueued}
	}

	err := sequence(ctx, len(files), func(ctx context.Context, i int) error {
		s.set(files, i, StatusPending)
		if err := wait(ctx, s.Delay); err != nil {
			return err
		}
		s.set(files, i, StatusSuccess)
		return nil
	})
	return files, err
}

func (s Simulator) set(files []File, i int, status Status) {
	files[i].Status = status
	if s.Observe != nil {
		s.Observe(Transition{Index: i, Name: files[i].Name, Status: status})
	}
}

// sequence calls step for 0..n-1 on the calling goroutine, stopping at the
// first error or when ctx is done.
func sequence(ctx context.Context, n int, step func(context.Context, int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
