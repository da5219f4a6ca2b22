package cron

import (
	"context"
	"time"
)

// Job represents a scheduled task that runs inside the worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Entry binds a job to its cadence and its distributed lock.
type Entry struct {
	Job   Job
	Every time.Duration
	Lock  Lock
}

// Registry tracks scheduled entries.
type Registry struct {
	entries []Entry
}

// NewRegistry builds a registry preloaded with the provided entries.
func NewRegistry(entries ...Entry) *Registry {
	registry := &Registry{}
	for _, entry := range entries {
		registry.Register(entry)
	}
	return registry
}

// Register adds an entry to the registry. Entries without a job are ignored.
func (r *Registry) Register(entry Entry) {
	if entry.Job == nil {
		return
	}
	r.entries = append(r.entries, entry)
}

// Entries returns the registered entries in the order they were added.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}
