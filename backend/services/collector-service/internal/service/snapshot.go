package service

import (
	"sync"

	"multisib/backend/services/collector-service/internal/models"
)

// Snapshot keeps the last persisted record for readers outside the poll loop.
type Snapshot struct {
	mu     sync.RWMutex
	record models.TelemetryRecord
	set    bool
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Store replaces the held record.
func (s *Snapshot) Store(record models.TelemetryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record
	s.set = true
}

// Latest returns the held record and whether any record was stored yet.
func (s *Snapshot) Latest() (models.TelemetryRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record, s.set
}
