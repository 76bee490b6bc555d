package agent

import (
	"time"

	"github.com/jonathan/sponsor-finder/internal/types"
)

// Observer receives every log entry when it is appended and again whenever
// its status changes.
type Observer func(entry types.WorkflowLog)

// Log is the ordered, append-only step log of one run. Entries are
// addressed by ID once appended.
type Log struct {
	entries  []types.WorkflowLog
	byID     map[string]int
	now      func() time.Time
	newID    func() string
	observer Observer
}

func newLog(now func() time.Time, newID func() string, observer Observer) *Log {
	return &Log{
		entries:  make([]types.WorkflowLog, 0, 16),
		byID:     make(map[string]int),
		now:      now,
		newID:    newID,
		observer: observer,
	}
}

// Append adds an entry and returns its ID.
func (l *Log) Append(message string, status types.LogStatus) string {
	entry := types.WorkflowLog{
		ID:        l.newID(),
		Message:   message,
		Status:    status,
		Timestamp: l.now(),
	}
	l.byID[entry.ID] = len(l.entries)
	l.entries = append(l.entries, entry)
	l.notify(entry)
	return entry.ID
}

// Update sets the status of the entry with the given ID. It reports false
// for unknown IDs.
func (l *Log) Update(id string, status types.LogStatus) bool {
	i, ok := l.byID[id]
	if !ok {
		return false
	}
	l.entries[i].Status = status
	l.notify(l.entries[i])
	return true
}

// FailPending marks every pending entry as failed.
func (l *Log) FailPending() {
	for _, entry := range l.entries {
		if entry.Status == types.LogPending {
			l.Update(entry.ID, types.LogError)
		}
	}
}

// Entries returns a copy of the entries in append order.
func (l *Log) Entries() []types.WorkflowLog {
	out := make([]types.WorkflowLog, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) notify(entry types.WorkflowLog) {
	if l.observer != nil {
		l.observer(entry)
	}
}
