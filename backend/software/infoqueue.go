// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"slices"
	"sync"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// InfoQueue records the validation configuration applied to a device.
type InfoQueue struct {
	failAdd error

	mu      sync.Mutex
	breaks  map[graphics.MessageSeverity]bool
	filters []graphics.InfoQueueFilter
}

// SetBreakOnSeverity records a break-on-severity setting.
func (q *InfoQueue) SetBreakOnSeverity(s graphics.MessageSeverity, enable bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.breaks == nil {
		q.breaks = make(map[graphics.MessageSeverity]bool)
	}
	q.breaks[s] = enable
	return nil
}

// BreaksOn reports whether the debugger breaks on s.
func (q *InfoQueue) BreaksOn(s graphics.MessageSeverity) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.breaks[s]
}

// PushEmptyStorageFilter pushes an allow-everything filter.
func (q *InfoQueue) PushEmptyStorageFilter() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.filters = append(q.filters, graphics.InfoQueueFilter{})
	return nil
}

// AddStorageFilterEntries merges f into the top filter.
func (q *InfoQueue) AddStorageFilterEntries(f graphics.InfoQueueFilter) error {
	if q.failAdd != nil {
		return q.failAdd
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.filters) == 0 {
		q.filters = append(q.filters, graphics.InfoQueueFilter{})
	}
	top := &q.filters[len(q.filters)-1]
	top.AllowSeverities = append(top.AllowSeverities, f.AllowSeverities...)
	top.DenyIDs = append(top.DenyIDs, f.DenyIDs...)
	return nil
}

// Filter returns a copy of the top storage filter.
func (q *InfoQueue) Filter() graphics.InfoQueueFilter {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.filters) == 0 {
		return graphics.InfoQueueFilter{}
	}
	top := q.filters[len(q.filters)-1]
	return graphics.InfoQueueFilter{
		AllowSeverities: slices.Clone(top.AllowSeverities),
		DenyIDs:         slices.Clone(top.DenyIDs),
	}
}

// Allows reports whether a message would be stored under the top filter.
// An empty allow list admits every severity.
func (q *InfoQueue) Allows(s graphics.MessageSeverity, id graphics.MessageID) bool {
	f := q.Filter()
	if slices.Contains(f.DenyIDs, id) {
		return false
	}
	return len(f.AllowSeverities) == 0 || slices.Contains(f.AllowSeverities, s)
}

// Release is a no-op; the queue lives as long as its device.
func (q *InfoQueue) Release() {}
