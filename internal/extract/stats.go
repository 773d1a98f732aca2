// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "sync/atomic"

// Stats accumulates batch outcomes across workers. The zero value is
// ready to use and all methods are safe for concurrent use.
type Stats struct {
	success atomic.Int64
	failed  atomic.Int64
	empty   atomic.Int64
	images  atomic.Int64
}

func (s *Stats) AddSuccess()     { s.success.Add(1) }
func (s *Stats) AddFailed()      { s.failed.Add(1) }
func (s *Stats) AddEmpty()       { s.empty.Add(1) }
func (s *Stats) AddImages(n int) { s.images.Add(int64(n)) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Success int
	Failed  int
	Empty   int
	Images  int
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Success: int(s.success.Load()),
		Failed:  int(s.failed.Load()),
		Empty:   int(s.empty.Load()),
		Images:  int(s.images.Load()),
	}
}

// Total returns the number of documents that reached a terminal state.
func (sn Snapshot) Total() int {
	return sn.Success + sn.Failed + sn.Empty
}
