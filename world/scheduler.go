package world

import (
	"fmt"
	"math"
)

// The Scheduler interface is implemented by all pair scheduling algorithms.
type Scheduler interface {
	// Split the candidate pairs of a pass into contiguous blocks and
	// assign one block to each worker using the stats collected during
	// the previous pass.
	//
	// This function returns the block size for each worker in the input
	// list. Block sizes always add up to numPairs.
	Schedule(workers []WorkerStat, numPairs int) []int
}

// NewScheduler returns the scheduler registered under name.
func NewScheduler(name string) (Scheduler, error) {
	switch name {
	case "naive":
		return NaiveScheduler(), nil
	case "perfect":
		return PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownScheduler)
}

// The naive scheduler splits pairs evenly between workers.
type naiveScheduler struct {
	blockAssignment []int
}

func NaiveScheduler() Scheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(workers []WorkerStat, numPairs int) []int {
	sch.blockAssignment = evenSplit(sch.blockAssignment, len(workers), numPairs)
	return sch.blockAssignment
}

func evenSplit(dst []int, numWorkers, numPairs int) []int {
	if cap(dst) < numWorkers {
		dst = make([]int, numWorkers)
	}
	dst = dst[:numWorkers]

	for idx := range dst {
		dst[idx] = numPairs / numWorkers
		if idx < numPairs%numWorkers {
			dst[idx]++
		}
	}
	return dst
}

// The perfect scheduler assumes that the cost of testing a pair stays
// roughly the same between two subsequent passes.
type perfectScheduler struct {
	blockAssignment []int
}

func PerfectScheduler() Scheduler {
	return &perfectScheduler{}
}

// When previous pass information is available the scheduler estimates the
// share of worker w for pass i+1 as
// (block,w_i / time,w_i) / Σ(block_i / time_i)
// and falls back to an even split otherwise.
func (sch *perfectScheduler) Schedule(workers []WorkerStat, numPairs int) []int {
	if len(sch.blockAssignment) != len(workers) || !haveTimings(workers) {
		sch.blockAssignment = evenSplit(sch.blockAssignment, len(workers), numPairs)
		return sch.blockAssignment
	}

	var total float64
	for _, w := range workers {
		total += float64(w.BlockSize) / float64(w.PassTime)
	}

	scaler := float64(numPairs) / total
	scheduled := 0
	for idx, w := range workers {
		sch.blockAssignment[idx] = int(math.Floor(float64(w.BlockSize) / float64(w.PassTime) * scaler))
		scheduled += sch.blockAssignment[idx]
	}

	// Rounding leftovers go to the first worker
	sch.blockAssignment[0] += numPairs - scheduled

	return sch.blockAssignment
}

func haveTimings(workers []WorkerStat) bool {
	for _, w := range workers {
		if w.BlockSize == 0 || w.PassTime <= 0 {
			return false
		}
	}
	return len(workers) != 0
}
