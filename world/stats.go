package world

import "time"

type WorkerStat struct {
	// The worker index.
	Id int

	// The number of pairs assigned to the worker and the percentage of all
	// candidate pairs it represents.
	BlockSize   int
	PairPercent float32

	// Time spent testing the assigned block.
	PassTime time.Duration

	// Scratch elements handed out before the bulk reset.
	ScratchUsed int
}

type PassStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Candidate pairs produced by the broadphase.
	Pairs int

	// Pairs discarded because their world bounds no longer overlapped.
	EarlyExits int

	// Records appended by the narrowphase.
	Contacts int
	Events   int

	BroadphaseTime  time.Duration
	NarrowphaseTime time.Duration
}
