package world

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shacklettbp/miwe/arena"
	"github.com/shacklettbp/miwe/contact"
	"github.com/shacklettbp/miwe/log"
	"github.com/shacklettbp/miwe/narrowphase"
)

var logger = log.New("world")

// System runs the collision pipeline of a world: broadphase update, pair
// scheduling and the parallel narrowphase pass.
type System struct {
	world *World

	contacts *contact.Buffer
	events   *contact.EventBuffer
	np       *narrowphase.Narrowphase

	scheduler Scheduler
	arenas    []arena.Allocator
	workers   []WorkerStat
	pairs     []narrowphase.Pair

	earlyExits atomic.Int64
}

// NewSystem creates the pass state for w. Each worker owns a scratch arena
// created with the configured strategy.
func NewSystem(w *World, opts Options) (*System, error) {
	if opts.NumWorkers < 1 {
		return nil, ErrNoWorkers
	}
	if opts.MaxContacts < 1 || opts.MaxEvents < 0 {
		return nil, ErrInvalidCapacities
	}

	scheduler, err := NewScheduler(opts.Scheduler)
	if err != nil {
		return nil, err
	}

	sys := &System{
		world:     w,
		contacts:  contact.NewBuffer(opts.MaxContacts),
		events:    contact.NewEventBuffer(opts.MaxEvents),
		scheduler: scheduler,
		arenas:    make([]arena.Allocator, opts.NumWorkers),
		workers:   make([]WorkerStat, opts.NumWorkers),
	}
	for idx := range sys.arenas {
		if sys.arenas[idx], err = arena.New(opts.Allocator, opts.ArenaCapacity); err != nil {
			return nil, err
		}
		sys.workers[idx].Id = idx
	}

	sys.np = narrowphase.New(w, w.Objects(), sys.contacts, sys.events)
	sys.np.SetHooks(narrowphase.Hooks{
		OnEarlyExit: func(narrowphase.Pair) { sys.earlyExits.Add(1) },
	})

	return sys, nil
}

// World returns the simulated world.
func (sys *System) World() *World { return sys.world }

// Contacts returns the contacts produced by the last pass.
func (sys *System) Contacts() []contact.Contact { return sys.contacts.Contacts() }

// Events returns the collision events produced by the last pass.
func (sys *System) Events() []contact.Event { return sys.events.Events() }

// Step runs a full collision pass. The first error reported by any worker
// aborts the pass and is returned; the output buffers then hold a partial
// result.
func (sys *System) Step() (PassStats, error) {
	var stats PassStats

	sys.contacts.Reset()
	sys.events.Reset()
	sys.earlyExits.Store(0)

	start := time.Now()
	if err := sys.world.UpdateBroadphase(); err != nil {
		return stats, err
	}
	pairs, err := sys.world.CandidatePairs(sys.pairs[:0])
	if err != nil {
		return stats, err
	}
	sys.pairs = pairs
	stats.BroadphaseTime = time.Since(start)
	stats.Pairs = len(pairs)

	start = time.Now()
	blockAssignment := sys.scheduler.Schedule(sys.workers, len(pairs))
	err = sys.runNarrowphase(pairs, blockAssignment)
	stats.NarrowphaseTime = time.Since(start)

	for _, alloc := range sys.arenas {
		alloc.Reset()
	}

	stats.Workers = append([]WorkerStat(nil), sys.workers...)
	stats.EarlyExits = int(sys.earlyExits.Load())
	stats.Contacts = sys.contacts.Len()
	stats.Events = sys.events.Len()

	if err != nil {
		logger.Errorf("collision pass aborted: %v", err)
		return stats, err
	}

	logger.Infof(
		"pass: %d pairs, %d early exits, %d contacts, %d events, broadphase %s, narrowphase %s",
		stats.Pairs, stats.EarlyExits, stats.Contacts, stats.Events, stats.BroadphaseTime, stats.NarrowphaseTime,
	)
	return stats, nil
}

func (sys *System) runNarrowphase(pairs []narrowphase.Pair, blockAssignment []int) error {
	var (
		wg      sync.WaitGroup
		abort   atomic.Bool
		errChan = make(chan error, len(sys.workers))
	)

	offset := 0
	for idx := range sys.workers {
		block := pairs[offset : offset+blockAssignment[idx]]
		offset += len(block)

		sys.workers[idx].BlockSize = len(block)
		sys.workers[idx].PassTime = 0
		sys.workers[idx].ScratchUsed = 0
		if len(pairs) > 0 {
			sys.workers[idx].PairPercent = 100 * float32(len(block)) / float32(len(pairs))
		} else {
			sys.workers[idx].PairPercent = 0
		}
		if len(block) == 0 {
			continue
		}

		wg.Add(1)
		go func(stat *WorkerStat, alloc arena.Allocator, block []narrowphase.Pair) {
			defer wg.Done()
			start := time.Now()
			for _, pair := range block {
				if abort.Load() {
					break
				}
				if err := sys.np.Run(pair, alloc); err != nil {
					abort.Store(true)
					errChan <- err
					break
				}
			}
			stat.PassTime = time.Since(start)
			stat.ScratchUsed = alloc.Used()
		}(&sys.workers[idx], sys.arenas[idx], block)
	}

	wg.Wait()
	close(errChan)

	return <-errChan
}
