package cmd

import (
	"math/rand"
	"testing"

	"github.com/shacklettbp/miwe/world"
)

func TestBenchWorld(t *testing.T) {
	const (
		numColumns  = 5
		stackHeight = 3
		numSpheres  = 10
	)

	numEntities := 1 + numColumns*stackHeight + numSpheres
	w, err := buildBenchWorld(numEntities, numColumns, stackHeight, numSpheres, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}
	if w.NumEntities() != numEntities {
		t.Fatalf("expected %d entities; got %d", numEntities, w.NumEntities())
	}

	opts := world.DefaultOptions()
	sys, err := world.NewSystem(w, opts)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := sys.Step()
	if err != nil {
		t.Fatal(err)
	}

	// Every box touches the one below it or the ground. Spheres touch the
	// ground and their row neighbours.
	expHullContacts := numColumns * stackHeight
	if stats.Contacts < expHullContacts+numSpheres {
		t.Fatalf("expected at least %d contacts; got %d", expHullContacts+numSpheres, stats.Contacts)
	}
	if stats.Events == 0 {
		t.Fatal("expected sphere collision events")
	}
}
