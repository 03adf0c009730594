package broadphase

import (
	"math"
	"sort"
	"time"

	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The builder will not attempt to calculate split candidates if the
	// node bounds along an axis are thinner than this threshold.
	minSideLength float32 = 1e-4

	// The number of evenly spaced split planes evaluated per axis.
	splitCandidates = 32

	// Work lists smaller than this are scored on the calling goroutine.
	parallelScoreThreshold = 256
)

// A split scoring strategy that uses the surface area heuristic (SAH).
var surfaceAreaScore = surfaceAreaHeuristic{}

// A split scoring strategy.
type scoreStrategy interface {
	// Calculate a score for splitting workList at splitPoint along a particular Axis.
	ScoreSplit(workList []buildItem, splitAxis Axis, splitPoint float32) (leftCount, rightCount int, score float32)

	// Calculate a score for all items in workList.
	ScorePartition(workList []buildItem) (score float32)
}

type buildItem struct {
	leaf   int32
	bounds geo.AABB
	center types.Vec3
}

type splitScore struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

// A node of the intermediate binary tree. Leaves carry one leaf index.
type binaryNode struct {
	bounds   geo.AABB
	children [2]int32
	leaf     int32
}

func (n *binaryNode) isLeaf() bool { return n.leaf >= 0 }

type buildStats struct {
	items      int
	binary     int
	medianCuts int
	maxDepth   int
}

type builder struct {
	binNodes      []binaryNode
	scoreChan     chan splitScore
	scoreStrategy scoreStrategy
	stats         buildStats
}

// Construct a 4-wide tree over workList and append its nodes to out.
//
// A binary tree is built first by recursively picking the split with the
// best score. When no split improves on the unsplit score the items are
// divided at the median of the widest axis so every leaf ends up holding a
// single item. The binary tree is then collapsed by repeatedly opening the
// largest internal child until each node holds up to Width children.
func build(workList []buildItem, scoreStrategy scoreStrategy, out []Node) []Node {
	if len(workList) == 0 {
		return out
	}

	b := &builder{
		binNodes:      make([]binaryNode, 0, 2*len(workList)),
		scoreChan:     make(chan splitScore),
		scoreStrategy: scoreStrategy,
		stats:         buildStats{items: len(workList)},
	}

	start := time.Now()
	root := b.partition(workList, 0)
	out = b.collapse(root, out)
	logger.Debugf(
		"BVH build time: %d us, items: %d, binary depth: %d, binary nodes: %d, median cuts: %d, nodes: %d",
		time.Since(start).Microseconds(),
		b.stats.items, b.stats.maxDepth, b.stats.binary, b.stats.medianCuts, len(out),
	)
	return out
}

// Partition worklist and return the binary node index.
func (b *builder) partition(workList []buildItem, depth int) int32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	bounds := geo.EmptyAABB()
	for _, item := range workList {
		bounds = bounds.Merge(item.bounds)
	}

	nodeIndex := int32(len(b.binNodes))
	b.binNodes = append(b.binNodes, binaryNode{bounds: bounds, leaf: -1})
	b.stats.binary++

	if len(workList) == 1 {
		b.binNodes[nodeIndex].leaf = workList[0].leaf
		return nodeIndex
	}

	var left, right []buildItem
	if bestSplit := b.bestSplit(workList, bounds); bestSplit != nil {
		left = make([]buildItem, 0, bestSplit.leftCount)
		right = make([]buildItem, 0, bestSplit.rightCount)
		for _, item := range workList {
			if item.center[bestSplit.axis] < bestSplit.splitPoint {
				left = append(left, item)
			} else {
				right = append(right, item)
			}
		}
	} else {
		left, right = medianSplit(workList, bounds)
		b.stats.medianCuts++
	}

	leftIndex := b.partition(left, depth+1)
	rightIndex := b.partition(right, depth+1)
	b.binNodes[nodeIndex].children = [2]int32{leftIndex, rightIndex}

	return nodeIndex
}

// Evaluate split planes along each axis and return the one with the best
// score or nil if none beats leaving the work list unsplit.
func (b *builder) bestSplit(workList []buildItem, bounds geo.AABB) *splitScore {
	bestScore := b.scoreStrategy.ScorePartition(workList)
	var bestSplit *splitScore

	parallel := len(workList) >= parallelScoreThreshold
	pendingScores := 0

	side := bounds.Extents().Mul(2)
	for axis := XAxis; axis <= ZAxis; axis++ {
		if side[axis] < minSideLength {
			continue
		}

		splitStep := side[axis] / splitCandidates
		for i := 1; i < splitCandidates; i++ {
			splitPoint := bounds.Min[axis] + float32(i)*splitStep
			if !parallel {
				candidate := b.scoreSplit(workList, axis, splitPoint)
				if candidate.score < bestScore {
					bestScore = candidate.score
					bestSplit = &candidate
				}
				continue
			}

			pendingScores++
			go func(axis Axis, splitPoint float32) {
				b.scoreChan <- b.scoreSplit(workList, axis, splitPoint)
			}(axis, splitPoint)
		}
	}

	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.score < bestScore ||
			(bestSplit != nil && candidate.score == bestScore && candidate.less(bestSplit)) {
			bestScore = candidate.score
			bestSplit = &candidate
		}
	}

	return bestSplit
}

func (b *builder) scoreSplit(workList []buildItem, axis Axis, splitPoint float32) splitScore {
	lCount, rCount, score := b.scoreStrategy.ScoreSplit(workList, axis, splitPoint)
	return splitScore{
		axis:       axis,
		splitPoint: splitPoint,
		leftCount:  lCount,
		rightCount: rCount,
		score:      score,
	}
}

// Order equally scored candidates so parallel scoring picks the same split
// as the sequential path regardless of arrival order.
func (s *splitScore) less(other *splitScore) bool {
	if s.axis != other.axis {
		return s.axis < other.axis
	}
	return s.splitPoint < other.splitPoint
}

// Split the work list in two halves ordered by center along the widest axis.
func medianSplit(workList []buildItem, bounds geo.AABB) ([]buildItem, []buildItem) {
	extents := bounds.Extents()
	axis := XAxis
	if extents[1] > extents[axis] {
		axis = YAxis
	}
	if extents[2] > extents[axis] {
		axis = ZAxis
	}

	sorted := append([]buildItem(nil), workList...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].center[axis] < sorted[j].center[axis]
	})

	mid := len(sorted) / 2
	return sorted[:mid], sorted[mid:]
}

// Emit the 4-wide node rooted at binary node binIdx and return its index.
func (b *builder) collapse(binIdx int32, out []Node) []Node {
	out, _ = b.emit(binIdx, out)
	return out
}

func (b *builder) emit(binIdx int32, out []Node) ([]Node, uint32) {
	nodeIndex := uint32(len(out))
	out = append(out, NewNode())

	slots := make([]int32, 0, Width)
	if bin := &b.binNodes[binIdx]; bin.isLeaf() {
		slots = append(slots, binIdx)
	} else {
		slots = append(slots, bin.children[0], bin.children[1])
	}

	// Open the internal child with the largest surface area until the
	// node is full.
	for len(slots) < Width {
		widest := -1
		var widestArea float32
		for i, slot := range slots {
			bin := &b.binNodes[slot]
			if bin.isLeaf() {
				continue
			}
			if area := bin.bounds.SurfaceArea(); widest < 0 || area > widestArea {
				widest, widestArea = i, area
			}
		}
		if widest < 0 {
			break
		}

		opened := b.binNodes[slots[widest]]
		slots[widest] = opened.children[0]
		slots = append(slots, opened.children[1])
	}

	for i, slot := range slots {
		bin := b.binNodes[slot]
		out[nodeIndex].SetBounds(i, bin.bounds)
		if bin.isLeaf() {
			out[nodeIndex].SetLeaf(i, bin.leaf)
			continue
		}

		var child uint32
		out, child = b.emit(slot, out)
		out[nodeIndex].SetInternal(i, child)
	}

	return out, nodeIndex
}

// A score implementation that uses surface area heuristic for calculating split scores.
type surfaceAreaHeuristic struct{}

// Score a split using the surface area heuristic (lower is better):
//
// left count * left bounds area + right count * right bounds area.
//
// Splits that generate an empty partition get the worst possible score
// (MaxFloat32).
func (h surfaceAreaHeuristic) ScoreSplit(workList []buildItem, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	left := geo.EmptyAABB()
	right := geo.EmptyAABB()

	for _, item := range workList {
		if item.center[axis] < splitPoint {
			leftCount++
			left = left.Merge(item.bounds)
		} else {
			rightCount++
			right = right.Merge(item.bounds)
		}
	}

	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat32
	}

	score = float32(leftCount)*left.SurfaceArea() + float32(rightCount)*right.SurfaceArea()
	return leftCount, rightCount, score
}

// Calculate score for a partitioned workList using formula:
// count * bounds area
//
// If the workList is empty, then this method returns the worst possible
// score (MaxFloat32).
func (h surfaceAreaHeuristic) ScorePartition(workList []buildItem) (score float32) {
	if len(workList) == 0 {
		return math.MaxFloat32
	}

	bounds := geo.EmptyAABB()
	for _, item := range workList {
		bounds = bounds.Merge(item.bounds)
	}
	return float32(len(workList)) * bounds.SurfaceArea()
}
