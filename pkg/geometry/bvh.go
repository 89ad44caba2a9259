package geometry

import (
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode is a node of a median-split Bounding Volume Hierarchy.
// Children are either further nodes or scene objects; a node built over a
// single object references it as both children.
type BVHNode struct {
	Left   Hittable
	Right  Hittable
	single bool // Left and Right are the same object
	bbox   core.AABB
}

// NewBVH constructs a BVH over objects. The input slice is copied, so the
// caller's order is left untouched. Returns nil for an empty slice.
func NewBVH(objects []Hittable) *BVHNode {
	if len(objects) == 0 {
		return nil
	}

	objectsCopy := make([]Hittable, len(objects))
	copy(objectsCopy, objects)

	return buildBVH(objectsCopy)
}

// buildBVH splits objects at the median along the longest axis of their union box
func buildBVH(objects []Hittable) *BVHNode {
	bbox := core.EmptyAABB
	for _, object := range objects {
		bbox = bbox.Union(object.BoundingBox())
	}

	node := &BVHNode{}
	switch len(objects) {
	case 1:
		node.Left, node.Right = objects[0], objects[0]
		node.single = true
	case 2:
		node.Left, node.Right = objects[0], objects[1]
	default:
		sortByAxis(objects, bbox.LongestAxis())
		mid := len(objects) / 2
		node.Left = buildBVH(objects[:mid])
		node.Right = buildBVH(objects[mid:])
	}

	node.bbox = node.Left.BoundingBox().Union(node.Right.BoundingBox())
	return node
}

// sortByAxis sorts objects by the minimum extent of their bounding box along axis
func sortByAxis(objects []Hittable, axis int) {
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].BoundingBox().Axis(axis).Min < objects[j].BoundingBox().Axis(axis).Min
	})
}

// Hit tests the left subtree first, then the right subtree only for hits
// closer than the left one
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if !n.bbox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax, sampler)
	if n.single {
		return leftHit, hitLeft
	}

	rightMax := tMax
	if hitLeft {
		rightMax = leftHit.T
	}

	if rightHit, hitRight := n.Right.Hit(ray, tMin, rightMax, sampler); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the union of the children's boxes
func (n *BVHNode) BoundingBox() core.AABB {
	return n.bbox
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes  int
	LeafNodes   int // nodes whose children are scene objects
	MaxDepth    int
	AvgDepth    float64
	TotalShapes int // object slots, counting a single-object node once
}

// Stats returns statistics about the BVH structure
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{}
	n.collectStats(0, &stats)

	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// Objects returns the scene objects referenced by the leaves, each once
func (n *BVHNode) Objects() []Hittable {
	var objects []Hittable
	n.walk(func(object Hittable, _ int) {
		objects = append(objects, object)
	}, nil, 0)
	return objects
}

func (n *BVHNode) collectStats(depth int, stats *BVHStats) {
	n.walk(func(Hittable, int) {
		stats.TotalShapes++
	}, func(_ *BVHNode, d int, hasObject bool) {
		stats.TotalNodes++
		stats.MaxDepth = max(stats.MaxDepth, d)
		if hasObject {
			stats.LeafNodes++
			stats.AvgDepth += float64(d)
		}
	}, depth)
}

// walk visits every object slot and, when onNode is set, every node after its children
func (n *BVHNode) walk(onObject func(Hittable, int), onNode func(*BVHNode, int, bool), depth int) {
	children := []Hittable{n.Left, n.Right}
	if n.single {
		children = children[:1]
	}

	hasObject := false
	for _, child := range children {
		if node, ok := child.(*BVHNode); ok {
			node.walk(onObject, onNode, depth+1)
			continue
		}
		hasObject = true
		onObject(child, depth)
	}

	if onNode != nil {
		onNode(n, depth, hasObject)
	}
}
