// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"github.com/NVIDIA/avltree/logger"
)

// treeHooks are the extension points a balancing layer overrides. The base tree points
// hooks at itself (no balancing); an AVL tree points them at its avlTreeStruct.
type treeHooks[T any] interface {
	postInsert(newNode nodeIndex)
	postDelete(removed T, parent nodeIndex) // parent is where the physical removal happened
	height() int
	validateNode(index nodeIndex) (err error)
	adopt(clone *bstStruct[T]) Tree[T]
}

type bstStruct[T any] struct {
	compare            Compare[T]
	callbacks          DumpCallbacks[T]
	arena              arenaStruct[T]
	root               nodeIndex
	min                nodeIndex
	max                nodeIndex
	updateOnDuplicate  bool
	validateOnMutation bool
	statsGroupName     string
	version            uint64 // Bumped on every structural change; cursors compare against it
	hooks              treeHooks[T]
	stats              *treeStatsStruct
}

func newBSTree[T any](compare Compare[T], callbacks DumpCallbacks[T], config Config) (tree *bstStruct[T]) {
	tree = &bstStruct[T]{
		compare:            compare,
		callbacks:          callbacks,
		updateOnDuplicate:  config.UpdateOnDuplicate,
		validateOnMutation: config.ValidateOnMutation,
		statsGroupName:     config.StatsGroupName,
	}

	tree.hooks = tree
	tree.registerStats()

	return
}

func (tree *bstStruct[T]) node(index nodeIndex) *avlNodeStruct[T] {
	return tree.arena.node(index)
}

// setChild links child below parent on the given side (or makes child the root when
// parent is nilNode), keeping child's parent and side fields consistent
func (tree *bstStruct[T]) setChild(parent nodeIndex, side childSide, child nodeIndex) {
	if nilNode == parent {
		tree.root = child
		side = rootSide
	} else if leftSide == side {
		tree.node(parent).left = child
	} else {
		tree.node(parent).right = child
	}

	if nilNode != child {
		childNode := tree.node(child)
		childNode.parent = parent
		childNode.side = side
	}
}

func (tree *bstStruct[T]) leftmost(index nodeIndex) nodeIndex {
	for nilNode != tree.node(index).left {
		index = tree.node(index).left
	}
	return index
}

func (tree *bstStruct[T]) rightmost(index nodeIndex) nodeIndex {
	for nilNode != tree.node(index).right {
		index = tree.node(index).right
	}
	return index
}

// findFunc descends from the root steering by probe, returning the matching node (or
// nilNode) and how many nodes were visited
func (tree *bstStruct[T]) findFunc(probe ProbeCompare[T]) (index nodeIndex, depth int) {
	index = tree.root

	for nilNode != index {
		depth++

		node := tree.node(index)
		result := probe(node.payload)

		switch {
		case 0 == result:
			return
		case 0 > result:
			index = node.left
		default:
			index = node.right
		}
	}

	return
}

func (tree *bstStruct[T]) find(item T) (index nodeIndex) {
	index, _ = tree.findFunc(func(payload T) int { return tree.compare(item, payload) })
	return
}

func (tree *bstStruct[T]) Search(item T) (ref *T, ok bool) {
	return tree.SearchFunc(func(payload T) int { return tree.compare(item, payload) })
}

func (tree *bstStruct[T]) SearchFunc(probe ProbeCompare[T]) (ref *T, ok bool) {
	if nil == probe {
		return
	}

	index, depth := tree.findFunc(probe)

	tree.stats.SearchOps.Increment()
	tree.stats.SearchDepth.Add(uint64(depth))

	if nilNode == index {
		return
	}

	ref = &tree.node(index).payload
	ok = true
	return
}

func (tree *bstStruct[T]) Insert(item T) (ref *T, inserted bool) {
	var (
		leftmost  = true
		parent    = nilNode
		rightmost = true
		side      = rootSide
	)

	index := tree.root

	for nilNode != index {
		node := tree.node(index)
		result := tree.compare(item, node.payload)

		if 0 == result {
			// Duplicate: never a structural change, so cursors stay valid
			tree.stats.DuplicateInsertOps.Increment()
			if tree.updateOnDuplicate {
				node.payload = item
			}
			ref = &node.payload
			inserted = false
			return
		}

		parent = index
		if 0 > result {
			side = leftSide
			index = node.left
			rightmost = false
		} else {
			side = rightSide
			index = node.right
			leftmost = false
		}
	}

	index = tree.arena.alloc(item)
	tree.setChild(parent, side, index)

	if leftmost {
		tree.min = index
	}
	if rightmost {
		tree.max = index
	}

	tree.version++
	tree.stats.InsertOps.Increment()

	tree.hooks.postInsert(index)

	tree.validateIfConfigured("Insert")

	ref = &tree.node(index).payload
	inserted = true
	return
}

func (tree *bstStruct[T]) Delete(item T) (ok bool) {
	index := tree.find(item)
	if nilNode == index {
		return
	}

	tree.remove(index)

	ok = true
	return
}

func (tree *bstStruct[T]) DeleteFunc(probe ProbeCompare[T]) (removed T, ok bool) {
	if nil == probe {
		return
	}

	index, _ := tree.findFunc(probe)
	if nilNode == index {
		return
	}

	removed = tree.remove(index)
	ok = true
	return
}

// remove unlinks and frees a node known to be in the tree. A node with two children is
// replaced by its in-order successor (the minimum of its right subtree).
func (tree *bstStruct[T]) remove(index nodeIndex) (removed T) {
	var physicalParent nodeIndex

	node := tree.node(index)
	removed = node.payload

	if index == tree.min {
		if nilNode != node.right {
			tree.min = tree.leftmost(node.right)
		} else {
			tree.min = node.parent
		}
	}
	if index == tree.max {
		if nilNode != node.left {
			tree.max = tree.rightmost(node.left)
		} else {
			tree.max = node.parent
		}
	}

	if (nilNode == node.left) || (nilNode == node.right) {
		child := node.left
		if nilNode == child {
			child = node.right
		}

		physicalParent = node.parent
		tree.setChild(node.parent, node.side, child)
	} else {
		successor := tree.leftmost(node.right)
		successorNode := tree.node(successor)

		if successor == node.right {
			physicalParent = successor
		} else {
			physicalParent = successorNode.parent
			tree.setChild(successorNode.parent, leftSide, successorNode.right)
			tree.setChild(successor, rightSide, node.right)
		}

		tree.setChild(successor, leftSide, node.left)
		tree.setChild(node.parent, node.side, successor)

		successorNode.height = node.height
		successorNode.balance = node.balance
	}

	tree.arena.free(index)

	tree.version++
	tree.stats.DeleteOps.Increment()

	tree.hooks.postDelete(removed, physicalParent)

	tree.validateIfConfigured("Delete")

	return
}

// Clear releases every node (level by level) and leaves the tree empty
func (tree *bstStruct[T]) Clear() {
	if nilNode != tree.root {
		queue := []nodeIndex{tree.root}

		for head := 0; head < len(queue); head++ {
			node := tree.node(queue[head])
			if nilNode != node.left {
				queue = append(queue, node.left)
			}
			if nilNode != node.right {
				queue = append(queue, node.right)
			}
			tree.arena.free(queue[head])
		}
	}

	tree.arena.reset()
	tree.root = nilNode
	tree.min = nilNode
	tree.max = nilNode
	tree.version++
}

func (tree *bstStruct[T]) Len() (numberOfItems int) {
	numberOfItems = tree.arena.live
	return
}

func (tree *bstStruct[T]) NodeCount() (numberOfNodes int) {
	for range tree.PreOrder() {
		numberOfNodes++
	}
	return
}

func (tree *bstStruct[T]) Empty() bool {
	return nilNode == tree.root
}

func (tree *bstStruct[T]) Min() (ref *T, ok bool) {
	if nilNode == tree.min {
		return
	}
	ref = &tree.node(tree.min).payload
	ok = true
	return
}

func (tree *bstStruct[T]) Max() (ref *T, ok bool) {
	if nilNode == tree.max {
		return
	}
	ref = &tree.node(tree.max).payload
	ok = true
	return
}

func (tree *bstStruct[T]) Height() (height int) {
	return tree.hooks.height()
}

func (tree *bstStruct[T]) validateIfConfigured(operation string) {
	if !tree.validateOnMutation {
		return
	}

	err := tree.Validate()
	if nil != err {
		tree.stats.ValidateFailures.Increment()
		logger.ErrorfWithError(err, "avltree %s left the tree invalid", operation)
	}
}

// The unbalanced base tree's hooks

func (tree *bstStruct[T]) postInsert(newNode nodeIndex) {}

func (tree *bstStruct[T]) postDelete(removed T, parent nodeIndex) {}

// height finds the deepest level without trusting any cached node height
func (tree *bstStruct[T]) height() (height int) {
	height = -1

	if nilNode == tree.root {
		return
	}

	level := []nodeIndex{tree.root}

	for 0 < len(level) {
		height++

		nextLevel := make([]nodeIndex, 0, 2*len(level))
		for _, index := range level {
			node := tree.node(index)
			if nilNode != node.left {
				nextLevel = append(nextLevel, node.left)
			}
			if nilNode != node.right {
				nextLevel = append(nextLevel, node.right)
			}
		}
		level = nextLevel
	}

	return
}

func (tree *bstStruct[T]) validateNode(index nodeIndex) (err error) {
	return nil
}

func (tree *bstStruct[T]) adopt(clone *bstStruct[T]) Tree[T] {
	clone.hooks = clone
	return clone
}
