// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"iter"
)

// PreOrder yields each entry before either of its subtrees
func (tree *bstStruct[T]) PreOrder() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		if nilNode == tree.root {
			return
		}

		stack := []nodeIndex{tree.root}

		for 0 < len(stack) {
			index := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			node := tree.node(index)
			if !yield(&node.payload) {
				return
			}

			if nilNode != node.right {
				stack = append(stack, node.right)
			}
			if nilNode != node.left {
				stack = append(stack, node.left)
			}
		}
	}
}

// InOrder yields entries in ascending order
func (tree *bstStruct[T]) InOrder() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		var stack []nodeIndex

		index := tree.root

		for (nilNode != index) || (0 < len(stack)) {
			for nilNode != index {
				stack = append(stack, index)
				index = tree.node(index).left
			}

			index = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			node := tree.node(index)
			if !yield(&node.payload) {
				return
			}

			index = node.right
		}
	}
}

// firstPostOrder returns the first node of index's subtree in post-order
func (tree *bstStruct[T]) firstPostOrder(index nodeIndex) nodeIndex {
	for {
		node := tree.node(index)
		switch {
		case nilNode != node.left:
			index = node.left
		case nilNode != node.right:
			index = node.right
		default:
			return index
		}
	}
}

// PostOrder yields each entry after both of its subtrees, following parent links
func (tree *bstStruct[T]) PostOrder() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		if nilNode == tree.root {
			return
		}

		index := tree.firstPostOrder(tree.root)

		for nilNode != index {
			node := tree.node(index)

			// Find the successor before yielding in case the consumer stops early
			next := node.parent
			if (leftSide == node.side) && (nilNode != tree.node(next).right) {
				next = tree.firstPostOrder(tree.node(next).right)
			}

			if !yield(&node.payload) {
				return
			}

			index = next
		}
	}
}

// Clone returns a structurally identical copy (same shape, heights, and balance factors)
// holding copies of each entry. The clone shares no nodes with tree and does not
// register statistics.
func (tree *bstStruct[T]) Clone() Tree[T] {
	clone := &bstStruct[T]{
		compare:            tree.compare,
		callbacks:          tree.callbacks,
		updateOnDuplicate:  tree.updateOnDuplicate,
		validateOnMutation: tree.validateOnMutation,
	}

	clone.registerStats()

	if nilNode != tree.root {
		type cloneFrame struct {
			source nodeIndex
			parent nodeIndex
			side   childSide
		}

		queue := []cloneFrame{{source: tree.root, parent: nilNode, side: rootSide}}

		for head := 0; head < len(queue); head++ {
			frame := queue[head]
			sourceNode := tree.node(frame.source)

			index := clone.arena.alloc(sourceNode.payload)
			clone.setChild(frame.parent, frame.side, index)

			cloneNode := clone.node(index)
			cloneNode.height = sourceNode.height
			cloneNode.balance = sourceNode.balance

			if nilNode != sourceNode.left {
				queue = append(queue, cloneFrame{source: sourceNode.left, parent: index, side: leftSide})
			}
			if nilNode != sourceNode.right {
				queue = append(queue, cloneFrame{source: sourceNode.right, parent: index, side: rightSide})
			}
		}

		clone.min = clone.leftmost(clone.root)
		clone.max = clone.rightmost(clone.root)
	}

	return tree.hooks.adopt(clone)
}
