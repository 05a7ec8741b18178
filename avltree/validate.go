// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"github.com/NVIDIA/avltree/blunder"
)

// Validate checks every structural invariant: parent/side links agree with child links,
// entries are strictly ascending in-order, the cached count and min/max are right, and
// (for an AVL tree) each node's cached height and balance are right and within bounds.
func (tree *bstStruct[T]) Validate() (err error) {
	var (
		count    int
		previous nodeIndex
		stack    []nodeIndex
	)

	if nilNode != tree.root {
		rootNode := tree.node(tree.root)
		if (nilNode != rootNode.parent) || (rootSide != rootNode.side) {
			err = blunder.NewError(blunder.CorruptTreeError, "root %v has parent %v side %v",
				tree.itemString(rootNode.payload), rootNode.parent, rootNode.side)
			return
		}
	}

	index := tree.root

	for (nilNode != index) || (0 < len(stack)) {
		for nilNode != index {
			stack = append(stack, index)
			index = tree.node(index).left
		}

		index = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.node(index)

		err = tree.validateLinks(index, node.left, leftSide)
		if nil != err {
			return
		}
		err = tree.validateLinks(index, node.right, rightSide)
		if nil != err {
			return
		}

		if (nilNode != previous) && (0 <= tree.compare(tree.node(previous).payload, node.payload)) {
			err = blunder.NewError(blunder.CorruptTreeError, "entries %v and %v out of order",
				tree.itemString(tree.node(previous).payload), tree.itemString(node.payload))
			return
		}

		err = tree.hooks.validateNode(index)
		if nil != err {
			return
		}

		if nilNode == previous {
			if index != tree.min {
				err = blunder.NewError(blunder.CorruptTreeError, "cached minimum is not %v", tree.itemString(node.payload))
				return
			}
		}

		count++
		previous = index
		index = node.right
	}

	if previous != tree.max {
		err = blunder.NewError(blunder.CorruptTreeError, "cached maximum is not the last entry")
		return
	}

	if (nilNode == tree.root) && (nilNode != tree.min) {
		err = blunder.NewError(blunder.CorruptTreeError, "empty tree has a cached minimum")
		return
	}

	if count != tree.arena.live {
		err = blunder.NewError(blunder.CorruptTreeError, "found %v entries but %v are allocated", count, tree.arena.live)
		return
	}

	err = nil
	return
}

func (tree *bstStruct[T]) validateLinks(parent nodeIndex, child nodeIndex, side childSide) (err error) {
	if nilNode == child {
		err = nil
		return
	}

	childNode := tree.node(child)

	if (parent != childNode.parent) || (side != childNode.side) {
		err = blunder.NewError(blunder.CorruptTreeError, "%v child %v of %v records parent %v side %v",
			side, tree.itemString(childNode.payload), tree.itemString(tree.node(parent).payload),
			childNode.parent, childNode.side)
		return
	}

	err = nil
	return
}
