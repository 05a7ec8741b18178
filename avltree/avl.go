// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"github.com/NVIDIA/avltree/blunder"
	"github.com/NVIDIA/avltree/logger"
)

type rotationKind uint8

const (
	rotateLL rotationKind = iota // Single right rotation
	rotateLR                     // Left then right
	rotateRR                     // Single left rotation
	rotateRL                     // Right then left
)

func (kind rotationKind) String() string {
	switch kind {
	case rotateLL:
		return "LL"
	case rotateLR:
		return "LR"
	case rotateRR:
		return "RR"
	default:
		return "RL"
	}
}

type avlTreeStruct[T any] struct {
	*bstStruct[T]
}

func newAVLTree[T any](compare Compare[T], callbacks DumpCallbacks[T], config Config) (tree *avlTreeStruct[T]) {
	tree = &avlTreeStruct[T]{bstStruct: newBSTree(compare, callbacks, config)}
	tree.hooks = tree
	return
}

func (tree *avlTreeStruct[T]) heightOf(index nodeIndex) int {
	if nilNode == index {
		return -1
	}
	return tree.node(index).height
}

// updateMetadata recomputes a node's height and balance from its children's cached
// heights, reporting whether the height changed
func (tree *avlTreeStruct[T]) updateMetadata(index nodeIndex) (heightChanged bool) {
	node := tree.node(index)

	leftHeight := tree.heightOf(node.left)
	rightHeight := tree.heightOf(node.right)

	height := 1 + max(leftHeight, rightHeight)

	heightChanged = (height != node.height)
	node.height = height
	node.balance = leftHeight - rightHeight

	return
}

func isUnbalanced(balance int) bool {
	return (1 < balance) || (-1 > balance)
}

// postInsert walks up from the new node's parent. At most one restoration is needed:
// it returns the rotated subtree to its pre-insert height.
func (tree *avlTreeStruct[T]) postInsert(newNode nodeIndex) {
	var (
		child      = newNode
		grandchild = nilNode
		walk       uint64
	)

	ancestor := tree.node(newNode).parent

	for nilNode != ancestor {
		walk++

		heightChanged := tree.updateMetadata(ancestor)
		ancestorNode := tree.node(ancestor)

		if isUnbalanced(ancestorNode.balance) {
			tree.restore(child, grandchild)
			break
		}
		if !heightChanged {
			break
		}

		grandchild = child
		child = ancestor
		ancestor = ancestorNode.parent
	}

	tree.stats.RebalanceWalk.Add(walk)
}

// postDelete walks from the parent of the physically removed node all the way to the
// root, restoring every unbalanced ancestor (deletion may need several rotations)
func (tree *avlTreeStruct[T]) postDelete(removed T, parent nodeIndex) {
	var walk uint64

	ancestor := parent

	for nilNode != ancestor {
		walk++

		tree.updateMetadata(ancestor)

		if isUnbalanced(tree.node(ancestor).balance) {
			child := tree.tallerChild(ancestor, rootSide)
			grandchild := tree.tallerChild(child, tree.node(child).side)
			ancestor = tree.restore(child, grandchild)
		}

		ancestor = tree.node(ancestor).parent
	}

	tree.stats.RebalanceWalk.Add(walk)
}

// tallerChild returns the child with the greater height; on a tie the child on the
// preferred side wins (so that a single rotation is chosen when one suffices)
func (tree *avlTreeStruct[T]) tallerChild(index nodeIndex, preferred childSide) nodeIndex {
	node := tree.node(index)

	leftHeight := tree.heightOf(node.left)
	rightHeight := tree.heightOf(node.right)

	switch {
	case leftHeight > rightHeight:
		return node.left
	case rightHeight > leftHeight:
		return node.right
	case rightSide == preferred:
		return node.right
	default:
		return node.left
	}
}

// restore rebalances the subtree rooted at child's parent, picking the rotation from
// which side child hangs off its parent and which side grandchild hangs off child.
// It returns the new root of that subtree.
func (tree *avlTreeStruct[T]) restore(child nodeIndex, grandchild nodeIndex) (subtreeRoot nodeIndex) {
	var kind rotationKind

	sideOfChild := tree.node(child).side
	sideOfGrandchild := tree.node(grandchild).side

	switch {
	case (leftSide == sideOfChild) && (leftSide == sideOfGrandchild):
		kind = rotateLL
		tree.rotateRight(child)
		subtreeRoot = child
	case leftSide == sideOfChild:
		kind = rotateLR
		tree.rotateLeft(grandchild)
		tree.rotateRight(grandchild)
		subtreeRoot = grandchild
	case rightSide == sideOfGrandchild:
		kind = rotateRR
		tree.rotateLeft(child)
		subtreeRoot = child
	default:
		kind = rotateRL
		tree.rotateRight(grandchild)
		tree.rotateLeft(grandchild)
		subtreeRoot = grandchild
	}

	if (rotateLL == kind) || (rotateRR == kind) {
		tree.stats.SingleRotations.Increment()
	} else {
		tree.stats.DoubleRotations.Increment()
	}

	if logger.TraceEnabled("avltree") {
		logger.Tracef("%v rotation raised %v (height %v)", kind, tree.itemString(tree.node(subtreeRoot).payload), tree.node(subtreeRoot).height)
	}

	return
}

// rotateRight lifts pivot (a left child) above its parent
func (tree *avlTreeStruct[T]) rotateRight(pivot nodeIndex) {
	pivotNode := tree.node(pivot)

	old := pivotNode.parent
	oldNode := tree.node(old)
	oldParent := oldNode.parent
	oldSide := oldNode.side

	tree.setChild(old, leftSide, pivotNode.right)
	tree.setChild(pivot, rightSide, old)
	tree.setChild(oldParent, oldSide, pivot)

	tree.updateMetadata(old)
	tree.updateMetadata(pivot)
}

// rotateLeft lifts pivot (a right child) above its parent
func (tree *avlTreeStruct[T]) rotateLeft(pivot nodeIndex) {
	pivotNode := tree.node(pivot)

	old := pivotNode.parent
	oldNode := tree.node(old)
	oldParent := oldNode.parent
	oldSide := oldNode.side

	tree.setChild(old, rightSide, pivotNode.left)
	tree.setChild(pivot, leftSide, old)
	tree.setChild(oldParent, oldSide, pivot)

	tree.updateMetadata(old)
	tree.updateMetadata(pivot)
}

func (tree *avlTreeStruct[T]) height() int {
	return tree.heightOf(tree.root)
}

func (tree *avlTreeStruct[T]) validateNode(index nodeIndex) (err error) {
	node := tree.node(index)

	leftHeight := tree.heightOf(node.left)
	rightHeight := tree.heightOf(node.right)

	if node.height != 1+max(leftHeight, rightHeight) {
		err = blunder.NewError(blunder.CorruptTreeError, "node %v cached height %v but children have heights %v and %v",
			tree.itemString(node.payload), node.height, leftHeight, rightHeight)
		return
	}
	if node.balance != leftHeight-rightHeight {
		err = blunder.NewError(blunder.CorruptTreeError, "node %v cached balance %v but children have heights %v and %v",
			tree.itemString(node.payload), node.balance, leftHeight, rightHeight)
		return
	}
	if isUnbalanced(node.balance) {
		err = blunder.NewError(blunder.CorruptTreeError, "node %v has balance %v",
			tree.itemString(node.payload), node.balance)
		return
	}

	err = nil
	return
}

func (tree *avlTreeStruct[T]) adopt(clone *bstStruct[T]) Tree[T] {
	adopted := &avlTreeStruct[T]{bstStruct: clone}
	clone.hooks = adopted
	return adopted
}
