// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"github.com/NVIDIA/avltree/blunder"
)

type cursorPosition uint8

const (
	atNode cursorPosition = iota
	atEnd                 // One past the maximum
	atREnd                // One before the minimum
)

type cursorFrame struct {
	node  nodeIndex
	depth int
}

// cursorStruct keeps the root-to-current path split across two stacks, each ordered by
// depth (shallowest at the bottom):
//
//	ahead  - the current node on top, below it every ancestor whose left subtree holds
//	         the current node (the ancestors still to be visited going forward)
//	behind - every ancestor whose right subtree holds the current node (the ancestors
//	         already visited going forward)
//
// At End, ahead is empty and behind holds the path to the maximum. At REnd, behind is
// empty and ahead holds the path to the minimum.
type cursorStruct[T any] struct {
	tree     *bstStruct[T]
	version  uint64
	reverse  bool
	position cursorPosition
	ahead    []cursorFrame
	behind   []cursorFrame
}

func (tree *bstStruct[T]) newCursor(reverse bool) (cursor *cursorStruct[T]) {
	cursor = &cursorStruct[T]{
		tree:    tree,
		version: tree.version,
		reverse: reverse,
	}
	return
}

// seek positions the cursor at index by rebuilding both stacks from the parent links
func (cursor *cursorStruct[T]) seek(index nodeIndex) {
	tree := cursor.tree

	var path []nodeIndex
	for ; nilNode != index; index = tree.node(index).parent {
		path = append(path, index)
	}

	cursor.ahead = cursor.ahead[:0]
	cursor.behind = cursor.behind[:0]

	depth := 0
	for i := len(path) - 1; i >= 0; i-- {
		frame := cursorFrame{node: path[i], depth: depth}
		if (0 == i) || (leftSide == tree.node(path[i-1]).side) {
			cursor.ahead = append(cursor.ahead, frame)
		} else {
			cursor.behind = append(cursor.behind, frame)
		}
		depth++
	}

	cursor.position = atNode
}

func (tree *bstStruct[T]) Begin() Cursor[T] {
	cursor := tree.newCursor(false)
	if nilNode == tree.min {
		cursor.position = atEnd
	} else {
		cursor.seek(tree.min)
	}
	return cursor
}

func (tree *bstStruct[T]) End() Cursor[T] {
	cursor := tree.newCursor(false)
	if nilNode != tree.max {
		cursor.seek(tree.max)
		cursor.behind = append(cursor.behind, cursor.ahead[0])
		cursor.ahead = cursor.ahead[:0]
	}
	cursor.position = atEnd
	return cursor
}

func (tree *bstStruct[T]) RBegin() Cursor[T] {
	cursor := tree.newCursor(true)
	if nilNode == tree.max {
		cursor.position = atREnd
	} else {
		cursor.seek(tree.max)
	}
	return cursor
}

func (tree *bstStruct[T]) REnd() Cursor[T] {
	cursor := tree.newCursor(true)
	if nilNode != tree.min {
		cursor.seek(tree.min)
	}
	cursor.position = atREnd
	return cursor
}

func (tree *bstStruct[T]) BeginAt(item T) (cursor Cursor[T], err error) {
	return tree.BeginAtFunc(func(payload T) int { return tree.compare(item, payload) })
}

// BeginAtFunc returns a forward cursor positioned at the entry matching probe
func (tree *bstStruct[T]) BeginAtFunc(probe ProbeCompare[T]) (cursor Cursor[T], err error) {
	if nil == probe {
		err = blunder.NewError(blunder.InvalidArgError, "BeginAtFunc() requires a non-nil probe")
		return
	}

	index, _ := tree.findFunc(probe)
	if nilNode == index {
		err = blunder.NewError(blunder.NotFoundError, "no matching entry")
		return
	}

	newCursor := tree.newCursor(false)
	newCursor.seek(index)

	cursor = newCursor
	err = nil
	return
}

func (cursor *cursorStruct[T]) checkVersion() (err error) {
	if cursor.version != cursor.tree.version {
		err = blunder.NewError(blunder.StaleCursorError, "cursor used after the tree was modified")
		return
	}
	err = nil
	return
}

func (cursor *cursorStruct[T]) top(stack []cursorFrame) cursorFrame {
	return stack[len(stack)-1]
}

// pushLeftSpine pushes index and its chain of left children onto ahead
func (cursor *cursorStruct[T]) pushLeftSpine(index nodeIndex, depth int) {
	for nilNode != index {
		cursor.ahead = append(cursor.ahead, cursorFrame{node: index, depth: depth})
		index = cursor.tree.node(index).left
		depth++
	}
}

// stepForward moves to the in-order successor
func (cursor *cursorStruct[T]) stepForward() (err error) {
	switch cursor.position {
	case atEnd:
		err = blunder.NewError(blunder.OutOfRangeError, "cannot advance past the end")
		return
	case atREnd:
		if 0 == len(cursor.ahead) {
			err = blunder.NewError(blunder.OutOfRangeError, "tree is empty")
			return
		}
		cursor.position = atNode
		err = nil
		return
	}

	current := cursor.top(cursor.ahead)
	currentNode := cursor.tree.node(current.node)

	if nilNode != currentNode.right {
		cursor.ahead = cursor.ahead[:len(cursor.ahead)-1]
		cursor.behind = append(cursor.behind, current)
		cursor.pushLeftSpine(currentNode.right, current.depth+1)
		err = nil
		return
	}

	if 1 == len(cursor.ahead) {
		// current is the maximum
		if cursor.reverse {
			err = blunder.NewError(blunder.OutOfRangeError, "cannot move before the beginning")
			return
		}
		cursor.ahead = cursor.ahead[:0]
		cursor.behind = append(cursor.behind, current)
		cursor.position = atEnd
		err = nil
		return
	}

	cursor.ahead = cursor.ahead[:len(cursor.ahead)-1]
	successorDepth := cursor.top(cursor.ahead).depth
	for (0 < len(cursor.behind)) && (cursor.top(cursor.behind).depth > successorDepth) {
		cursor.behind = cursor.behind[:len(cursor.behind)-1]
	}

	err = nil
	return
}

// stepBackward moves to the in-order predecessor
func (cursor *cursorStruct[T]) stepBackward() (err error) {
	switch cursor.position {
	case atREnd:
		err = blunder.NewError(blunder.OutOfRangeError, "cannot advance past the end")
		return
	case atEnd:
		if 0 == len(cursor.behind) {
			err = blunder.NewError(blunder.OutOfRangeError, "tree is empty")
			return
		}
		cursor.ahead = append(cursor.ahead, cursor.top(cursor.behind))
		cursor.behind = cursor.behind[:len(cursor.behind)-1]
		cursor.position = atNode
		err = nil
		return
	}

	current := cursor.top(cursor.ahead)
	currentNode := cursor.tree.node(current.node)

	if nilNode != currentNode.left {
		// Descend to the rightmost node of the left subtree
		index := currentNode.left
		depth := current.depth + 1
		for nilNode != cursor.tree.node(index).right {
			cursor.behind = append(cursor.behind, cursorFrame{node: index, depth: depth})
			index = cursor.tree.node(index).right
			depth++
		}
		cursor.ahead = append(cursor.ahead, cursorFrame{node: index, depth: depth})
		err = nil
		return
	}

	if 0 == len(cursor.behind) {
		// current is the minimum
		if !cursor.reverse {
			err = blunder.NewError(blunder.OutOfRangeError, "cannot move before the beginning")
			return
		}
		cursor.position = atREnd
		err = nil
		return
	}

	predecessor := cursor.top(cursor.behind)
	cursor.behind = cursor.behind[:len(cursor.behind)-1]
	for (0 < len(cursor.ahead)) && (cursor.top(cursor.ahead).depth > predecessor.depth) {
		cursor.ahead = cursor.ahead[:len(cursor.ahead)-1]
	}
	cursor.ahead = append(cursor.ahead, predecessor)

	err = nil
	return
}

func (cursor *cursorStruct[T]) Next() (err error) {
	err = cursor.checkVersion()
	if nil != err {
		return
	}

	if cursor.reverse {
		err = cursor.stepBackward()
	} else {
		err = cursor.stepForward()
	}
	return
}

func (cursor *cursorStruct[T]) Prev() (err error) {
	err = cursor.checkVersion()
	if nil != err {
		return
	}

	if cursor.reverse {
		err = cursor.stepForward()
	} else {
		err = cursor.stepBackward()
	}
	return
}

func (cursor *cursorStruct[T]) Get() (ref *T, err error) {
	err = cursor.checkVersion()
	if nil != err {
		return
	}

	if atNode != cursor.position {
		err = blunder.NewError(blunder.OutOfRangeError, "cursor is not positioned at an entry")
		return
	}

	ref = &cursor.tree.node(cursor.top(cursor.ahead).node).payload
	err = nil
	return
}

func (cursor *cursorStruct[T]) AtEnd() bool {
	return atNode != cursor.position
}

// Equal reports whether other is a valid cursor over the same tree at the same position
func (cursor *cursorStruct[T]) Equal(other Cursor[T]) bool {
	otherCursor, ok := other.(*cursorStruct[T])
	if !ok || (nil == otherCursor) {
		return false
	}

	if (cursor.tree != otherCursor.tree) || (nil != cursor.checkVersion()) || (nil != otherCursor.checkVersion()) {
		return false
	}

	if (cursor.reverse != otherCursor.reverse) || (cursor.position != otherCursor.position) {
		return false
	}

	if atNode != cursor.position {
		return true
	}

	return cursor.top(cursor.ahead).node == otherCursor.top(otherCursor.ahead).node
}

func (cursor *cursorStruct[T]) Clone() Cursor[T] {
	clone := *cursor
	clone.ahead = append([]cursorFrame(nil), cursor.ahead...)
	clone.behind = append([]cursorFrame(nil), cursor.behind...)
	return &clone
}
