// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package avltree provides an ordered container implemented as an AVL tree (in memory)
//
// Entries are kept sorted by a client supplied Compare func. The tree caches its minimum
// and maximum entries, hands out bidirectional cursors over the in-order sequence, and
// restores the AVL height-balance invariant after every insert and delete.
//
// Nodes live in a chunked arena and refer to each other by index rather than by pointer.
// A *T returned by Search, Insert, or a Cursor stays valid until that entry is deleted
// (or the tree is cleared). Callers must not modify the part of an entry that the Compare
// func looks at.
//
// A Tree is not safe for concurrent use. Callers serialize access externally.
package avltree

import (
	"iter"
)

// Compare returns <0 if item1 < item2, 0 if item1 == item2, >0 if item1 > item2
type Compare[T any] func(item1 T, item2 T) (result int)

// ProbeCompare compares some probe (typically a partial key captured by the closure)
// against item, returning <0 if probe < item, 0 if probe matches item, >0 if probe > item
type ProbeCompare[T any] func(item T) (result int)

// DumpCallbacks specifies the interface to a set of callbacks provided by the client
type DumpCallbacks[T any] interface {
	DumpItem(item T) (itemAsString string, err error)
}

type Tree[T any] interface {
	Search(item T) (ref *T, ok bool)
	SearchFunc(probe ProbeCompare[T]) (ref *T, ok bool)
	Insert(item T) (ref *T, inserted bool) // inserted == false for a duplicate (see Config.UpdateOnDuplicate)
	Delete(item T) (ok bool)
	DeleteFunc(probe ProbeCompare[T]) (removed T, ok bool)
	Clear()
	Len() (numberOfItems int)
	NodeCount() (numberOfNodes int) // Counts nodes by walking the tree
	Empty() bool
	Min() (ref *T, ok bool)
	Max() (ref *T, ok bool)
	Height() (height int) // -1 for an empty tree, 0 for a single entry

	// Begin returns a forward cursor at the minimum (equal to End() if the tree is empty),
	// End returns a forward cursor one past the maximum, RBegin returns a reverse cursor at
	// the maximum (equal to REnd() if the tree is empty), and REnd returns a reverse cursor
	// one before the minimum.
	Begin() Cursor[T]
	End() Cursor[T]
	RBegin() Cursor[T]
	REnd() Cursor[T]

	BeginAt(item T) (cursor Cursor[T], err error)
	BeginAtFunc(probe ProbeCompare[T]) (cursor Cursor[T], err error)
	PreOrder() iter.Seq[*T]
	InOrder() iter.Seq[*T]
	PostOrder() iter.Seq[*T]
	Clone() Tree[T]
	Validate() (err error)
	Dump() (err error)
	Close() // Unregisters statistics (if any were registered)
}

// Cursor is a bidirectional position in a Tree's in-order sequence.
//
// A forward cursor ranges over [Begin(),End()]; a reverse cursor over [RBegin(),REnd()]
// with Next() and Prev() swapped. Moving outside that range fails with
// blunder.OutOfRangeError and leaves the cursor where it was. Any use of a cursor after
// the tree has been structurally modified (insert of a new entry, delete, clear) fails
// with blunder.StaleCursorError.
type Cursor[T any] interface {
	Next() (err error)
	Prev() (err error)
	Get() (ref *T, err error)
	AtEnd() bool // true at End() or REnd()
	Equal(other Cursor[T]) bool
	Clone() Cursor[T]
}

// New returns an empty AVL tree
func New[T any](compare Compare[T], callbacks DumpCallbacks[T], config Config) (tree Tree[T]) {
	tree = newAVLTree(compare, callbacks, config)
	return
}

// NewUnbalanced returns an empty ordered tree that performs no rebalancing
func NewUnbalanced[T any](compare Compare[T], callbacks DumpCallbacks[T], config Config) (tree Tree[T]) {
	tree = newBSTree(compare, callbacks, config)
	return
}
