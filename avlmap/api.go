// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package avlmap provides an ordered key/value map on top of an avltree.Tree.
//
// Entries are ordered by key alone; every lookup, erase, and cursor positioning is done
// with a key-only probe so that no full Entry need be built to find one. Two maps compare
// element-wise in key order, key first and then value. When the value type has no ordering
// (see NewUnorderedValues), values break no ties in Less.
//
// Like the underlying tree, a Map is not safe for concurrent use.
package avlmap

import (
	"cmp"
	"iter"

	"github.com/NVIDIA/avltree/avltree"
)

// Entry is the payload stored in the tree
type Entry[K any, V any] struct {
	Key   K
	Value V
}

type Map[K any, V any] interface {
	Size() (numberOfEntries int)
	Empty() bool
	At(key K) (value V, err error) // blunder.NotFoundError if key is absent
	Index(key K) (valueRef *V)     // Inserts the zero value if key is absent
	Contains(key K) bool
	Find(key K) (cursor Cursor[K, V]) // End() if key is absent

	// Insert adds key:value unless key is already present (in which case the existing
	// value is kept), returning a cursor at key's entry either way
	Insert(key K, value V) (cursor Cursor[K, V], inserted bool)
	InsertAll(seq iter.Seq2[K, V])
	Erase(key K) (ok bool)
	EraseAt(cursor Cursor[K, V]) (err error)
	Clear()
	Begin() Cursor[K, V]
	End() Cursor[K, V]
	RBegin() Cursor[K, V]
	REnd() Cursor[K, V]
	All() iter.Seq2[K, V]
	Backward() iter.Seq2[K, V]
	Clone() Map[K, V]
	Equal(other Map[K, V]) bool
	NotEqual(other Map[K, V]) bool
	Less(other Map[K, V]) bool
	Validate() (err error)
	Dump() (err error)
	Close()
}

// Cursor is a bidirectional position over a Map's entries (see avltree.Cursor)
type Cursor[K any, V any] interface {
	Next() (err error)
	Prev() (err error)
	Entry() (entry *Entry[K, V], err error)
	AtEnd() bool
	Equal(other Cursor[K, V]) bool
	Clone() Cursor[K, V]
}

// New returns a Map whose keys and values are both ordered with cmp.Compare, holding the
// given initial entries (a later duplicate key is ignored)
func New[K cmp.Ordered, V cmp.Ordered](entries ...Entry[K, V]) (newMap Map[K, V]) {
	newMap = NewFunc[K, V](cmp.Compare[K], equalComparable[V], cmp.Compare[V])
	newMap.InsertAll(entrySeq(entries))
	return
}

// NewUnorderedValues returns a Map whose values can only be tested for equality
func NewUnorderedValues[K cmp.Ordered, V comparable](entries ...Entry[K, V]) (newMap Map[K, V]) {
	newMap = NewFunc[K, V](cmp.Compare[K], equalComparable[V], nil)
	newMap.InsertAll(entrySeq(entries))
	return
}

// NewFunc returns an empty Map using the supplied funcs. valueCompare may be nil if the
// value type has no ordering.
func NewFunc[K any, V any](keyCompare avltree.Compare[K], valueEqual func(value1 V, value2 V) bool, valueCompare avltree.Compare[V]) (newMap Map[K, V]) {
	newMap = newMapStruct(keyCompare, valueEqual, valueCompare, avltree.Config{})
	return
}

// NewFuncWithConfig is NewFunc with the tree's validation and statistics settings taken
// from config. config.UpdateOnDuplicate is ignored: Insert never overwrites.
func NewFuncWithConfig[K any, V any](keyCompare avltree.Compare[K], valueEqual func(value1 V, value2 V) bool, valueCompare avltree.Compare[V], config avltree.Config) (newMap Map[K, V]) {
	newMap = newMapStruct(keyCompare, valueEqual, valueCompare, config)
	return
}
