// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avlmap

import (
	"fmt"
	"iter"

	"github.com/NVIDIA/avltree/avltree"
	"github.com/NVIDIA/avltree/blunder"
	"github.com/NVIDIA/avltree/logger"
)

type mapStruct[K any, V any] struct {
	keyCompare   avltree.Compare[K]
	valueEqual   func(value1 V, value2 V) bool
	valueCompare avltree.Compare[V] // nil if values are unordered
	config       avltree.Config
	tree         avltree.Tree[Entry[K, V]]
}

type cursorStruct[K any, V any] struct {
	treeCursor avltree.Cursor[Entry[K, V]]
}

func equalComparable[V comparable](value1 V, value2 V) bool {
	return value1 == value2
}

func entrySeq[K any, V any](entries []Entry[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, entry := range entries {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

func newMapStruct[K any, V any](keyCompare avltree.Compare[K], valueEqual func(value1 V, value2 V) bool, valueCompare avltree.Compare[V], config avltree.Config) (newMap *mapStruct[K, V]) {
	config.UpdateOnDuplicate = false

	newMap = &mapStruct[K, V]{
		keyCompare:   keyCompare,
		valueEqual:   valueEqual,
		valueCompare: valueCompare,
		config:       config,
	}

	newMap.tree = avltree.New[Entry[K, V]](newMap.compareEntries, newMap, config)

	return
}

func (m *mapStruct[K, V]) compareEntries(entry1 Entry[K, V], entry2 Entry[K, V]) int {
	return m.keyCompare(entry1.Key, entry2.Key)
}

// probe returns a key-only ProbeCompare
func (m *mapStruct[K, V]) probe(key K) avltree.ProbeCompare[Entry[K, V]] {
	return func(entry Entry[K, V]) int {
		return m.keyCompare(key, entry.Key)
	}
}

// DumpItem satisfies avltree.DumpCallbacks
func (m *mapStruct[K, V]) DumpItem(entry Entry[K, V]) (entryAsString string, err error) {
	entryAsString = fmt.Sprintf("%v:%v", entry.Key, entry.Value)
	err = nil
	return
}

func (m *mapStruct[K, V]) Size() (numberOfEntries int) {
	return m.tree.Len()
}

func (m *mapStruct[K, V]) Empty() bool {
	return m.tree.Empty()
}

func (m *mapStruct[K, V]) At(key K) (value V, err error) {
	entry, ok := m.tree.SearchFunc(m.probe(key))
	if !ok {
		err = blunder.NewError(blunder.NotFoundError, "key %v not found", key)
		return
	}

	value = entry.Value
	err = nil
	return
}

func (m *mapStruct[K, V]) Index(key K) (valueRef *V) {
	entry, ok := m.tree.SearchFunc(m.probe(key))
	if !ok {
		entry, _ = m.tree.Insert(Entry[K, V]{Key: key})
		if logger.TraceEnabled("avlmap") {
			logger.Tracef("Index() inserted a zero value for key %v", key)
		}
	}

	valueRef = &entry.Value
	return
}

func (m *mapStruct[K, V]) Contains(key K) bool {
	_, ok := m.tree.SearchFunc(m.probe(key))
	return ok
}

func (m *mapStruct[K, V]) Find(key K) (cursor Cursor[K, V]) {
	treeCursor, err := m.tree.BeginAtFunc(m.probe(key))
	if nil != err {
		return m.End()
	}

	cursor = &cursorStruct[K, V]{treeCursor: treeCursor}
	return
}

func (m *mapStruct[K, V]) Insert(key K, value V) (cursor Cursor[K, V], inserted bool) {
	_, inserted = m.tree.Insert(Entry[K, V]{Key: key, Value: value})

	// Present either way, so BeginAtFunc cannot fail
	treeCursor, _ := m.tree.BeginAtFunc(m.probe(key))

	cursor = &cursorStruct[K, V]{treeCursor: treeCursor}
	return
}

func (m *mapStruct[K, V]) InsertAll(seq iter.Seq2[K, V]) {
	for key, value := range seq {
		m.tree.Insert(Entry[K, V]{Key: key, Value: value})
	}
}

func (m *mapStruct[K, V]) Erase(key K) (ok bool) {
	_, ok = m.tree.DeleteFunc(m.probe(key))
	return
}

// EraseAt removes the entry cursor is positioned at; cursor (like every other cursor
// over m) is stale afterward
func (m *mapStruct[K, V]) EraseAt(cursor Cursor[K, V]) (err error) {
	entry, err := cursor.Entry()
	if nil != err {
		return
	}

	if !m.Erase(entry.Key) {
		err = blunder.NewError(blunder.NotFoundError, "key %v not found", entry.Key)
		return
	}

	err = nil
	return
}

func (m *mapStruct[K, V]) Clear() {
	m.tree.Clear()
}

func (m *mapStruct[K, V]) Begin() Cursor[K, V] {
	return &cursorStruct[K, V]{treeCursor: m.tree.Begin()}
}

func (m *mapStruct[K, V]) End() Cursor[K, V] {
	return &cursorStruct[K, V]{treeCursor: m.tree.End()}
}

func (m *mapStruct[K, V]) RBegin() Cursor[K, V] {
	return &cursorStruct[K, V]{treeCursor: m.tree.RBegin()}
}

func (m *mapStruct[K, V]) REnd() Cursor[K, V] {
	return &cursorStruct[K, V]{treeCursor: m.tree.REnd()}
}

func (m *mapStruct[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for entry := range m.tree.InOrder() {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

func (m *mapStruct[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		cursor := m.tree.RBegin()
		for !cursor.AtEnd() {
			entry, err := cursor.Get()
			if nil != err {
				return
			}
			if !yield(entry.Key, entry.Value) {
				return
			}
			if nil != cursor.Next() {
				return
			}
		}
	}
}

func (m *mapStruct[K, V]) Clone() Map[K, V] {
	clone := &mapStruct[K, V]{
		keyCompare:   m.keyCompare,
		valueEqual:   m.valueEqual,
		valueCompare: m.valueCompare,
		config:       m.config,
	}

	clone.tree = m.tree.Clone()

	return clone
}

func (m *mapStruct[K, V]) Equal(other Map[K, V]) bool {
	if m.Size() != other.Size() {
		return false
	}

	nextOther, stop := iter.Pull2(other.All())
	defer stop()

	for key, value := range m.All() {
		otherKey, otherValue, ok := nextOther()
		if !ok {
			return false
		}
		if (0 != m.keyCompare(key, otherKey)) || !m.valueEqual(value, otherValue) {
			return false
		}
	}

	return true
}

func (m *mapStruct[K, V]) NotEqual(other Map[K, V]) bool {
	return !m.Equal(other)
}

// Less compares lexicographically in key order: the first differing key decides, and on
// equal keys the values decide (if they are ordered). A proper prefix is less.
func (m *mapStruct[K, V]) Less(other Map[K, V]) bool {
	nextOther, stop := iter.Pull2(other.All())
	defer stop()

	for key, value := range m.All() {
		otherKey, otherValue, ok := nextOther()
		if !ok {
			return false
		}

		keyResult := m.keyCompare(key, otherKey)
		if 0 != keyResult {
			return 0 > keyResult
		}

		if nil != m.valueCompare {
			valueResult := m.valueCompare(value, otherValue)
			if 0 != valueResult {
				return 0 > valueResult
			}
		}
	}

	return m.Size() < other.Size()
}

func (m *mapStruct[K, V]) Validate() (err error) {
	return m.tree.Validate()
}

func (m *mapStruct[K, V]) Dump() (err error) {
	return m.tree.Dump()
}

func (m *mapStruct[K, V]) Close() {
	m.tree.Close()
}

func (cursor *cursorStruct[K, V]) Next() (err error) {
	return cursor.treeCursor.Next()
}

func (cursor *cursorStruct[K, V]) Prev() (err error) {
	return cursor.treeCursor.Prev()
}

func (cursor *cursorStruct[K, V]) Entry() (entry *Entry[K, V], err error) {
	return cursor.treeCursor.Get()
}

func (cursor *cursorStruct[K, V]) AtEnd() bool {
	return cursor.treeCursor.AtEnd()
}

func (cursor *cursorStruct[K, V]) Equal(other Cursor[K, V]) bool {
	otherCursor, ok := other.(*cursorStruct[K, V])
	if !ok {
		return false
	}
	return cursor.treeCursor.Equal(otherCursor.treeCursor)
}

func (cursor *cursorStruct[K, V]) Clone() Cursor[K, V] {
	return &cursorStruct[K, V]{treeCursor: cursor.treeCursor.Clone()}
}
