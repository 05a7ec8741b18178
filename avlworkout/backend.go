// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"cmp"
	"fmt"

	"github.com/NVIDIA/sortedmap"
	"github.com/google/btree"

	"github.com/NVIDIA/avltree/avltree"
)

// workoutTree is the subset of ordered-map behavior every measured backend provides
type workoutTree interface {
	put(key uint64) (ok bool, err error)
	get(key uint64) (ok bool, err error)
	del(key uint64) (ok bool, err error)
	count() (numberOfItems int, err error)
	validate() (err error)
	close()
}

type avlBackendStruct struct {
	tree avltree.Tree[uint64]
}

type llrbBackendStruct struct {
	tree sortedmap.LLRBTree
}

type btreeBackendStruct struct {
	tree *btree.BTree
}

type btreeItem uint64

func (item btreeItem) Less(than btree.Item) bool {
	return item < than.(btreeItem)
}

// DumpItem satisfies avltree.DumpCallbacks
func (backend *avlBackendStruct) DumpItem(item uint64) (itemAsString string, err error) {
	itemAsString = fmt.Sprintf("0x%016X", item)
	err = nil
	return
}

func newAVLBackend(config avltree.Config) (backend *avlBackendStruct) {
	backend = &avlBackendStruct{}
	backend.tree = avltree.New[uint64](cmp.Compare[uint64], backend, config)
	return
}

func (backend *avlBackendStruct) put(key uint64) (ok bool, err error) {
	_, ok = backend.tree.Insert(key)
	return
}

func (backend *avlBackendStruct) get(key uint64) (ok bool, err error) {
	_, ok = backend.tree.Search(key)
	return
}

func (backend *avlBackendStruct) del(key uint64) (ok bool, err error) {
	ok = backend.tree.Delete(key)
	return
}

func (backend *avlBackendStruct) count() (numberOfItems int, err error) {
	numberOfItems = backend.tree.Len()
	return
}

func (backend *avlBackendStruct) validate() (err error) {
	return backend.tree.Validate()
}

func (backend *avlBackendStruct) close() {
	backend.tree.Close()
}

// DumpKey and DumpValue satisfy sortedmap.LLRBTreeCallbacks
func (backend *llrbBackendStruct) DumpKey(key sortedmap.Key) (keyAsString string, err error) {
	keyAsString = fmt.Sprintf("0x%016X", key.(uint64))
	err = nil
	return
}

func (backend *llrbBackendStruct) DumpValue(value sortedmap.Value) (valueAsString string, err error) {
	valueAsString = fmt.Sprintf("%v", value)
	err = nil
	return
}

func newLLRBBackend() (backend *llrbBackendStruct) {
	backend = &llrbBackendStruct{}
	backend.tree = sortedmap.NewLLRBTree(sortedmap.CompareUint64, backend)
	return
}

func (backend *llrbBackendStruct) put(key uint64) (ok bool, err error) {
	return backend.tree.Put(key, struct{}{})
}

func (backend *llrbBackendStruct) get(key uint64) (ok bool, err error) {
	_, ok, err = backend.tree.GetByKey(key)
	return
}

func (backend *llrbBackendStruct) del(key uint64) (ok bool, err error) {
	return backend.tree.DeleteByKey(key)
}

func (backend *llrbBackendStruct) count() (numberOfItems int, err error) {
	return backend.tree.Len()
}

func (backend *llrbBackendStruct) validate() (err error) {
	return backend.tree.Validate()
}

func (backend *llrbBackendStruct) close() {}

func newBTreeBackend(degree int) (backend *btreeBackendStruct) {
	backend = &btreeBackendStruct{tree: btree.New(degree)}
	return
}

func (backend *btreeBackendStruct) put(key uint64) (ok bool, err error) {
	ok = (nil == backend.tree.ReplaceOrInsert(btreeItem(key)))
	return
}

func (backend *btreeBackendStruct) get(key uint64) (ok bool, err error) {
	ok = (nil != backend.tree.Get(btreeItem(key)))
	return
}

func (backend *btreeBackendStruct) del(key uint64) (ok bool, err error) {
	ok = (nil != backend.tree.Delete(btreeItem(key)))
	return
}

func (backend *btreeBackendStruct) count() (numberOfItems int, err error) {
	numberOfItems = backend.tree.Len()
	return
}

// validate checks that an ascending walk is strictly increasing
func (backend *btreeBackendStruct) validate() (err error) {
	var previous *btreeItem

	backend.tree.Ascend(func(item btree.Item) bool {
		current := item.(btreeItem)
		if (nil != previous) && !previous.Less(current) {
			err = fmt.Errorf("btree items 0x%016X and 0x%016X out of order", uint64(*previous), uint64(current))
			return false
		}
		previous = &current
		return true
	})

	return
}

func (backend *btreeBackendStruct) close() {}
