// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

// Meta Test library run against both the AVL tree and the unbalanced tree

import (
	"cmp"
	"fmt"
	mathRand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/avltree/blunder"
)

const (
	testHugeNumKeys = 5000

	pseudoRandomSeed = int64(0)
)

type newIntTreeFunc func(config Config) Tree[int]

type testDumpCallbacksStruct struct{}

func (callbacks *testDumpCallbacksStruct) DumpItem(item int) (itemAsString string, err error) {
	itemAsString = fmt.Sprintf("%d", item)
	err = nil
	return
}

func newTestAVLTree(config Config) Tree[int] {
	return New[int](cmp.Compare[int], &testDumpCallbacksStruct{}, config)
}

func newTestUnbalancedTree(config Config) Tree[int] {
	return NewUnbalanced[int](cmp.Compare[int], &testDumpCallbacksStruct{}, config)
}

func testKnuthShuffledIntSlice(n int, randSource *mathRand.Rand) (intSlice []int) {
	intSlice = make([]int, n)
	for i := 0; i < n; i++ {
		intSlice[i] = i
	}
	for swapFrom := n - 1; swapFrom > 0; swapFrom-- {
		swapTo := randSource.Intn(swapFrom + 1)
		if swapFrom != swapTo {
			intSlice[swapFrom], intSlice[swapTo] = intSlice[swapTo], intSlice[swapFrom]
		}
	}
	return
}

func testInsertAll(t *testing.T, tree Tree[int], items []int) {
	for _, item := range items {
		_, inserted := tree.Insert(item)
		if !inserted {
			t.Fatalf("Insert(%v) should have inserted", item)
		}
	}
}

func testInOrderSlice(tree Tree[int]) (items []int) {
	items = make([]int, 0, tree.Len())
	for ref := range tree.InOrder() {
		items = append(items, *ref)
	}
	return
}

// testCursorWalk collects entries from cursor until it reaches its end
func testCursorWalk(t *testing.T, cursor Cursor[int]) (items []int) {
	for !cursor.AtEnd() {
		ref, err := cursor.Get()
		if nil != err {
			t.Fatalf("Get() failed: %v", err)
		}
		items = append(items, *ref)
		err = cursor.Next()
		if nil != err {
			t.Fatalf("Next() failed: %v", err)
		}
	}
	return
}

func metaTestEmpty(t *testing.T, newTree newIntTreeFunc) {
	assert := assert.New(t)

	tree := newTree(Config{})

	assert.True(tree.Empty())
	assert.Equal(0, tree.Len())
	assert.Equal(0, tree.NodeCount())
	assert.Equal(-1, tree.Height())

	_, ok := tree.Min()
	assert.False(ok)
	_, ok = tree.Max()
	assert.False(ok)
	_, ok = tree.Search(5)
	assert.False(ok)
	assert.False(tree.Delete(5))

	assert.True(tree.Begin().Equal(tree.End()))
	assert.True(tree.RBegin().Equal(tree.REnd()))
	assert.True(tree.Begin().AtEnd())

	_, err := tree.Begin().Get()
	assert.True(blunder.Is(err, blunder.OutOfRangeError))
	err = tree.Begin().Next()
	assert.True(blunder.Is(err, blunder.OutOfRangeError))
	err = tree.End().Prev()
	assert.True(blunder.Is(err, blunder.OutOfRangeError))

	_, err = tree.BeginAt(5)
	assert.True(blunder.Is(err, blunder.NotFoundError))

	assert.Nil(tree.Validate())
	assert.Nil(tree.Clone().Validate())
}

func metaTestSmallScenario(t *testing.T, newTree newIntTreeFunc) {
	assert := assert.New(t)

	tree := newTree(Config{ValidateOnMutation: true})

	testInsertAll(t, tree, []int{5, 3, 8, 1, 4, 7, 9})

	assert.Equal([]int{1, 3, 4, 5, 7, 8, 9}, testInOrderSlice(tree))
	assert.Equal(7, tree.Len())
	assert.Equal(7, tree.NodeCount())
	assert.LessOrEqual(tree.Height(), 3)
	assert.Nil(tree.Validate())

	minRef, ok := tree.Min()
	assert.True(ok)
	assert.Equal(1, *minRef)
	maxRef, ok := tree.Max()
	assert.True(ok)
	assert.Equal(9, *maxRef)

	ref, ok := tree.Search(4)
	assert.True(ok)
	assert.Equal(4, *ref)
	_, ok = tree.Search(6)
	assert.False(ok)

	ref, ok = tree.SearchFunc(func(item int) int { return cmp.Compare(7, item) })
	assert.True(ok)
	assert.Equal(7, *ref)
	_, ok = tree.SearchFunc(nil)
	assert.False(ok)

	assert.True(tree.Delete(5))
	assert.False(tree.Delete(5))
	assert.Equal([]int{1, 3, 4, 7, 8, 9}, testInOrderSlice(tree))
	assert.Equal(6, tree.Len())
	assert.Nil(tree.Validate())

	removed, ok := tree.DeleteFunc(func(item int) int { return cmp.Compare(1, item) })
	assert.True(ok)
	assert.Equal(1, removed)
	minRef, _ = tree.Min()
	assert.Equal(3, *minRef)

	assert.True(tree.Delete(9))
	maxRef, _ = tree.Max()
	assert.Equal(8, *maxRef)
	assert.Nil(tree.Validate())

	tree.Clear()
	assert.True(tree.Empty())
	assert.Equal(-1, tree.Height())
	assert.Nil(tree.Validate())

	testInsertAll(t, tree, []int{2, 1})
	assert.Equal([]int{1, 2}, testInOrderSlice(tree))
}

func metaTestDuplicates(t *testing.T, newTree newIntTreeFunc) {
	assert := assert.New(t)

	tree := newTree(Config{})

	testInsertAll(t, tree, []int{10, 20, 30})

	cursor, err := tree.BeginAt(20)
	assert.Nil(err)

	ref, inserted := tree.Insert(20)
	assert.False(inserted)
	assert.Equal(20, *ref)
	assert.Equal(3, tree.Len())

	// A duplicate insert leaves outstanding cursors usable
	ref, err = cursor.Get()
	assert.Nil(err)
	assert.Equal(20, *ref)

	// A new entry does not
	_, inserted = tree.Insert(25)
	assert.True(inserted)
	_, err = cursor.Get()
	assert.True(blunder.Is(err, blunder.StaleCursorError))
	assert.True(blunder.Is(cursor.Next(), blunder.StaleCursorError))
	assert.True(blunder.Is(cursor.Prev(), blunder.StaleCursorError))
	assert.False(cursor.Equal(cursor))
}

func metaTestTraversals(t *testing.T, newTree newIntTreeFunc) {
	assert := assert.New(t)

	tree := newTree(Config{})

	testInsertAll(t, tree, []int{4, 2, 6, 1, 3, 5, 7})

	var preOrder, postOrder []int
	for ref := range tree.PreOrder() {
		preOrder = append(preOrder, *ref)
	}
	for ref := range tree.PostOrder() {
		postOrder = append(postOrder, *ref)
	}

	assert.Equal([]int{4, 2, 1, 3, 6, 5, 7}, preOrder)
	assert.Equal([]int{1, 3, 2, 5, 7, 6, 4}, postOrder)
	assert.Equal([]int{1, 2, 3, 4, 5, 6, 7}, testInOrderSlice(tree))

	// Early termination
	var firstTwo []int
	for ref := range tree.PostOrder() {
		firstTwo = append(firstTwo, *ref)
		if 2 == len(firstTwo) {
			break
		}
	}
	assert.Equal([]int{1, 3}, firstTwo)
}

func metaTestCursors(t *testing.T, newTree newIntTreeFunc) {
	assert := assert.New(t)

	tree := newTree(Config{})

	testInsertAll(t, tree, []int{50, 20, 80, 10, 30, 70, 90, 25, 35, 75})
	expected := testInOrderSlice(tree)

	assert.Equal(expected, testCursorWalk(t, tree.Begin()))

	reversed := make([]int, len(expected))
	for i, item := range expected {
		reversed[len(expected)-1-i] = item
	}
	assert.Equal(reversed, testCursorWalk(t, tree.RBegin()))

	// Walk backward from End() to Begin()
	cursor := tree.End()
	var backward []int
	for {
		err := cursor.Prev()
		if nil != err {
			assert.True(blunder.Is(err, blunder.OutOfRangeError))
			break
		}
		ref, err := cursor.Get()
		assert.Nil(err)
		backward = append(backward, *ref)
	}
	assert.Equal(reversed, backward)
	assert.True(cursor.Equal(tree.Begin()))

	// Next past End() fails and leaves the cursor at End()
	cursor = tree.End()
	assert.True(blunder.Is(cursor.Next(), blunder.OutOfRangeError))
	assert.True(cursor.Equal(tree.End()))

	// Reverse cursors swap Next and Prev
	cursor = tree.RBegin()
	assert.True(blunder.Is(cursor.Prev(), blunder.OutOfRangeError))
	assert.Nil(cursor.Next())
	ref, err := cursor.Get()
	assert.Nil(err)
	assert.Equal(reversed[1], *ref)

	cursor = tree.REnd()
	assert.True(cursor.AtEnd())
	assert.Nil(cursor.Prev())
	ref, err = cursor.Get()
	assert.Nil(err)
	assert.Equal(expected[0], *ref)

	// Next then Prev returns to the same entry everywhere
	cursor = tree.Begin()
	for i := 0; i < len(expected)-1; i++ {
		clone := cursor.Clone()
		assert.Nil(cursor.Next())
		assert.False(cursor.Equal(clone))
		assert.Nil(cursor.Prev())
		assert.True(cursor.Equal(clone))
		assert.Nil(cursor.Next())
	}

	cursor, err = tree.BeginAt(30)
	assert.Nil(err)
	assert.Equal([]int{30, 35, 50, 70, 75, 80, 90}, testCursorWalk(t, cursor))

	cursor, err = tree.BeginAtFunc(func(item int) int { return cmp.Compare(25, item) })
	assert.Nil(err)
	assert.Nil(cursor.Prev())
	ref, _ = cursor.Get()
	assert.Equal(20, *ref)

	_, err = tree.BeginAt(31)
	assert.True(blunder.Is(err, blunder.NotFoundError))
	_, err = tree.BeginAtFunc(nil)
	assert.True(blunder.Is(err, blunder.InvalidArgError))

	// A forward and a reverse cursor at the same entry are not equal
	assert.False(tree.Begin().Equal(tree.REnd()))
}

func metaTestRandomized(t *testing.T, newTree newIntTreeFunc, numKeys int) {
	assert := assert.New(t)

	randSource := mathRand.New(mathRand.NewSource(pseudoRandomSeed))

	tree := newTree(Config{})

	keysToInsert := testKnuthShuffledIntSlice(numKeys, randSource)
	testInsertAll(t, tree, keysToInsert)
	assert.Nil(tree.Validate())
	assert.Equal(numKeys, tree.Len())

	for i, item := range testInOrderSlice(tree) {
		if i != item {
			t.Fatalf("InOrder()[%v] == %v", i, item)
		}
	}

	clone := tree.Clone()
	assert.Nil(clone.Validate())
	assert.Equal(tree.Height(), clone.Height())

	keysToDelete := testKnuthShuffledIntSlice(numKeys, randSource)
	for i, key := range keysToDelete {
		if !tree.Delete(key) {
			t.Fatalf("Delete(%v) should have succeeded", key)
		}
		if 0 == i%97 {
			err := tree.Validate()
			if nil != err {
				t.Fatalf("Validate() after %v deletes failed: %v", i+1, err)
			}
		}
	}

	assert.True(tree.Empty())
	assert.Nil(tree.Validate())

	// The clone is unaffected
	assert.Equal(numKeys, clone.Len())
	assert.Equal(numKeys, len(testInOrderSlice(clone)))
}
