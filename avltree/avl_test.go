// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"math"
	mathRand "math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/avltree/bucketstats"
)

func TestAVLTreeEmpty(t *testing.T) {
	metaTestEmpty(t, newTestAVLTree)
}

func TestAVLTreeSmallScenario(t *testing.T) {
	metaTestSmallScenario(t, newTestAVLTree)
}

func TestAVLTreeDuplicates(t *testing.T) {
	metaTestDuplicates(t, newTestAVLTree)
}

func TestAVLTreeTraversals(t *testing.T) {
	metaTestTraversals(t, newTestAVLTree)
}

func TestAVLTreeCursors(t *testing.T) {
	metaTestCursors(t, newTestAVLTree)
}

func TestAVLTreeRandomizedHuge(t *testing.T) {
	metaTestRandomized(t, newTestAVLTree, testHugeNumKeys)
}

func testPreOrderSlice(tree Tree[int]) (items []int) {
	for ref := range tree.PreOrder() {
		items = append(items, *ref)
	}
	return
}

func testTreeStats(tree Tree[int]) *treeStatsStruct {
	return tree.(*avlTreeStruct[int]).stats
}

func TestAVLTreeInsertRotations(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		name            string
		items           []int
		singleRotations uint64
		doubleRotations uint64
	}{
		{"LL", []int{3, 2, 1}, 1, 0},
		{"RR", []int{1, 2, 3}, 1, 0},
		{"LR", []int{3, 1, 2}, 0, 1},
		{"RL", []int{1, 3, 2}, 0, 1},
	}

	for _, testCase := range testCases {
		tree := newTestAVLTree(Config{ValidateOnMutation: true})
		testInsertAll(t, tree, testCase.items)

		assert.Equal([]int{2, 1, 3}, testPreOrderSlice(tree), testCase.name)
		assert.Equal(1, tree.Height(), testCase.name)
		assert.Equal(testCase.singleRotations, testTreeStats(tree).SingleRotations.TotalGet(), testCase.name)
		assert.Equal(testCase.doubleRotations, testTreeStats(tree).DoubleRotations.TotalGet(), testCase.name)
		assert.Nil(tree.Validate(), testCase.name)
	}
}

func TestAVLTreeAscendingInsert(t *testing.T) {
	assert := assert.New(t)

	tree := newTestAVLTree(Config{})
	testInsertAll(t, tree, []int{1, 2, 3, 4, 5})

	assert.Equal(2, tree.Height())
	assert.Equal([]int{2, 1, 4, 3, 5}, testPreOrderSlice(tree))

	// 2^k - 1 ascending entries always end up perfectly balanced
	tree = newTestAVLTree(Config{})
	for i := 1; i <= 1023; i++ {
		tree.Insert(i)
	}
	assert.Equal(9, tree.Height())
	assert.Nil(tree.Validate())
}

func TestAVLTreeDeleteRotations(t *testing.T) {
	assert := assert.New(t)

	tree := newTestAVLTree(Config{})
	testInsertAll(t, tree, []int{2, 1, 3, 4})
	assert.True(tree.Delete(1))
	assert.Equal([]int{3, 2, 4}, testPreOrderSlice(tree))
	assert.Nil(tree.Validate())

	// A balanced sibling still gets a single rotation
	tree = newTestAVLTree(Config{})
	testInsertAll(t, tree, []int{2, 1, 4, 3, 5})
	assert.True(tree.Delete(1))
	assert.Equal([]int{4, 2, 3, 5}, testPreOrderSlice(tree))
	assert.Equal(uint64(1), testTreeStats(tree).SingleRotations.TotalGet())
	assert.Equal(uint64(0), testTreeStats(tree).DoubleRotations.TotalGet())
	assert.Nil(tree.Validate())

	// Deleting a node with two children splices in its successor
	tree = newTestAVLTree(Config{})
	testInsertAll(t, tree, []int{4, 2, 6, 1, 3, 5, 7})
	assert.True(tree.Delete(4))
	assert.Equal([]int{5, 2, 1, 3, 6, 7}, testPreOrderSlice(tree))
	assert.Nil(tree.Validate())
}

func TestAVLTreeHeightBound(t *testing.T) {
	assert := assert.New(t)

	randSource := mathRand.New(mathRand.NewSource(pseudoRandomSeed))

	tree := newTestAVLTree(Config{})

	for _, key := range testKnuthShuffledIntSlice(testHugeNumKeys, randSource) {
		tree.Insert(key)

		n := float64(tree.Len())
		bound := 1.4405*math.Log2(n+2) - 0.3277
		if float64(tree.Height()) > bound {
			t.Fatalf("Height() == %v exceeds %v for %v entries", tree.Height(), bound, tree.Len())
		}
	}

	assert.Nil(tree.Validate())
}

func TestAVLTreeDuplicateDoesNotRebalance(t *testing.T) {
	assert := assert.New(t)

	tree := newTestAVLTree(Config{})
	testInsertAll(t, tree, []int{1, 2, 3, 4, 5, 6, 7})

	stats := testTreeStats(tree)
	rotations := stats.SingleRotations.TotalGet() + stats.DoubleRotations.TotalGet()
	shape := testPreOrderSlice(tree)

	for i := 1; i <= 7; i++ {
		_, inserted := tree.Insert(i)
		assert.False(inserted)
	}

	assert.Equal(rotations, stats.SingleRotations.TotalGet()+stats.DoubleRotations.TotalGet())
	assert.Equal(uint64(7), stats.DuplicateInsertOps.TotalGet())
	assert.Equal(shape, testPreOrderSlice(tree))
}

type testPairStruct struct {
	key   int
	value string
}

func testComparePairs(pair1 testPairStruct, pair2 testPairStruct) int {
	return pair1.key - pair2.key
}

func TestAVLTreeUpdateOnDuplicate(t *testing.T) {
	assert := assert.New(t)

	keepTree := New[testPairStruct](testComparePairs, nil, Config{})
	keepTree.Insert(testPairStruct{1, "first"})
	ref, inserted := keepTree.Insert(testPairStruct{1, "second"})
	assert.False(inserted)
	assert.Equal("first", ref.value)

	updateTree := New[testPairStruct](testComparePairs, nil, Config{UpdateOnDuplicate: true})
	updateTree.Insert(testPairStruct{1, "first"})
	ref, inserted = updateTree.Insert(testPairStruct{1, "second"})
	assert.False(inserted)
	assert.Equal("second", ref.value)
	assert.Equal(1, updateTree.Len())

	// A *T handed out earlier sees the update
	ref, _ = updateTree.Search(testPairStruct{key: 1})
	updateTree.Insert(testPairStruct{1, "third"})
	assert.Equal("third", ref.value)
}

func TestAVLTreeClone(t *testing.T) {
	assert := assert.New(t)

	tree := newTestAVLTree(Config{})
	testInsertAll(t, tree, []int{8, 4, 12, 2, 6, 10, 14, 1, 3})

	clone := tree.Clone()
	_, ok := clone.(*avlTreeStruct[int])
	assert.True(ok)
	assert.Equal(testPreOrderSlice(tree), testPreOrderSlice(clone))
	assert.Nil(clone.Validate())

	// The clone rebalances independently
	clone.Delete(14)
	clone.Delete(12)
	assert.Nil(clone.Validate())
	assert.Equal(9, tree.Len())
	assert.Nil(tree.Validate())

	unbalancedClone := newTestUnbalancedTree(Config{})
	_, ok = unbalancedClone.Clone().(*bstStruct[int])
	assert.True(ok)
}

func TestAVLTreeStats(t *testing.T) {
	assert := assert.New(t)

	tree := newTestAVLTree(Config{StatsGroupName: "statsTest"})
	testInsertAll(t, tree, []int{1, 2, 3})
	tree.Search(2)
	tree.Delete(3)

	statsString := bucketstats.SprintStats(bucketstats.StatFormatParsable1, statsPackageName, "statsTest")
	assert.True(strings.Contains(statsString, "avltree.statsTest.InsertOps total:3"), statsString)
	assert.True(strings.Contains(statsString, "avltree.statsTest.DeleteOps total:1"), statsString)
	assert.True(strings.Contains(statsString, "avltree.statsTest.SingleRotations total:1"), statsString)
	assert.True(strings.Contains(statsString, "avltree.statsTest.SearchOps total:1"), statsString)

	tree.Close()

	// The group name can be reused once closed
	tree = newTestAVLTree(Config{StatsGroupName: "statsTest"})
	tree.Close()
}

func BenchmarkAVLTreeInsert(b *testing.B) {
	randSource := mathRand.New(mathRand.NewSource(pseudoRandomSeed))
	keys := testKnuthShuffledIntSlice(b.N, randSource)

	tree := newTestAVLTree(Config{})

	b.ResetTimer()
	for _, key := range keys {
		tree.Insert(key)
	}
}

func BenchmarkAVLTreeSearch(b *testing.B) {
	randSource := mathRand.New(mathRand.NewSource(pseudoRandomSeed))
	keys := testKnuthShuffledIntSlice(b.N, randSource)

	tree := newTestAVLTree(Config{})
	for _, key := range keys {
		tree.Insert(key)
	}

	b.ResetTimer()
	for _, key := range keys {
		tree.Search(key)
	}
}

func BenchmarkAVLTreeDelete(b *testing.B) {
	randSource := mathRand.New(mathRand.NewSource(pseudoRandomSeed))
	keys := testKnuthShuffledIntSlice(b.N, randSource)

	tree := newTestAVLTree(Config{})
	for _, key := range keys {
		tree.Insert(key)
	}

	b.ResetTimer()
	for _, key := range keys {
		tree.Delete(key)
	}
}
