// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/avltree/avltree"
	"github.com/NVIDIA/avltree/conf"
)

func testBackend(t *testing.T, tree workoutTree) {
	assert := assert.New(t)
	defer tree.close()

	for key := uint64(0); key < 500; key++ {
		ok, err := tree.put(workoutKey(0, key))
		assert.Nil(err)
		assert.True(ok)
	}

	ok, err := tree.put(workoutKey(0, 7))
	assert.Nil(err)
	assert.False(ok)

	numberOfItems, err := tree.count()
	assert.Nil(err)
	assert.Equal(500, numberOfItems)
	assert.Nil(tree.validate())

	ok, err = tree.get(workoutKey(0, 250))
	assert.Nil(err)
	assert.True(ok)

	for key := uint64(0); key < 500; key++ {
		ok, err = tree.del(workoutKey(0, key))
		assert.Nil(err)
		assert.True(ok)
	}

	ok, err = tree.get(workoutKey(0, 250))
	assert.Nil(err)
	assert.False(ok)

	numberOfItems, err = tree.count()
	assert.Nil(err)
	assert.Equal(0, numberOfItems)
}

func TestBackends(t *testing.T) {
	globals.keysPerThread = 500

	testBackend(t, newAVLBackend(avltree.Config{ValidateOnMutation: true}))
	testBackend(t, newLLRBBackend())
	testBackend(t, newBTreeBackend(4))
}

func TestFetchWorkoutConfig(t *testing.T) {
	assert := assert.New(t)

	confMap, err := conf.MakeConfMapFromStrings([]string{
		"AVLWorkout.Backends=avl btree",
		"AVLWorkout.BTreeDegree=8",
		"AVLWorkout.Validate=true",
		"AVLWorkout:Tree.StatsGroupName=workoutTest",
	})
	assert.Nil(err)

	err = fetchWorkoutConfig(confMap)
	assert.Nil(err)
	assert.Equal([]string{"avl", "btree"}, globals.backends)
	assert.Equal(8, globals.btreeDegree)
	assert.True(globals.validate)
	assert.Equal("workoutTest", globals.treeConfig.StatsGroupName)

	err = confMap.UpdateFromString("AVLWorkout.Backends=skiplist")
	assert.Nil(err)
	assert.NotNil(fetchWorkoutConfig(confMap))
}

func TestRunBackend(t *testing.T) {
	assert := assert.New(t)

	globals = workoutGlobalsStruct{
		backends:      []string{"avl", "llrb", "btree"},
		btreeDegree:   4,
		keysPerThread: 200,
		threads:       3,
		treeConfig:    avltree.Config{StatsGroupName: "runBackendTest"},
		validate:      true,
	}

	for _, backendName := range globals.backends {
		assert.Nil(runBackend(backendName), backendName)
	}
}
