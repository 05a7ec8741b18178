// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"github.com/NVIDIA/avltree/bucketstats"
)

const statsPackageName = "avltree"

type treeStatsStruct struct {
	InsertOps          bucketstats.Total
	DuplicateInsertOps bucketstats.Total
	DeleteOps          bucketstats.Total
	SearchOps          bucketstats.Total
	SingleRotations    bucketstats.Total
	DoubleRotations    bucketstats.Total
	SearchDepth        bucketstats.BucketLog2Round // Nodes visited per search
	RebalanceWalk      bucketstats.BucketLog2Round // Ancestors visited per post-insert/post-delete walk
	ValidateFailures   bucketstats.Total
}

// registerStats always gives the tree somewhere to count; only a named tree is
// visible through bucketstats.SprintStats()
func (tree *bstStruct[T]) registerStats() {
	tree.stats = &treeStatsStruct{}

	if "" != tree.statsGroupName {
		bucketstats.Register(statsPackageName, tree.statsGroupName, tree.stats)
	}
}

func (tree *bstStruct[T]) Close() {
	if "" == tree.statsGroupName {
		return
	}

	bucketstats.UnRegister(statsPackageName, tree.statsGroupName)
	tree.statsGroupName = ""
}
