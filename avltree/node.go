// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

// Nodes are carved out of fixed size chunks so that a node (and the payload a client holds
// a *T into) never moves once allocated. Links between nodes are arena indices; index 0 is
// reserved so that the zero value of a link means "no node".

type nodeIndex uint32

const nilNode nodeIndex = 0

type childSide uint8

const (
	rootSide childSide = iota
	leftSide
	rightSide
)

func (side childSide) String() string {
	switch side {
	case leftSide:
		return "LEFT"
	case rightSide:
		return "RIGHT"
	default:
		return "ROOT"
	}
}

const (
	arenaChunkShift = 8
	arenaChunkSize  = 1 << arenaChunkShift
	arenaChunkMask  = arenaChunkSize - 1
)

type avlNodeStruct[T any] struct {
	payload T
	left    nodeIndex // Index of Left Child (or nilNode)
	right   nodeIndex // Index of Right Child (or nilNode)
	parent  nodeIndex // Index of Parent (or nilNode for the root)
	height  int       // Longest path to a leaf (0 for a leaf); maintained by the balancing layer
	balance int       // height(left) - height(right), absent child counting as -1
	side    childSide // Which child of parent this node is
}

type arenaStruct[T any] struct {
	chunks   [][]avlNodeStruct[T]
	next     nodeIndex // Lowest never-allocated index
	freeList []nodeIndex
	live     int
}

func (arena *arenaStruct[T]) node(index nodeIndex) *avlNodeStruct[T] {
	return &arena.chunks[index>>arenaChunkShift][index&arenaChunkMask]
}

func (arena *arenaStruct[T]) alloc(payload T) (index nodeIndex) {
	if 0 < len(arena.freeList) {
		index = arena.freeList[len(arena.freeList)-1]
		arena.freeList = arena.freeList[:len(arena.freeList)-1]
	} else {
		if nilNode == arena.next {
			arena.next = 1
		}
		index = arena.next
		if int(index>>arenaChunkShift) == len(arena.chunks) {
			arena.chunks = append(arena.chunks, make([]avlNodeStruct[T], arenaChunkSize))
		}
		arena.next++
	}

	*arena.node(index) = avlNodeStruct[T]{payload: payload}
	arena.live++

	return
}

// free releases a single node; the zeroed slot drops any references the payload held
func (arena *arenaStruct[T]) free(index nodeIndex) {
	*arena.node(index) = avlNodeStruct[T]{}
	arena.freeList = append(arena.freeList, index)
	arena.live--
}

func (arena *arenaStruct[T]) reset() {
	arena.chunks = nil
	arena.next = nilNode
	arena.freeList = nil
	arena.live = 0
}
