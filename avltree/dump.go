// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// dumpItem formats item via the client's DumpCallbacks (or %v if none were supplied)
func (tree *bstStruct[T]) dumpItem(item T) (itemAsString string, err error) {
	if nil == tree.callbacks {
		itemAsString = fmt.Sprintf("%v", item)
		err = nil
		return
	}

	itemAsString, err = tree.callbacks.DumpItem(item)
	return
}

// itemString is dumpItem for log and error messages, where a failing callback is not fatal
func (tree *bstStruct[T]) itemString(item T) string {
	itemAsString, err := tree.dumpItem(item)
	if nil != err {
		return fmt.Sprintf("%v", item)
	}
	return itemAsString
}

// Dump prints every node (with its links, height, and balance) followed by a sideways
// rendering of the tree with the root at the left
func (tree *bstStruct[T]) Dump() (err error) {
	err = tree.dumpTo(os.Stdout)
	if nil != err {
		fmt.Printf("\n%v\n", err)
	}
	return
}

func (tree *bstStruct[T]) dumpTo(w io.Writer) (err error) {
	err = tree.dumpInFlatForm(w)
	if nil != err {
		err = fmt.Errorf("dumpInFlatForm() failed: %v", err)
		return
	}

	err = tree.dumpInTreeForm(w)
	if nil != err {
		err = fmt.Errorf("dumpInTreeForm() failed: %v", err)
		return
	}

	err = nil
	return
}

func (tree *bstStruct[T]) dumpLink(index nodeIndex) (linkAsString string, err error) {
	if nilNode == index {
		linkAsString = "nil"
		err = nil
		return
	}

	linkAsString, err = tree.dumpItem(tree.node(index).payload)
	return
}

func (tree *bstStruct[T]) dumpInFlatForm(w io.Writer) (err error) {
	var (
		nodeLeftItem  string
		nodeRightItem string
		nodeThisItem  string
	)

	if nilNode == tree.root {
		err = nil
		return
	}

	stack := []nodeIndex{tree.root}

	for 0 < len(stack) {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.node(index)

		nodeThisItem, err = tree.dumpLink(index)
		if nil != err {
			return
		}
		nodeLeftItem, err = tree.dumpLink(node.left)
		if nil != err {
			return
		}
		nodeRightItem, err = tree.dumpLink(node.right)
		if nil != err {
			return
		}

		fmt.Fprintf(w, "%v Node Item == %v Node.left.Item == %v Node.right.Item == %v height == %v balance == %v\n",
			node.side, nodeThisItem, nodeLeftItem, nodeRightItem, node.height, node.balance)

		if nilNode != node.right {
			stack = append(stack, node.right)
		}
		if nilNode != node.left {
			stack = append(stack, node.left)
		}
	}

	err = nil
	return
}

func (tree *bstStruct[T]) dumpInTreeForm(w io.Writer) (err error) {
	var rootItem string

	if nilNode == tree.root {
		err = nil
		return
	}

	rootNode := tree.node(tree.root)

	if nilNode != rootNode.right {
		err = tree.dumpInTreeFormNode(w, rootNode.right, "")
		if nil != err {
			return
		}
	}

	rootItem, err = tree.dumpItem(rootNode.payload)
	if nil != err {
		return
	}

	fmt.Fprintf(w, "%v\n", rootItem)

	if nilNode != rootNode.left {
		err = tree.dumpInTreeFormNode(w, rootNode.left, "")
		if nil != err {
			return
		}
	}

	err = nil
	return
}

func (tree *bstStruct[T]) dumpInTreeFormNode(w io.Writer, index nodeIndex, indent string) (err error) {
	var (
		indentAppendage string
		nodeItem        string
	)

	node := tree.node(index)
	isRight := (rightSide == node.side)

	if nilNode != node.right {
		if isRight {
			indentAppendage = "        "
		} else {
			indentAppendage = " |      "
		}
		err = tree.dumpInTreeFormNode(w, node.right, strings.Join([]string{indent, indentAppendage}, ""))
		if nil != err {
			return
		}
	}

	fmt.Fprintf(w, "%v", indent)
	if isRight {
		fmt.Fprintf(w, " /")
	} else {
		fmt.Fprintf(w, " \\")
	}

	nodeItem, err = tree.dumpItem(node.payload)
	if nil != err {
		return
	}

	fmt.Fprintf(w, "----- %v\n", nodeItem)

	if nilNode != node.left {
		if isRight {
			indentAppendage = " |      "
		} else {
			indentAppendage = "        "
		}
		err = tree.dumpInTreeFormNode(w, node.left, strings.Join([]string{indent, indentAppendage}, ""))
		if nil != err {
			return
		}
	}

	err = nil
	return
}
