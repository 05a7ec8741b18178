// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Program avlworkout measures insert, search, and delete throughput of an avltree.Tree
// alongside sortedmap's LLRB tree and google/btree
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creachadair/cityhash"
	"github.com/dustin/go-humanize"

	"github.com/NVIDIA/avltree/avltree"
	"github.com/NVIDIA/avltree/bucketstats"
	"github.com/NVIDIA/avltree/conf"
	"github.com/NVIDIA/avltree/logger"
	"github.com/NVIDIA/avltree/utils"
)

const (
	workoutSectionName = "AVLWorkout"
	treeSectionName    = "AVLWorkout:Tree"
)

type workoutStepStruct struct {
	name string
	op   func(tree workoutTree, key uint64) (ok bool, err error)
}

var workoutSteps = []workoutStepStruct{
	{"insert", workoutTree.put},
	{"search", workoutTree.get},
	{"delete", workoutTree.del},
}

type workoutGlobalsStruct struct {
	backends       []string
	btreeDegree    int
	doNextStepChan chan bool
	keysPerThread  uint64
	stepErrChan    chan error
	threads        uint64
	treeConfig     avltree.Config
	validate       bool
}

var globals workoutGlobalsStruct

func usage(file *os.File) {
	fmt.Fprintf(file, "Usage:\n")
	fmt.Fprintf(file, "    %v threads keys-per-thread conf-file [section.option=value]*\n", os.Args[0])
	fmt.Fprintf(file, "  where:\n")
	fmt.Fprintf(file, "    threads                 number of threads (each works its own tree)\n")
	fmt.Fprintf(file, "    keys-per-thread         number of keys each thread will insert, search, then delete\n")
	fmt.Fprintf(file, "    conf-file               input to conf.MakeConfMapFromFile()\n")
	fmt.Fprintf(file, "    [section.option=value]* optional input to conf.UpdateFromStrings()\n")
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "Recognized options:\n")
	fmt.Fprintf(file, "    [%v]\n", workoutSectionName)
	fmt.Fprintf(file, "    Backends:           avl llrb btree\n")
	fmt.Fprintf(file, "    BTreeDegree:        32\n")
	fmt.Fprintf(file, "    Validate:           false\n")
	fmt.Fprintf(file, "    [%v]\n", treeSectionName)
	fmt.Fprintf(file, "    UpdateOnDuplicate:  false\n")
	fmt.Fprintf(file, "    ValidateOnMutation: false\n")
	fmt.Fprintf(file, "    StatsGroupName:     workout\n")
}

func main() {
	var (
		confMap conf.ConfMap
		err     error
	)

	if 4 > len(os.Args) {
		usage(os.Stderr)
		os.Exit(1)
	}

	globals.threads, err = strconv.ParseUint(os.Args[1], 10, 64)
	if nil != err {
		fmt.Fprintf(os.Stderr, "strconv.ParseUint(\"%v\", 10, 64) of threads failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	if 0 == globals.threads {
		fmt.Fprintf(os.Stderr, "threads must be a positive number\n")
		os.Exit(1)
	}

	globals.keysPerThread, err = strconv.ParseUint(os.Args[2], 10, 64)
	if nil != err {
		fmt.Fprintf(os.Stderr, "strconv.ParseUint(\"%v\", 10, 64) of keys-per-thread failed: %v\n", os.Args[2], err)
		os.Exit(1)
	}
	if 0 == globals.keysPerThread {
		fmt.Fprintf(os.Stderr, "keys-per-thread must be a positive number\n")
		os.Exit(1)
	}

	confMap, err = conf.MakeConfMapFromFile(os.Args[3])
	if nil != err {
		fmt.Fprintf(os.Stderr, "conf.MakeConfMapFromFile(\"%v\") failed: %v\n", os.Args[3], err)
		os.Exit(1)
	}

	if 4 < len(os.Args) {
		err = confMap.UpdateFromStrings(os.Args[4:])
		if nil != err {
			fmt.Fprintf(os.Stderr, "confMap.UpdateFromStrings(%#v) failed: %v\n", os.Args[4:], err)
			os.Exit(1)
		}
	}

	err = fetchWorkoutConfig(confMap)
	if nil != err {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	err = logger.Up(confMap)
	if nil != err {
		fmt.Fprintf(os.Stderr, "logger.Up() failed: %v\n", err)
		os.Exit(1)
	}

	for _, backendName := range globals.backends {
		err = runBackend(backendName)
		if nil != err {
			logger.ErrorfWithError(err, "avlworkout of backend %v failed", backendName)
			fmt.Fprintf(os.Stderr, "avlworkout of backend %v failed: %v\n", backendName, err)
			os.Exit(1)
		}
	}

	err = logger.Down()
	if nil != err {
		fmt.Fprintf(os.Stderr, "logger.Down() failed: %v\n", err)
		os.Exit(1)
	}
}

func fetchWorkoutConfig(confMap conf.ConfMap) (err error) {
	var btreeDegree uint64

	globals.backends = []string{"avl", "llrb", "btree"}
	if confMap.IsOptionSet(workoutSectionName, "Backends") {
		globals.backends, err = confMap.FetchOptionValueStringSlice(workoutSectionName, "Backends")
		if nil != err {
			return
		}
	}
	for _, backendName := range globals.backends {
		switch backendName {
		case "avl", "llrb", "btree":
		default:
			err = fmt.Errorf("[%v]Backends contains unknown backend \"%v\"", workoutSectionName, backendName)
			return
		}
	}

	globals.btreeDegree = 32
	if confMap.IsOptionSet(workoutSectionName, "BTreeDegree") {
		btreeDegree, err = confMap.FetchOptionValueUint64(workoutSectionName, "BTreeDegree")
		if nil != err {
			return
		}
		if 2 > btreeDegree {
			err = fmt.Errorf("[%v]BTreeDegree must be at least 2", workoutSectionName)
			return
		}
		globals.btreeDegree = int(btreeDegree)
	}

	globals.validate = false
	if confMap.IsOptionSet(workoutSectionName, "Validate") {
		globals.validate, err = confMap.FetchOptionValueBool(workoutSectionName, "Validate")
		if nil != err {
			return
		}
	}

	globals.treeConfig, err = avltree.ConfigFromConfMap(confMap, treeSectionName)

	return
}

// workoutKey scrambles (threadIndex, keyIndex) into a key that is unique across threads
// but arrives in no particular order
func workoutKey(threadIndex uint64, keyIndex uint64) uint64 {
	return cityhash.Hash64(utils.Uint64ToByteSlice(threadIndex*globals.keysPerThread + keyIndex))
}

func newWorkoutTree(backendName string, threadIndex uint64) (tree workoutTree) {
	switch backendName {
	case "avl":
		config := globals.treeConfig
		if "" != config.StatsGroupName {
			config.StatsGroupName = fmt.Sprintf("%v%d", config.StatsGroupName, threadIndex)
		}
		tree = newAVLBackend(config)
	case "llrb":
		tree = newLLRBBackend()
	default:
		tree = newBTreeBackend(globals.btreeDegree)
	}
	return
}

// runBackend drives every thread through each step in lockstep, timing each step
func runBackend(backendName string) (err error) {
	globals.stepErrChan = make(chan error)
	globals.doNextStepChan = make(chan bool)

	for threadIndex := uint64(0); threadIndex < globals.threads; threadIndex++ {
		go workout(backendName, threadIndex)
	}

	for _, step := range workoutSteps {
		stopwatch := utils.NewStopwatch()

		for threadIndex := uint64(0); threadIndex < globals.threads; threadIndex++ {
			globals.doNextStepChan <- true
		}

		err = collectStepErrors(step.name)

		elapsed := stopwatch.Stop()
		if nil != err {
			// Let the remaining threads exit
			close(globals.doNextStepChan)
			return
		}

		report(backendName, step.name, elapsed)
	}

	// Final step: validate (if enabled), report stats, and close
	for threadIndex := uint64(0); threadIndex < globals.threads; threadIndex++ {
		globals.doNextStepChan <- true
	}
	err = collectStepErrors("shutdown")

	return
}

func collectStepErrors(stepName string) (err error) {
	for threadIndex := uint64(0); threadIndex < globals.threads; threadIndex++ {
		stepErr := <-globals.stepErrChan
		if (nil != stepErr) && (nil == err) {
			err = fmt.Errorf("%v step: %v", stepName, stepErr)
		}
	}
	return
}

func report(backendName string, stepName string, elapsed time.Duration) {
	totalOps := globals.threads * globals.keysPerThread

	opsPerSecond := float64(totalOps) / elapsed.Seconds()
	latencyPerOp := time.Duration(int64(elapsed) * int64(globals.threads) / int64(totalOps))

	fmt.Printf("%-5v %-6v %12v ops in %10v  opsPerSecond = %14v  latencyPerOp = %v\n",
		backendName, stepName, humanize.Comma(int64(totalOps)), elapsed.Round(time.Microsecond),
		humanize.Comma(int64(opsPerSecond)), latencyPerOp)

	logger.Infof("avlworkout %v %v: %v ops in %v", backendName, stepName, totalOps, elapsed)
}

func workout(backendName string, threadIndex uint64) {
	tree := newWorkoutTree(backendName, threadIndex)
	defer tree.close()

	if logger.TraceEnabled("main") {
		logger.Tracef("thread %v working %v keys on backend %v", threadIndex, globals.keysPerThread, backendName)
	}

	for _, step := range workoutSteps {
		if !<-globals.doNextStepChan {
			return
		}
		globals.stepErrChan <- runStep(tree, step, threadIndex)
	}

	if !<-globals.doNextStepChan {
		return
	}
	globals.stepErrChan <- finishWorkout(backendName, tree, threadIndex)
}

func runStep(tree workoutTree, step workoutStepStruct, threadIndex uint64) (err error) {
	for keyIndex := uint64(0); keyIndex < globals.keysPerThread; keyIndex++ {
		key := workoutKey(threadIndex, keyIndex)

		ok, opErr := step.op(tree, key)
		if nil != opErr {
			err = fmt.Errorf("%v(0x%016X) failed: %v", step.name, key, opErr)
			return
		}
		if !ok {
			err = fmt.Errorf("%v(0x%016X) returned !ok", step.name, key)
			return
		}
	}

	if globals.validate {
		err = tree.validate()
		if nil != err {
			return
		}
	}

	err = nil
	return
}

func finishWorkout(backendName string, tree workoutTree, threadIndex uint64) (err error) {
	numberOfItems, err := tree.count()
	if nil != err {
		return
	}
	if 0 != numberOfItems {
		err = fmt.Errorf("thread %v tree holds %v items after deleting every key", threadIndex, numberOfItems)
		return
	}

	if ("avl" == backendName) && ("" != globals.treeConfig.StatsGroupName) {
		statsGroupName := fmt.Sprintf("%v%d", globals.treeConfig.StatsGroupName, threadIndex)
		stats := bucketstats.SprintStats(bucketstats.StatFormatParsable1, "avltree", statsGroupName)
		logger.Infof("avlworkout thread %v statistics:\n%v", threadIndex, strings.TrimRight(stats, "\n"))
	}

	err = nil
	return
}
