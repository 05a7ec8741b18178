// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package avltree

import (
	"github.com/NVIDIA/avltree/blunder"
	"github.com/NVIDIA/avltree/conf"
)

// Config holds the policy fixed at tree construction
type Config struct {
	UpdateOnDuplicate  bool   // Insert of an existing entry overwrites it (otherwise it is a no-op)
	ValidateOnMutation bool   // Run Validate() after every structural change (logging any failure)
	StatsGroupName     string // If non-empty, register bucketstats under "avltree" with this group name
}

// ConfigFromConfMap fetches a Config from the given section of confMap. Options that are
// absent take their zero value.
//
//	[AVLTree:Index]
//	UpdateOnDuplicate:  true
//	ValidateOnMutation: false
//	StatsGroupName:     index
func ConfigFromConfMap(confMap conf.ConfMap, sectionName string) (config Config, err error) {
	if confMap.IsOptionSet(sectionName, "UpdateOnDuplicate") {
		config.UpdateOnDuplicate, err = confMap.FetchOptionValueBool(sectionName, "UpdateOnDuplicate")
		if nil != err {
			err = blunder.AddError(err, blunder.InvalidArgError)
			return
		}
	}

	if confMap.IsOptionSet(sectionName, "ValidateOnMutation") {
		config.ValidateOnMutation, err = confMap.FetchOptionValueBool(sectionName, "ValidateOnMutation")
		if nil != err {
			err = blunder.AddError(err, blunder.InvalidArgError)
			return
		}
	}

	if confMap.IsOptionSet(sectionName, "StatsGroupName") {
		statsGroupName, _ := confMap.FetchOptionValueStringSlice(sectionName, "StatsGroupName")
		switch len(statsGroupName) {
		case 0:
			// Explicitly empty
		case 1:
			config.StatsGroupName = statsGroupName[0]
		default:
			err = blunder.NewError(blunder.InvalidArgError, "[%v]StatsGroupName must be single-valued", sectionName)
			return
		}
	}

	err = nil
	return
}
