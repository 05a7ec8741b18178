// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package bucketstats

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
)

var (
	pkgNameToGroupName map[string]map[string]interface{}
	statsNameMapLock   sync.Mutex
)

// register a set of statistics, where the statistics are one or more fields in
// the passed structure.
func register(pkgName string, statsGroupName string, statsStruct interface{}) {
	if "" == pkgName && "" == statsGroupName {
		panic("statistics group must have non-empty pkgName or statsGroupName")
	}

	if reflect.TypeOf(statsStruct).Kind() != reflect.Ptr ||
		reflect.ValueOf(statsStruct).Elem().Type().Kind() != reflect.Struct {
		panic(fmt.Sprintf("statsStruct for statistics group '%s' is (%s), should be (*struct)",
			statsGroupName, reflect.TypeOf(statsStruct)))
	}

	structAsValue := reflect.ValueOf(statsStruct).Elem()
	structAsType := structAsValue.Type()

	// find all the statistics fields and init them; assign them a name if they
	// don't have one; verify each name is only used once
	names := make(map[string]struct{})

	for i := 0; i < structAsType.NumField(); i++ {
		fieldName := structAsType.Field(i).Name
		fieldAsValue := structAsValue.Field(i)

		if !isStatType(structAsType.Field(i).Type) {
			continue
		}

		if !fieldAsValue.CanSet() {
			panic(fmt.Sprintf("statistics group '%s' field %s must be exported to be usable by bucketstats",
				statsGroupName, fieldName))
		}

		statNameValue := fieldAsValue.FieldByName("Name")
		if "" == statNameValue.String() {
			statNameValue.SetString(fieldName)
		} else {
			statNameValue.SetString(scrubName(statNameValue.String()))
		}
		if _, ok := names[statNameValue.String()]; ok {
			panic(fmt.Sprintf("stats '%s' field %s Name '%s' is already in use",
				statsGroupName, fieldName, statNameValue))
		}
		names[statNameValue.String()] = struct{}{}

		if v, ok := fieldAsValue.Addr().Interface().(*BucketLog2Round); ok {
			if 0 == v.NBucket || v.NBucket > uint(len(v.statBuckets)) {
				v.NBucket = uint(len(v.statBuckets))
			} else if v.NBucket < 10 {
				v.NBucket = 10
			}
		}
	}

	statsGroupName = scrubName(statsGroupName)
	pkgName = scrubName(pkgName)

	statsNameMapLock.Lock()
	defer statsNameMapLock.Unlock()

	if nil == pkgNameToGroupName {
		pkgNameToGroupName = make(map[string]map[string]interface{})
	}
	if nil == pkgNameToGroupName[pkgName] {
		pkgNameToGroupName[pkgName] = make(map[string]interface{})
	}

	if nil != pkgNameToGroupName[pkgName][statsGroupName] {
		panic(fmt.Sprintf("pkgName '%s' with statsGroupName '%s' is already registered",
			pkgName, statsGroupName))
	}
	pkgNameToGroupName[pkgName][statsGroupName] = statsStruct
}

func unRegister(pkgName string, statsGroupName string) {
	pkgName = scrubName(pkgName)
	statsGroupName = scrubName(statsGroupName)

	statsNameMapLock.Lock()
	defer statsNameMapLock.Unlock()

	// silently ignore a group that doesn't exist
	if nil != pkgNameToGroupName[pkgName] {
		delete(pkgNameToGroupName[pkgName], statsGroupName)

		if 0 == len(pkgNameToGroupName[pkgName]) {
			delete(pkgNameToGroupName, pkgName)
		}
	}
}

func isStatType(fieldAsType reflect.Type) bool {
	switch fieldAsType {
	case reflect.TypeOf(Total{}), reflect.TypeOf(Average{}), reflect.TypeOf(BucketLog2Round{}):
		return true
	default:
		return false
	}
}

// sprintStats returns the selected group(s) of statistics as a string, groups in name order
func sprintStats(stringFmt StatStringFormat, pkgName string, statsGroupName string) (statValues string) {
	var groupNames []string

	statsNameMapLock.Lock()
	defer statsNameMapLock.Unlock()

	pkgName = scrubName(pkgName)

	if "*" == statsGroupName {
		for group := range pkgNameToGroupName[pkgName] {
			groupNames = append(groupNames, group)
		}
		sort.Strings(groupNames)
	} else {
		statsGroupName = scrubName(statsGroupName)
		if _, ok := pkgNameToGroupName[pkgName][statsGroupName]; !ok {
			panic(fmt.Sprintf("bucketstats.sprintStats(): statistics group '%s.%s' is not registered",
				pkgName, statsGroupName))
		}
		groupNames = []string{statsGroupName}
	}

	for _, group := range groupNames {
		statValues += sprintStatsStruct(stringFmt, pkgName, group, pkgNameToGroupName[pkgName][group])
	}
	return
}

func sprintStatsStruct(stringFmt StatStringFormat, pkgName string, statsGroupName string,
	statsStruct interface{}) (statValues string) {

	structAsValue := reflect.ValueOf(statsStruct).Elem()
	structAsType := structAsValue.Type()

	for i := 0; i < structAsType.NumField(); i++ {
		if !isStatType(structAsType.Field(i).Type) {
			continue
		}

		statValues += structAsValue.Field(i).Addr().Interface().(Totaler).Sprint(stringFmt, pkgName, statsGroupName)
	}
	return
}

// statisticName constructs a fully qualified statistic name
func statisticName(pkgName string, statsGroupName string, fieldName string) string {
	switch {
	case "" == pkgName:
		return statsGroupName + "." + fieldName
	case "" == statsGroupName:
		return pkgName + "." + fieldName
	default:
		return pkgName + "." + statsGroupName + "." + fieldName
	}
}

func (this *Total) sprint(stringFmt StatStringFormat, pkgName string, statsGroupName string) string {
	statName := statisticName(pkgName, statsGroupName, this.Name)

	if StatFormatParsable1 == stringFmt {
		return fmt.Sprintf("%s total:%d\n", statName, this.TotalGet())
	}

	return fmt.Sprintf("statName '%s': Unknown StatStringFormat: '%v'\n", statName, stringFmt)
}

func (this *Average) sprint(stringFmt StatStringFormat, pkgName string, statsGroupName string) string {
	statName := statisticName(pkgName, statsGroupName, this.Name)

	if StatFormatParsable1 == stringFmt {
		return fmt.Sprintf("%s total:%d count:%d avg:%d\n",
			statName, this.TotalGet(), this.CountGet(), this.AverageGet())
	}

	return fmt.Sprintf("statName '%s': Unknown StatStringFormat: '%v'\n", statName, stringFmt)
}

// log2RoundIdx returns round(log2(value)) + 1 (0 for value 0).
//
// For 2^(n-1) <= value < 2^n, log2(value) rounds up to n exactly when value is at
// least 2^(n-1) * sqrt(2).
func log2RoundIdx(value uint64) uint {
	if 0 == value {
		return 0
	}

	n := bits.Len64(value)
	if float64(value) >= math.Sqrt2*math.Ldexp(1, n-1) {
		return uint(n) + 1
	}
	return uint(n)
}

// log2RoundRange returns the values mapped to bucket idx (before clamping)
func log2RoundRange(idx uint) (rangeLow uint64, rangeHigh uint64) {
	switch idx {
	case 0:
		return 0, 0
	case 1:
		return 1, 1
	}

	rangeLow = uint64(math.Ceil(math.Ldexp(math.Sqrt2, int(idx)-2)))
	if 64 <= idx {
		rangeHigh = math.MaxUint64
	} else {
		rangeHigh = uint64(math.Ceil(math.Ldexp(math.Sqrt2, int(idx)-1))) - 1
	}
	return
}

// bucketDistMake creates the canonical distribution for a bucketized statistic
func bucketDistMake(nBucket uint, statBuckets []uint32) (bucketInfo []BucketInfo) {
	if 0 == nBucket {
		nBucket = uint(len(statBuckets))
	}

	bucketInfo = make([]BucketInfo, nBucket)

	for idx := uint(0); idx < nBucket; idx++ {
		bucketInfo[idx].Count = uint64(atomic.LoadUint32(&statBuckets[idx]))
		bucketInfo[idx].RangeLow, bucketInfo[idx].RangeHigh = log2RoundRange(idx)
		if 0 < idx {
			bucketInfo[idx].NominalVal = uint64(1) << (idx - 1)
		}
	}

	// the last bucket also holds every larger value
	if nBucket < uint(len(statBuckets)) {
		bucketInfo[nBucket-1].RangeHigh = math.MaxUint64
	}

	for idx := range bucketInfo {
		bucketInfo[idx].MeanVal = bucketInfo[idx].RangeLow/2 + bucketInfo[idx].RangeHigh/2 +
			(bucketInfo[idx].RangeLow & bucketInfo[idx].RangeHigh & 0x1)
	}

	return
}

// bucketCalcStat calculates, for the distribution of a bucketized statistic:
//
// o the index of the last entry with a non-zero count
// o the count (number things in buckets)
// o sum of counts * bucket meanVal, and
// o mean (average)
func bucketCalcStat(bucketInfo []BucketInfo) (lastIdx int, count uint64, sum uint64, mean uint64) {
	var (
		bigSum     big.Int
		bigMean    big.Int
		bigTmp     big.Int
		bigProduct big.Int
	)

	for i := range bucketInfo {
		count += bucketInfo[i].Count

		bigTmp.SetUint64(bucketInfo[i].Count)
		bigProduct.SetUint64(bucketInfo[i].MeanVal)
		bigProduct.Mul(&bigProduct, &bigTmp)
		bigSum.Add(&bigSum, &bigProduct)

		if 0 < bucketInfo[i].Count {
			lastIdx = i
		}
	}
	if 0 < count {
		bigTmp.SetUint64(count)
		bigMean.Div(&bigSum, &bigTmp)
	}

	// sum is truncated if bigSum overflows a uint64
	mean = bigMean.Uint64()
	sum = bigSum.Uint64()

	return
}

func bucketSprint(stringFmt StatStringFormat, pkgName string, statsGroupName string, fieldName string,
	bucketInfo []BucketInfo) string {

	lastIdx, count, sum, mean := bucketCalcStat(bucketInfo)
	statName := statisticName(pkgName, statsGroupName, fieldName)

	if StatFormatParsable1 != stringFmt {
		return fmt.Sprintf("StatisticName '%s': Unknown StatStringFormat: '%v'\n", statName, stringFmt)
	}

	line := fmt.Sprintf("%s total:%d count:%d avg:%d", statName, sum, count, mean)
	for idx := 0; idx <= lastIdx; idx++ {
		if 0 == bucketInfo[idx].Count {
			continue
		}
		if 1024 > bucketInfo[idx].NominalVal {
			line += fmt.Sprintf(" %d:%d", bucketInfo[idx].NominalVal, bucketInfo[idx].Count)
		} else {
			line += fmt.Sprintf(" 2^%d:%d", idx-1, bucketInfo[idx].Count)
		}
	}
	return line + "\n"
}

// scrubName replaces illegal characters in names with underbar (`_`)
//
// Names should include only printable characters that are not whitespace. Also
// disallow splat ('*') (used as a wildcard), sharp ('#') (used for comments in
// output) and colon (':') (used as a delimiter in "key:value" output).
func scrubName(name string) string {
	replaceChar := func(r rune) rune {
		switch {
		case unicode.IsSpace(r), !unicode.IsPrint(r), '*' == r, ':' == r, '#' == r:
			return '_'
		}
		return r
	}

	return strings.Map(replaceChar, name)
}
