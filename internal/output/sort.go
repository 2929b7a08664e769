// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset orders the result set in place per the sort spec: a comma
// separated list of output keys, each optionally prefixed with '-' for
// descending or '!' for case-sensitive comparison. Later keys break ties
// left by earlier ones.
func SortDataset(dataset []map[string]interface{}, spec string) {
	spec = strings.TrimSpace(spec)
	if spec == "" || len(dataset) < 2 {
		return
	}

	type sortKey struct {
		key           string
		descending    bool
		caseSensitive bool
	}

	//nolint:prealloc
	var keys []sortKey
	for _, s := range strings.Split(spec, ",") {
		s = strings.TrimSpace(s)
		k := sortKey{}
		for {
			if strings.HasPrefix(s, "-") {
				k.descending = true
				s = s[1:]
				continue
			}
			if strings.HasPrefix(s, "!") {
				k.caseSensitive = true
				s = s[1:]
				continue
			}
			break
		}
		if s == "" {
			continue
		}
		k.key = s
		keys = append(keys, k)
	}

	sort.SliceStable(dataset, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(dataset[i][k.key], dataset[j][k.key], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues returns -1/0/1. Numbers compare numerically; everything else
// compares as strings, case-insensitively unless told otherwise. Nils sort
// first.
func compareValues(a, b interface{}, caseSensitive bool) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	as := InterfaceToString(a)
	bs := InterfaceToString(b)
	if !caseSensitive {
		as = strings.ToLower(as)
		bs = strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}
