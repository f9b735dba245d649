// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"slices"
	"sort"
)

// CohortPair is one (category, cohort) combination.
type CohortPair struct {
	Category string
	Cohort   string
}

// CohortOrder is the canonical display order of category/cohort rows.
var CohortOrder = []CohortPair{
	{"NU", "New Users"},
	{"RU_last30_Days", "RU1-5"},
	{"RU_last30_Days", "RU6-10"},
	{"RU_last30_Days", "RU10+"},
	{"DU_30_45_Days", "RU1-5"},
	{"DU_30_45_Days", "RU6-10"},
	{"DU_30_45_Days", "RU10+"},
	{"DU_45+_Days", "RU1-5"},
	{"DU_45+_Days", "RU6-10"},
	{"DU_45+_Days", "RU10+"},
	{"Unassigned", "Unassigned"},
}

var cohortRanks = func() map[CohortPair]int {
	m := make(map[CohortPair]int, len(CohortOrder))
	for i, p := range CohortOrder {
		m[p] = i
	}
	return m
}()

// CohortRank returns the position of a combination in CohortOrder. Unknown
// combinations rank after every known one.
func CohortRank(category, cohort string) int {
	if r, ok := cohortRanks[CohortPair{category, cohort}]; ok {
		return r
	}
	return len(CohortOrder)
}

// SortByCohort returns a copy of p with rows in canonical cohort order. Ties
// keep their relative order. Pivots without category and cohort dimensions
// are returned unchanged.
func SortByCohort(p *Pivot) *Pivot {
	ci, hi := p.dimIndex(DimCategory), p.dimIndex(DimCohort)
	if ci < 0 || hi < 0 {
		return p
	}
	rows := slices.Clone(p.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return CohortRank(rows[i].Key[ci], rows[i].Key[hi]) < CohortRank(rows[j].Key[ci], rows[j].Key[hi])
	})
	return p.withRows(rows)
}

// SortResultSet returns a copy of rs with raw rows in canonical cohort order.
func SortResultSet(rs *ResultSet) *ResultSet {
	if !rs.HasColumn(DimCategory) || !rs.HasColumn(DimCohort) {
		return rs
	}
	rows := slices.Clone(rs.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return CohortRank(rows[i].Dim(DimCategory), rows[i].Dim(DimCohort)) <
			CohortRank(rows[j].Dim(DimCategory), rows[j].Dim(DimCohort))
	})
	return &ResultSet{Columns: rs.Columns, Rows: rows}
}

// SortByWeight returns a copy of p ordered by descending weight of the dim
// value. Rows without a weight go last, in their original order.
func SortByWeight(p *Pivot, dim string, weights map[string]float64) *Pivot {
	di := p.dimIndex(dim)
	if di < 0 {
		return p
	}
	rows := slices.Clone(p.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		wi, iok := weights[rows[i].Key[di]]
		wj, jok := weights[rows[j].Key[di]]
		switch {
		case iok && jok:
			return wi > wj
		default:
			return iok && !jok
		}
	})
	return p.withRows(rows)
}

// LatestWeights sums measure per dim value over the rows of the latest date
// found in dateDim. Null measures are skipped.
func LatestWeights(rs *ResultSet, dim, measure, dateDim string) map[string]float64 {
	var latest string
	for _, row := range rs.Rows {
		if d := row.Dim(dateDim); d > latest {
			latest = d
		}
	}
	weights := make(map[string]float64)
	if latest == "" {
		return weights
	}
	for _, row := range rs.Rows {
		if row.Dim(dateDim) != latest {
			continue
		}
		key := row.Dim(dim)
		v, ok := row.Measure(measure)
		if key == "" || !ok {
			continue
		}
		weights[key] += v
	}
	return weights
}
