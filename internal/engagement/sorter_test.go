// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"reflect"
	"testing"
)

func keysOf(p *Pivot) []string {
	out := make([]string, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = r.Key.String()
	}
	return out
}

func cohortPivot(keys ...Key) *Pivot {
	p := &Pivot{Dims: []string{DimCategory, DimCohort}, Columns: []string{"2024-01-01"}}
	for i, k := range keys {
		p.Rows = append(p.Rows, PivotRow{Key: k, Cells: map[string]float64{"2024-01-01": float64(i)}})
	}
	return p
}

func TestSortByCohort(t *testing.T) {
	t.Parallel()

	p := cohortPivot(
		Key{"Foo", "Bar"},
		Key{"Unassigned", "Unassigned"},
		Key{"DU_45+_Days", "RU10+"},
		Key{"NU", "New Users"},
		Key{"RU_last30_Days", "RU6-10"},
		Key{"RU_last30_Days", "RU1-5"},
	)

	got := keysOf(SortByCohort(p))
	want := []string{
		"NU / New Users",
		"RU_last30_Days / RU1-5",
		"RU_last30_Days / RU6-10",
		"DU_45+_Days / RU10+",
		"Unassigned / Unassigned",
		"Foo / Bar",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortByCohort() = %v, want %v", got, want)
	}
	if keysOf(p)[0] != "Foo / Bar" {
		t.Error("SortByCohort mutated its input")
	}
}

func TestSortByCohortIdempotentAndStable(t *testing.T) {
	t.Parallel()

	p := cohortPivot(
		Key{"Zed", "Z"},
		Key{"DU_30_45_Days", "RU1-5"},
		Key{"Foo", "Bar"},
		Key{"NU", "New Users"},
		Key{"Alpha", "A"},
	)
	once := SortByCohort(p)
	twice := SortByCohort(once)
	if !reflect.DeepEqual(keysOf(once), keysOf(twice)) {
		t.Errorf("sort not idempotent: %v vs %v", keysOf(once), keysOf(twice))
	}

	// Unknown pairs share the last rank and keep their input order.
	want := []string{"NU / New Users", "DU_30_45_Days / RU1-5", "Zed / Z", "Foo / Bar", "Alpha / A"}
	if !reflect.DeepEqual(keysOf(once), want) {
		t.Errorf("SortByCohort() = %v, want %v", keysOf(once), want)
	}
}

func TestCohortRankUnknownLast(t *testing.T) {
	t.Parallel()

	unknown := CohortRank("Foo", "Bar")
	for _, pair := range CohortOrder {
		if r := CohortRank(pair.Category, pair.Cohort); r >= unknown {
			t.Errorf("rank(%v) = %d, not before unknown rank %d", pair, r, unknown)
		}
	}
	if unknown != len(CohortOrder) {
		t.Errorf("unknown rank = %d, want %d", unknown, len(CohortOrder))
	}
}

func TestSortByCohortWithoutCohortDims(t *testing.T) {
	t.Parallel()

	p := &Pivot{Dims: []string{DimCity}, Rows: []PivotRow{{Key: Key{"b"}}, {Key: Key{"a"}}}}
	if got := keysOf(SortByCohort(p)); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("SortByCohort() = %v, want unchanged", got)
	}
}

func TestSortResultSet(t *testing.T) {
	t.Parallel()

	rs := &ResultSet{
		Columns: dailyColumns(),
		Rows: []Row{
			cohortRow("Unassigned", "Unassigned", "2024-01-01", nil),
			cohortRow("NU", "New Users", "2024-01-01", nil),
		},
	}
	out := SortResultSet(rs)
	if out.Rows[0].Dim(DimCategory) != "NU" {
		t.Errorf("first row = %v, want NU", out.Rows[0].Dims)
	}
	if rs.Rows[0].Dim(DimCategory) != "Unassigned" {
		t.Error("SortResultSet mutated its input")
	}
}

func TestSortByWeight(t *testing.T) {
	t.Parallel()

	rs := &ResultSet{
		Columns: []string{DimCity, DimDate, MeasureBase},
		Rows: []Row{
			row(map[string]string{DimCity: "Pune", DimDate: "2024-01-02"}, map[string]float64{MeasureBase: 10}),
			row(map[string]string{DimCity: "Delhi", DimDate: "2024-01-02"}, map[string]float64{MeasureBase: 30}),
			row(map[string]string{DimCity: "Pune", DimDate: "2024-01-02"}, map[string]float64{MeasureBase: 25}),
			row(map[string]string{DimCity: "Goa", DimDate: "2024-01-01"}, map[string]float64{MeasureBase: 999}),
		},
	}
	weights := LatestWeights(rs, DimCity, MeasureBase, DimDate)
	if want := map[string]float64{"Pune": 35, "Delhi": 30}; !reflect.DeepEqual(weights, want) {
		t.Fatalf("LatestWeights() = %v, want %v", weights, want)
	}

	p := &Pivot{Dims: []string{DimCity}, Rows: []PivotRow{{Key: Key{"Goa"}}, {Key: Key{"Delhi"}}, {Key: Key{"Pune"}}}}
	got := keysOf(SortByWeight(p, DimCity, weights))
	if want := []string{"Pune", "Delhi", "Goa"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortByWeight() = %v, want %v", got, want)
	}
}
