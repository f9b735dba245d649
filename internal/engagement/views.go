// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

// RowOrder selects how a view orders pivot rows.
type RowOrder string

// Row orders.
const (
	OrderCohort     RowOrder = "cohort"
	OrderLatestBase RowOrder = "latest_base"
)

// MetricConfig is the per-metric part of a view.
type MetricConfig struct {
	Name      string
	Agg       Aggregation
	Filter    RowFilter
	Precision int
	Mode      DeltaMode
}

// ViewConfig parameterises the comparison pipeline for one dashboard view.
type ViewConfig struct {
	Name  string
	Title string
	// Table is the fully qualified source table.
	Table   string
	OrderBy []string
	Rows    []string
	Column  string
	// PerDate builds one pivot per date over Column instead of using dates
	// as columns.
	PerDate bool
	Ratios  []Ratio
	Metrics []MetricConfig
	Order   RowOrder

	// Display overrides. VolumeFormat applies to volume metrics only,
	// AbsFormat to every metric. Empty keeps FormatFor.
	VolumeFormat NumberFormat
	AbsFormat    DeltaFormat
}

// Format returns the display rules of metric within the view.
func (v ViewConfig) Format(metric string) FormatSpec {
	spec := FormatFor(metric)
	if v.VolumeFormat != "" && LookupMetric(metric).Kind == KindVolume {
		spec.Value = v.VolumeFormat
	}
	if v.AbsFormat != "" {
		spec.Abs = v.AbsFormat
	}
	for _, m := range v.Metrics {
		if m.Name == metric && m.Mode == DeltaPoints {
			spec.Change = DeltaFormatPoints
		}
	}
	return spec
}

// MetricNames lists the view's metrics in display order.
func (v ViewConfig) MetricNames() []string {
	names := make([]string, len(v.Metrics))
	for i, m := range v.Metrics {
		names[i] = m.Name
	}
	return names
}

// View names.
const (
	ViewDoD       = "dod"
	ViewCity      = "city"
	ViewHourlyDPO = "hourly-dpo"
	ViewWeekly    = "weekly"
)

func volume(name string, agg Aggregation) MetricConfig {
	return MetricConfig{Name: name, Agg: agg, Precision: 2, Mode: DeltaPercent}
}

// DoDView is the cohort-level day-over-day comparison of the daily table.
// Every (category, cohort, date) is a single warehouse row, so ratios are
// summed, which leaves them unchanged.
func DoDView(table string) ViewConfig {
	return ViewConfig{
		Name:   ViewDoD,
		Title:  "RnG Day-over-Day",
		Table:  table,
		Rows:   []string{DimCategory, DimCohort},
		Column: DimDate,
		Ratios: DailyRatios(),
		Metrics: []MetricConfig{
			volume(MeasureBase, AggSum),
			volume(MeasureTransactingUsers, AggSum),
			volume(MeasureVisitors, AggSum),
			volume(MeasureOrdersOnDate, AggSum),
			volume(TUVUPct.Name, AggSum),
			{Name: VUPct.Name, Agg: AggSum, Filter: EngagedBaseFilter(), Precision: 2, Mode: DeltaPercent},
			volume(RepeatRate.Name, AggSum),
			volume(MeasureMenuSessions, AggSum),
			volume(MeasureCartSessions, AggSum),
			volume(MeasureMenuDroppers, AggSum),
			volume(MeasureCartDroppers, AggSum),
		},
		Order:        OrderCohort,
		VolumeFormat: FormatGrouped2,
		AbsFormat:    DeltaFormatGrouped2,
	}
}

// CityView compares cities. Several cohorts fold into one city, so volumes
// are summed and ratio metrics averaged.
func CityView(table string) ViewConfig {
	ratios := CityRatios()
	tuvu, vu, rr := ratios[0], ratios[1], ratios[2]
	return ViewConfig{
		Name:   ViewCity,
		Title:  "City Level DoD",
		Table:  table,
		Rows:   []string{DimCity},
		Column: DimDate,
		Ratios: ratios,
		Metrics: []MetricConfig{
			volume(MeasureBase, AggSum),
			volume(MeasureTransactingUsers, AggSum),
			volume(MeasureOrdersOnDate, AggSum),
			volume(MeasureVisitors, AggSum),
			volume(tuvu.Name, AggMean),
			{Name: vu.Name, Agg: AggMean, Filter: EngagedBaseFilter(), Precision: 2, Mode: DeltaPercent},
			volume(rr.Name, AggMean),
			volume(MeasureMenuSessions, AggSum),
			volume(MeasureCartSessions, AggSum),
			volume(MeasureMenuDroppers, AggSum),
			volume(MeasureCartDroppers, AggSum),
		},
		Order:        OrderLatestBase,
		VolumeFormat: FormatGroupedInt,
		AbsFormat:    DeltaFormatGroupedInt,
	}
}

// HourlyDPOView compares discount-per-order metrics hour by hour.
func HourlyDPOView(table string) ViewConfig {
	dpo := func(name string) MetricConfig {
		return MetricConfig{Name: name, Agg: AggMean, Precision: 2, Mode: DeltaPercent}
	}
	return ViewConfig{
		Name:    ViewHourlyDPO,
		Title:   "Hourly DPO Trend",
		Table:   table,
		OrderBy: []string{DimDate, DimHour, DimCategory, DimCohort},
		Rows:    []string{DimCategory, DimCohort},
		Column:  DimHour,
		PerDate: true,
		Metrics: []MetricConfig{
			dpo(MeasureDPOFreeCash),
			dpo(MeasureDPOCoupons),
			dpo(MeasureDPOBoth),
			{Name: MeasurePctDiscOrders, Agg: AggMean, Precision: 4, Mode: DeltaPoints},
		},
		Order: OrderCohort,
	}
}

// WeeklyView is the week-over-week trend chart over the daily table.
func WeeklyView(table string) ViewConfig {
	metrics := make([]MetricConfig, 0, 11)
	for _, m := range DoDView(table).Metrics {
		m.Agg = AggSum
		metrics = append(metrics, m)
	}
	return ViewConfig{
		Name:    ViewWeekly,
		Title:   "RnG Daily Comparison",
		Table:   table,
		OrderBy: []string{DimDate, DimCategory, DimCohort},
		Rows:    []string{DimCategory},
		Column:  DimDate,
		Ratios:  DailyRatios(),
		Metrics: metrics,
		Order:   OrderCohort,
	}
}
