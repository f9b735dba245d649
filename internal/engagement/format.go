// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// MetricKind groups metrics that share display rules.
type MetricKind int

// Metric kinds.
const (
	KindVolume MetricKind = iota
	KindPercent
	KindRate
	KindDPO
)

// MetricInfo describes how a metric is labelled and displayed.
type MetricInfo struct {
	Name  string
	Label string
	Kind  MetricKind
}

var metricCatalog = map[string]MetricInfo{
	MeasureBase:             {MeasureBase, "Total Base", KindVolume},
	MeasureTransactingUsers: {MeasureTransactingUsers, "Transacting Users", KindVolume},
	MeasureVisitors:         {MeasureVisitors, "Unique Visitors", KindVolume},
	MeasureOrdersOnDate:     {MeasureOrdersOnDate, "Daily Orders", KindVolume},
	MeasureMenuSessions:     {MeasureMenuSessions, "Menu Sessions", KindVolume},
	MeasureCartSessions:     {MeasureCartSessions, "Cart Sessions", KindVolume},
	MeasureMenuDroppers:     {MeasureMenuDroppers, "Menu Droppers", KindVolume},
	MeasureCartDroppers:     {MeasureCartDroppers, "Cart Droppers", KindVolume},
	MeasureDPOFreeCash:      {MeasureDPOFreeCash, "DPO Free Cash", KindDPO},
	MeasureDPOCoupons:       {MeasureDPOCoupons, "DPO Coupons", KindDPO},
	MeasureDPOBoth:          {MeasureDPOBoth, "DPO Combined", KindDPO},
	MeasurePctDiscOrders:    {MeasurePctDiscOrders, "% Discounted Orders", KindPercent},

	TUVUPct.Name:    {TUVUPct.Name, "TU / VU %", KindPercent},
	VUPct.Name:      {VUPct.Name, "VU %", KindPercent},
	RepeatRate.Name: {RepeatRate.Name, "Repeat Rate", KindRate},

	TUVUPct.Name + "_city":    {TUVUPct.Name + "_city", "TU / VU %", KindPercent},
	VUPct.Name + "_city":      {VUPct.Name + "_city", "VU %", KindPercent},
	RepeatRate.Name + "_city": {RepeatRate.Name + "_city", "Repeat Rate", KindRate},
}

// LookupMetric returns catalogue information for a metric. Unknown metrics
// are treated as volumes with a title-cased label.
func LookupMetric(name string) MetricInfo {
	if info, ok := metricCatalog[name]; ok {
		return info
	}
	return MetricInfo{Name: name, Label: titleCase(name), Kind: KindVolume}
}

// IsKnownMetric reports whether name is in the metric catalogue.
func IsKnownMetric(name string) bool {
	_, ok := metricCatalog[name]
	return ok
}

// MetricLabel returns the display label of a metric.
func MetricLabel(name string) string {
	return LookupMetric(name).Label
}

func titleCase(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// NumberFormat renders period values.
type NumberFormat string

// Value formats.
const (
	FormatGroupedInt NumberFormat = "grouped_int" // 1,235
	FormatGrouped2   NumberFormat = "grouped_2"   // 1,234.50
	FormatPercent1   NumberFormat = "percent_1"   // 12.3%
	FormatFixed2     NumberFormat = "fixed_2"     // 1.23
)

// Format renders v.
func (f NumberFormat) Format(v float64) string {
	switch f {
	case FormatGrouped2:
		return humanize.FormatFloat("#,###.##", v)
	case FormatPercent1:
		return fmt.Sprintf("%.1f%%", v)
	case FormatFixed2:
		return fmt.Sprintf("%.2f", v)
	default:
		return humanize.FormatFloat("#,###.", v)
	}
}

// DeltaFormat renders signed change values.
type DeltaFormat string

// Delta formats.
const (
	DeltaFormatPercent    DeltaFormat = "percent"     // +1.2%
	DeltaFormatPoints     DeltaFormat = "points"      // +1.2pp
	DeltaFormatGrouped2   DeltaFormat = "grouped_2"   // +1,234.50
	DeltaFormatGroupedInt DeltaFormat = "grouped_int" // +1,234
)

// Format renders v with an explicit sign.
func (f DeltaFormat) Format(v float64) string {
	switch f {
	case DeltaFormatPoints:
		return fmt.Sprintf("%+.1fpp", v)
	case DeltaFormatGrouped2:
		return humanize.FormatFloat("+#,###.##", v)
	case DeltaFormatGroupedInt:
		return humanize.FormatFloat("+#,###.", v)
	default:
		return fmt.Sprintf("%+.1f%%", v)
	}
}

// FormatSpec is the display rule set of one metric within a view.
type FormatSpec struct {
	Value  NumberFormat `json:"value"`
	Change DeltaFormat  `json:"change"`
	Abs    DeltaFormat  `json:"abs"`
}

// FormatFor returns the default rule set of a metric.
func FormatFor(metric string) FormatSpec {
	spec := FormatSpec{
		Value:  FormatGroupedInt,
		Change: DeltaFormatPercent,
		Abs:    DeltaFormatGroupedInt,
	}
	switch LookupMetric(metric).Kind {
	case KindPercent:
		spec.Value = FormatPercent1
		spec.Abs = DeltaFormatGrouped2
	case KindRate, KindDPO:
		spec.Value = FormatFixed2
		spec.Abs = DeltaFormatGrouped2
	}
	return spec
}

// Tone classifies a change value for colouring.
type Tone string

// Tones.
const (
	ToneFavorable   Tone = "favorable"
	ToneUnfavorable Tone = "unfavorable"
	ToneNeutral     Tone = "neutral"
)

// ToneOf classifies v by sign. Zero and non-finite values are neutral.
func ToneOf(v float64) Tone {
	switch {
	case math.IsNaN(v) || v == 0:
		return ToneNeutral
	case v > 0:
		return ToneFavorable
	default:
		return ToneUnfavorable
	}
}

// Gradient bounds and colours for change columns.
const (
	GradientMin = -20.0
	GradientMax = 20.0

	ColorUnfavorableTint = "#ffcdd2"
	ColorNeutral         = "#ffffff"
	ColorFavorableTint   = "#c8e6c9"

	ColorFavorableSolid   = "#69db7c"
	ColorUnfavorableSolid = "#ff6b6b"
)

// GradientColor maps a change value onto the diverging red-white-green scale,
// clamped to [GradientMin, GradientMax].
func GradientColor(change float64) string {
	change = finite(change)
	if change < GradientMin {
		change = GradientMin
	}
	if change > GradientMax {
		change = GradientMax
	}
	if change < 0 {
		return lerpHex(ColorNeutral, ColorUnfavorableTint, change/GradientMin)
	}
	return lerpHex(ColorNeutral, ColorFavorableTint, change/GradientMax)
}

// SolidColor returns the hourly grid colour of a change value, or "" for
// neutral cells.
func SolidColor(change float64) string {
	switch ToneOf(change) {
	case ToneFavorable:
		return ColorFavorableSolid
	case ToneUnfavorable:
		return ColorUnfavorableSolid
	default:
		return ""
	}
}

func lerpHex(from, to string, t float64) string {
	var fr, fg, fb, tr, tg, tb int
	_, _ = fmt.Sscanf(from, "#%02x%02x%02x", &fr, &fg, &fb)
	_, _ = fmt.Sscanf(to, "#%02x%02x%02x", &tr, &tg, &tb)
	mix := func(a, b int) int {
		return int(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(fr, tr), mix(fg, tg), mix(fb, tb))
}

// Cell is one rendered table cell.
type Cell struct {
	Text  string `json:"text"`
	Tone  Tone   `json:"tone,omitempty"`
	Color string `json:"color,omitempty"`
}

// FormattedRow is one rendered table row.
type FormattedRow struct {
	Key   Key    `json:"key"`
	Cells []Cell `json:"cells"`
}

// FormattedTable is a display-ready table.
type FormattedTable struct {
	Dims   []string       `json:"dims"`
	Header []string       `json:"header"`
	Rows   []FormattedRow `json:"rows"`
}

// FormatDeltaTable renders dt as change, absolute difference, selected and
// compare columns, in that order. The change column carries the gradient.
func FormatDeltaTable(dt *DeltaTable, spec FormatSpec) *FormattedTable {
	changeHeader := "% Change"
	if dt.Mode == DeltaPoints {
		changeHeader = "Change (pp)"
	}
	ft := &FormattedTable{
		Dims: dt.Dims,
		Header: []string{
			changeHeader,
			"Absolute Diff",
			fmt.Sprintf("Selected (%s)", dt.SelectedLabel),
			fmt.Sprintf("Compare (%s)", dt.CompareLabel),
		},
		Rows: make([]FormattedRow, 0, len(dt.Rows)),
	}
	for _, row := range dt.Rows {
		ft.Rows = append(ft.Rows, FormattedRow{
			Key: row.Key,
			Cells: []Cell{
				{Text: spec.Change.Format(row.Change), Tone: ToneOf(row.Change), Color: GradientColor(row.Change)},
				{Text: spec.Abs.Format(row.Abs), Tone: ToneOf(row.Abs)},
				{Text: spec.Value.Format(row.Selected)},
				{Text: spec.Value.Format(row.Compare)},
			},
		})
	}
	return ft
}

// FormatPivot renders every cell of p. Absent cells are blank.
func FormatPivot(p *Pivot, f NumberFormat) *FormattedTable {
	ft := &FormattedTable{
		Dims:   p.Dims,
		Header: p.Columns,
		Rows:   make([]FormattedRow, 0, len(p.Rows)),
	}
	for _, row := range p.Rows {
		cells := make([]Cell, len(p.Columns))
		for i, col := range p.Columns {
			if v, ok := row.Cells[col]; ok {
				cells[i] = Cell{Text: f.Format(v)}
			}
		}
		ft.Rows = append(ft.Rows, FormattedRow{Key: row.Key, Cells: cells})
	}
	return ft
}

// FormatGrid renders the change values of gd with solid tone colours.
func FormatGrid(gd *GridDelta, f DeltaFormat) *FormattedTable {
	ft := &FormattedTable{
		Dims:   gd.Dims,
		Header: gd.Columns,
		Rows:   make([]FormattedRow, 0, len(gd.Rows)),
	}
	for _, row := range gd.Rows {
		cells := make([]Cell, len(gd.Columns))
		for i, col := range gd.Columns {
			v := row.Change[col]
			cells[i] = Cell{Text: f.Format(v), Tone: ToneOf(v), Color: SolidColor(v)}
		}
		ft.Rows = append(ft.Rows, FormattedRow{Key: row.Key, Cells: cells})
	}
	return ft
}
