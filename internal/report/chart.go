package report

import (
	"errors"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"mood-bot/internal/storage"
)

// Period selects how chart points are bucketed. Week and month buckets
// show the mean of their measurements.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ErrNoMeasurements signals that there is nothing to plot.
var ErrNoMeasurements = errors.New("no measurements to plot")

// Value axis ticks carry the qualitative scale, not bare numbers.
const yAxisLabels = `function (value) {
    var labels = {"-3": "Очень плохо", "-2": "Плохо", "-1": "Немного плохо",
        "0": "Нейтрально", "1": "Немного хорошо", "2": "Хорошо", "3": "Отлично"};
    return labels[value] !== undefined ? labels[value] : value;
}`

// RenderChart writes an interactive HTML line chart of the measurements
// to w. Points may arrive in any order; the chart needs ascending time.
// The value axis assumes the default -3..+3 scale: the seven band labels
// and the axis bounds are fixed, so values outside that range plot but
// clip against the axis.
func RenderChart(w io.Writer, points []storage.Point, period Period) error {
	if len(points) == 0 {
		return ErrNoMeasurements
	}

	labels, values := aggregate(points, period)

	data := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		data = append(data, opts.LineData{Value: v})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Динамика психологического состояния"}),
		charts.WithTitleOpts(opts.Title{Title: "Динамика психологического состояния"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Время"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Состояние",
			Min:  -3,
			Max:  3,
			AxisLabel: &opts.AxisLabel{
				Show:      opts.Bool(true),
				Formatter: opts.FuncOpts(yAxisLabels),
			},
		}),
	)
	line.SetXAxis(labels).AddSeries("Измерения", data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))

	return line.Render(w)
}

// aggregate buckets points by the requested period and returns parallel
// slices of bucket labels and mean values, ascending in time.
func aggregate(points []storage.Point, period Period) ([]string, []float64) {
	sorted := make([]storage.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	if period != PeriodWeek && period != PeriodMonth {
		labels := make([]string, 0, len(sorted))
		values := make([]float64, 0, len(sorted))
		for _, p := range sorted {
			labels = append(labels, p.Timestamp.Format("2006-01-02 15:04"))
			values = append(values, float64(p.Value))
		}
		return labels, values
	}

	var labels []string
	var sums []float64
	var counts []int
	lastKey := ""
	for _, p := range sorted {
		key := bucketKey(p, period)
		if len(labels) == 0 || key != lastKey {
			labels = append(labels, key)
			sums = append(sums, 0)
			counts = append(counts, 0)
			lastKey = key
		}
		sums[len(sums)-1] += float64(p.Value)
		counts[len(counts)-1]++
	}

	values := make([]float64, len(sums))
	for i := range sums {
		values[i] = sums[i] / float64(counts[i])
	}
	return labels, values
}

func bucketKey(p storage.Point, period Period) string {
	t := p.Timestamp
	if period == PeriodMonth {
		return t.Format("2006-01")
	}
	// Week buckets are labeled by their Monday.
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, 1-weekday).Format("2006-01-02")
}
