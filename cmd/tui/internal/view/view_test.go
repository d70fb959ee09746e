package view

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
)

func TestTimeframe_Contains(t *testing.T) {
	// Wednesday.
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	type args struct {
		tf   Timeframe
		date time.Time
	}

	type testCase struct {
		name string
		args args
		want bool
	}

	tests := []testCase{
		{
			name: "all time accepts anything",
			args: args{tf: TimeframeAll, date: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)},
			want: true,
		},
		{
			name: "this week includes monday",
			args: args{tf: TimeframeThisWeek, date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
			want: true,
		},
		{
			name: "this week excludes previous sunday",
			args: args{tf: TimeframeThisWeek, date: time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)},
			want: false,
		},
		{
			name: "last week includes previous sunday",
			args: args{tf: TimeframeLastWeek, date: time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)},
			want: true,
		},
		{
			name: "this month includes the first",
			args: args{tf: TimeframeThisMonth, date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
			want: true,
		},
		{
			name: "last month includes its last day",
			args: args{tf: TimeframeLastMonth, date: time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)},
			want: true,
		},
		{
			name: "last month excludes this month",
			args: args{tf: TimeframeLastMonth, date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
			want: false,
		},
		{
			name: "this year excludes last december",
			args: args{tf: TimeframeThisYear, date: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.args.tf.Contains(tt.args.date, now))
		})
	}
}

func TestTimeframe_NextWraps(t *testing.T) {
	tf := TimeframeAll
	for range timeframeCount {
		tf = tf.Next()
	}

	assert.Equal(t, TimeframeAll, tf)
}

func TestTypeFilter(t *testing.T) {
	assert.Nil(t, typeFilter(0))
	assert.Nil(t, typeFilter(len(typeLabels)))
	assert.Equal(t, fund.TypeYearly, *typeFilter(2))
	assert.Equal(t, 3, typeFilterIndex(string(fund.TypeOneTime)))
	assert.Equal(t, 0, typeFilterIndex("bogus"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "LKR 12,500.00", FormatAmount(decimal.NewFromInt(12500)))
}

func TestBars(t *testing.T) {
	out := bars([]report.ChartPoint{
		{Label: "Paid", Amount: decimal.NewFromInt(300)},
		{Label: "Pending", Amount: decimal.NewFromInt(150)},
		{Label: "Refunds", Amount: decimal.NewFromInt(-20)},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, barWidth, strings.Count(lines[0], "█"))
	assert.Equal(t, barWidth/2, strings.Count(lines[1], "█"))
	assert.Equal(t, 0, strings.Count(lines[2], "█"))
}
