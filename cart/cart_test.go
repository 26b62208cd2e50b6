package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id uint, price string, qty int) Line {
	return Line{
		ProductID: id,
		Name:      "product",
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  string
	}{
		{name: "empty", lines: nil, want: "0"},
		{name: "single", lines: []Line{line(1, "10", 2)}, want: "20"},
		{name: "two lines", lines: []Line{line(1, "10", 2), line(2, "5", 3)}, want: "35"},
		{name: "cents", lines: []Line{line(1, "0.10", 3), line(2, "0.20", 1)}, want: "0.5"},
		{name: "rounds to cents", lines: []Line{line(1, "1.005", 1)}, want: "1.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.lines)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestTotal_NoFloatDrift(t *testing.T) {
	lines := make([]Line, 0, 1000)
	for i := range 1000 {
		lines = append(lines, line(uint(i+1), "0.10", 1))
	}
	assert.Equal(t, "100.00", Total(lines).StringFixed(2))
}

func TestTotal_InvariantUnderReordering(t *testing.T) {
	lines := []Line{
		line(1, "10", 2),
		line(2, "5", 3),
		line(3, "2.49", 7),
		line(4, "19.99", 1),
		line(5, "0.01", 99),
	}
	want := Total(lines)

	rng := rand.New(rand.NewSource(42))
	for range 20 {
		shuffled := append([]Line(nil), lines...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.True(t, want.Equal(Total(shuffled)))
	}
}

func TestMerge(t *testing.T) {
	lines := []Line{
		line(1, "10", 2),
		line(2, "5", 1),
		line(1, "10", 3),
		line(3, "1", 1),
		line(2, "5", 4),
	}

	merged := Merge(lines)
	require.Len(t, merged, 3)
	assert.Equal(t, uint(1), merged[0].ProductID)
	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, uint(2), merged[1].ProductID)
	assert.Equal(t, 5, merged[1].Quantity)
	assert.Equal(t, uint(3), merged[2].ProductID)
	assert.Equal(t, 1, merged[2].Quantity)

	assert.True(t, Total(lines).Equal(Total(merged)))
	assert.Equal(t, 2, lines[0].Quantity, "input must not be modified")
}

func TestSummarize(t *testing.T) {
	view := Summarize([]Line{line(1, "10", 2), line(2, "5", 3), line(1, "10", 1)})

	require.Len(t, view.Items, 2)
	assert.True(t, decimal.NewFromInt(30).Equal(view.Items[0].LineTotal))
	assert.True(t, decimal.NewFromInt(15).Equal(view.Items[1].LineTotal))
	assert.Equal(t, 6, view.ItemCount)
	assert.True(t, decimal.NewFromInt(45).Equal(view.Total))
}

func TestSummarize_Empty(t *testing.T) {
	view := Summarize(nil)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}
