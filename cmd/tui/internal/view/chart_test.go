package view

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderBars(t *testing.T) {
	out := RenderBars([]Bar{
		{Label: "0-100", Value: 4},
		{Label: "101-200", Value: 2},
		{Label: "201-300", Value: 0},
		{Label: "901-above", Value: 1},
	}, 8)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)

	assert.Equal(t, 8, strings.Count(lines[0], "█"))
	assert.Equal(t, 4, strings.Count(lines[1], "█"))
	assert.Equal(t, 0, strings.Count(lines[2], "█"))
	assert.Equal(t, 2, strings.Count(lines[3], "█"))

	assert.True(t, strings.HasSuffix(lines[2], " 0"))
}

func TestRenderBars_SmallValueVisible(t *testing.T) {
	out := RenderBars([]Bar{{Label: "a", Value: 100}, {Label: "b", Value: 1}}, 10)
	lines := strings.Split(out, "\n")

	assert.Equal(t, 1, strings.Count(lines[1], "█"))
}

func TestRenderBars_Empty(t *testing.T) {
	assert.Contains(t, RenderBars(nil, 10), "no data")
}

func TestPageLabel(t *testing.T) {
	assert.Equal(t, "1/1 (0)", pageLabel(1, 10, 0))
	assert.Equal(t, "2/3 (21)", pageLabel(2, 10, 21))
	assert.Equal(t, "1/1 (10)", pageLabel(1, 10, 10))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "44.60", FormatPrice(decimal.RequireFromString("44.6")))
	assert.Equal(t, "0.00", FormatPrice(decimal.Zero))
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, validateYear("2021"))
	assert.Error(t, validateYear("0"))
	assert.Error(t, validateYear("20x1"))
}
