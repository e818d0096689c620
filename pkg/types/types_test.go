// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestDefaultCategories(t *testing.T) {
	c := DefaultCategories()
	require.NoError(t, c.Validate())
	assert.Equal(t, 11, c.Len())
	assert.Equal(t, "Real estate taxes", c.Label(0))
	assert.Equal(t, 7, c.Index("Insurance costs"))
	assert.Equal(t, -1, c.Index("insurance costs"))

	labels := c.Labels()
	labels[0] = "changed"
	assert.Equal(t, "Real estate taxes", c.Label(0), "Labels must return a copy")
}

func TestNewCategories(t *testing.T) {
	tests := []struct {
		name    string
		labels  []string
		wantErr error
	}{
		{name: "valid", labels: []string{"Fuel", "Utilities"}},
		{name: "empty", labels: nil, wantErr: ErrNoCategories},
		{name: "blank label", labels: []string{"Fuel", " "}, wantErr: ErrBlankCategory},
		{name: "duplicate ignoring case", labels: []string{"Fuel", "FUEL"}, wantErr: ErrDuplicateCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCategories(tt.labels...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.labels, c.Labels())
		})
	}
}

func TestNewCategories_CopiesInput(t *testing.T) {
	labels := []string{"Fuel", "Utilities"}
	c, err := NewCategories(labels...)
	require.NoError(t, err)
	labels[0] = "Gas"
	assert.Equal(t, "Fuel", c.Label(0))
}

func TestPercent_MissingIsNotZero(t *testing.T) {
	assert.NotEqual(t, Missing(), PercentOf(0))
	assert.Equal(t, "missing", Missing().String())
	assert.Equal(t, "0%", PercentOf(0).String())
	assert.Equal(t, "21.7%", PercentOf(21.7).String())
}

func TestPercent_JSON(t *testing.T) {
	row := LongRow{Year: 2023, Category: "Fuel", PercentageChange: Missing()}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2023,"category":"Fuel","percentage_change":null}`, string(data))

	var back LongRow
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, row, back)

	require.NoError(t, json.Unmarshal([]byte(`{"percentage_change":0}`), &back))
	assert.Equal(t, PercentOf(0), back.PercentageChange)
}

func TestPercent_YAML(t *testing.T) {
	rows := []LongRow{
		{Year: 2024, Category: "Insurance costs", PercentageChange: PercentOf(21.7)},
		{Year: 2023, Category: "Costs in Pre-1974 buildings", PercentageChange: Missing()},
	}
	data, err := yaml.Marshal(rows)
	require.NoError(t, err)
	assert.Contains(t, string(data), "percentage_change: 21.7")
	assert.Contains(t, string(data), "percentage_change: null")

	var back []LongRow
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, rows, back)
}

func TestExtractionResult(t *testing.T) {
	c, err := NewCategories("Fuel", "Utilities")
	require.NoError(t, err)

	r := NewExtractionResult(c)
	require.Len(t, r.Values, 2)
	assert.Equal(t, 0, r.Resolved())

	r.Values[1].Value = PercentOf(2.5)
	v, ok := r.Get("Utilities")
	assert.True(t, ok)
	assert.Equal(t, PercentOf(2.5), v)
	assert.Equal(t, 1, r.Resolved())

	_, ok = r.Get("Fuel oil")
	assert.False(t, ok)
}

func TestExtractionConfig_CategorySet(t *testing.T) {
	c, err := ExtractionConfig{}.CategorySet()
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories(), c)

	c, err = ExtractionConfig{Categories: []string{"Fuel"}}.CategorySet()
	require.NoError(t, err)
	assert.Equal(t, []string{"Fuel"}, c.Labels())

	_, err = ExtractionConfig{Categories: []string{"Fuel", "fuel"}}.CategorySet()
	assert.True(t, errors.Is(err, ErrDuplicateCategory))
}
