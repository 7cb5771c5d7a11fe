package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_Order(t *testing.T) {
	cols := Columns()
	require.Len(t, cols, ColumnCount)

	assert.Equal(t, "timestamp", cols[0])
	assert.Equal(t, []string{"P1_V", "P1_A", "P1_SOC", "P1_TEMP", "P1_REMAIN_AH", "P1_IMBALANCE"}, cols[1:7])
	assert.Equal(t, "P2_V", cols[7])
	assert.Equal(t, "P3_IMBALANCE", cols[18])
	assert.Equal(t, []string{"Pylon_SOC", "Pylon_W", "Pylon_A", "Pylon_V", "Pylon_Temp", "Pylon_Remain_AH", "Pylon_Remain_kWh"}, cols[19:26])
	assert.Equal(t, []string{"Inverter_Load_W", "Inverter_Load_Percent", "Inverter_Grid_W", "Inverter_Grid_V", "Inverter_PV_W"}, cols[26:])
}

func TestFields_UniqueKeys(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Fields {
		assert.False(t, seen[f.Key], "duplicate key %s", f.Key)
		seen[f.Key] = true
	}
	assert.Len(t, seen, ColumnCount-1)
}

func TestRecord_SetGet(t *testing.T) {
	rec := NewTelemetryRecord(time.Now())

	assert.True(t, rec.Set("P2_SOC", Number(87)))
	assert.True(t, rec.Set("Inverter_Load_Perc", Number(12)))
	assert.True(t, rec.Set("Pylon_Temp", Text("/")))
	assert.False(t, rec.Set("Inverter_Load_Percent", Number(1)))
	assert.False(t, rec.Set("timestamp", Number(1)))

	soc, ok := rec.P2.SOC.Float()
	assert.True(t, ok)
	assert.Equal(t, 87.0, soc)

	load, _ := rec.Inverter.LoadPercent.Float()
	assert.Equal(t, 12.0, load)

	got, ok := rec.Get("Pylon_Temp")
	require.True(t, ok)
	raw, isText := got.Raw()
	assert.True(t, isText)
	assert.Equal(t, "/", raw)

	assert.True(t, rec.P1.V.IsAbsent())
}

func TestRecord_Row(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := NewTelemetryRecord(ts)
	rec.Set("P1_V", Number(52.1))
	rec.Set("Inverter_PV_W", Text("--"))

	row := rec.Row()
	require.Len(t, row, ColumnCount)
	assert.Equal(t, ts, row[0])
	assert.Equal(t, 52.1, row[1])
	assert.Nil(t, row[2])
	assert.Equal(t, "--", row[30])
}

func TestValue_JSON(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"absent", Value{}, "null"},
		{"number", Number(3.14), "3.14"},
		{"text", Text("N"), `"N"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestRecord_JSONKeyedByColumn(t *testing.T) {
	rec := NewTelemetryRecord(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	rec.Set("Inverter_Load_Perc", Number(40))

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, ColumnCount)
	assert.Equal(t, 40.0, decoded["Inverter_Load_Percent"])
	assert.Nil(t, decoded["P1_V"])
	assert.Equal(t, "2024-05-01T12:00:00Z", decoded["timestamp"])
}
