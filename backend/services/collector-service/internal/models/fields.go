package models

// TimestampColumn is the first column of every row.
const TimestampColumn = "timestamp"

// ColumnCount is the number of positional values in a row.
const ColumnCount = 31

// Field binds a label printed by the device to its column and record slot.
type Field struct {
	// Key is the label text on the live data page, without the colon.
	Key string
	// Column is the destination column name.
	Column string

	ref func(*TelemetryRecord) *Value
}

func packFields(prefix string, pack func(*TelemetryRecord) *Pack) []Field {
	return []Field{
		{Key: prefix + "_V", Column: prefix + "_V", ref: func(r *TelemetryRecord) *Value { return &pack(r).V }},
		{Key: prefix + "_A", Column: prefix + "_A", ref: func(r *TelemetryRecord) *Value { return &pack(r).A }},
		{Key: prefix + "_SOC", Column: prefix + "_SOC", ref: func(r *TelemetryRecord) *Value { return &pack(r).SOC }},
		{Key: prefix + "_TEMP", Column: prefix + "_TEMP", ref: func(r *TelemetryRecord) *Value { return &pack(r).Temp }},
		{Key: prefix + "_REMAIN_AH", Column: prefix + "_REMAIN_AH", ref: func(r *TelemetryRecord) *Value { return &pack(r).RemainAh }},
		{Key: prefix + "_IMBALANCE", Column: prefix + "_IMBALANCE", ref: func(r *TelemetryRecord) *Value { return &pack(r).Imbalance }},
	}
}

func buildFields() []Field {
	var fields []Field
	fields = append(fields, packFields("P1", func(r *TelemetryRecord) *Pack { return &r.P1 })...)
	fields = append(fields, packFields("P2", func(r *TelemetryRecord) *Pack { return &r.P2 })...)
	fields = append(fields, packFields("P3", func(r *TelemetryRecord) *Pack { return &r.P3 })...)
	fields = append(fields,
		Field{Key: "Pylon_SOC", Column: "Pylon_SOC", ref: func(r *TelemetryRecord) *Value { return &r.Pylon.SOC }},
		Field{Key: "Pylon_W", Column: "Pylon_W", ref: func(r *TelemetryRecord) *Value { return &r.Pylon.W }},
		Field{Key: "Pylon_A", Column: "Pylon_A", ref: func(r *TelemetryRecord) *Value { return &r.Pylon.A }},
		Field{Key: "Pylon_V", Column: "Pylon_V", ref: func(r *TelemetryRecord) *Value { return &r.Pylon.V }},
		Field{Key: "Pylon_Temp", Column: "Pylon_Temp", ref: func(r *TelemetryRecord) *Value { return &r.Pylon.Temp }},
		Field{Key: "Pylon_Remain_AH", Column: "Pylon_Remain_AH", ref: func(r *TelemetryRecord) *Value { return &r.Pylon.RemainAh }},
		Field{Key: "Pylon_Remain_kWh", Column: "Pylon_Remain_kWh", ref: func(r *TelemetryRecord) *Value { return &r.Pylon.RemainKWh }},
		Field{Key: "Inverter_Load_W", Column: "Inverter_Load_W", ref: func(r *TelemetryRecord) *Value { return &r.Inverter.LoadW }},
		// The device abbreviates the label; the column does not.
		Field{Key: "Inverter_Load_Perc", Column: "Inverter_Load_Percent", ref: func(r *TelemetryRecord) *Value { return &r.Inverter.LoadPercent }},
		Field{Key: "Inverter_Grid_W", Column: "Inverter_Grid_W", ref: func(r *TelemetryRecord) *Value { return &r.Inverter.GridW }},
		Field{Key: "Inverter_Grid_V", Column: "Inverter_Grid_V", ref: func(r *TelemetryRecord) *Value { return &r.Inverter.GridV }},
		Field{Key: "Inverter_PV_W", Column: "Inverter_PV_W", ref: func(r *TelemetryRecord) *Value { return &r.Inverter.PVW }},
	)
	return fields
}

// Fields lists the 30 measurements in column order.
var Fields = buildFields()

var fieldsByKey = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.Key] = f
	}
	return m
}()

// Columns returns every column name in insert order, timestamp first.
func Columns() []string {
	cols := make([]string, 0, ColumnCount)
	cols = append(cols, TimestampColumn)
	for _, f := range Fields {
		cols = append(cols, f.Column)
	}
	return cols
}
