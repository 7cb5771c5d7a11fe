package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Kind tells which variant a Value holds.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNumber
	KindText
)

// Value is a single measurement: a number, the raw text when it could not be
// parsed, or absent. The zero Value is absent.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a Value carrying unparsed text.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the device did not report this field.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Float returns the number and true for numeric values.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Raw returns the text and true for text values.
func (v Value) Raw() (string, bool) {
	return v.text, v.kind == KindText
}

// SQLValue maps the value to a database/sql argument: NULL, float64 or string.
func (v Value) SQLValue() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return strconv.Quote(v.text)
	default:
		return "null"
	}
}

// MarshalJSON encodes absent as null, numbers as numbers and text as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.SQLValue())
}

// Pack holds the readings of one battery pack.
type Pack struct {
	V         Value
	A         Value
	SOC       Value
	Temp      Value
	RemainAh  Value
	Imbalance Value
}

// Pylon holds the aggregate battery bank readings.
type Pylon struct {
	SOC       Value
	W         Value
	A         Value
	V         Value
	Temp      Value
	RemainAh  Value
	RemainKWh Value
}

// Inverter holds the inverter readings.
type Inverter struct {
	LoadW       Value
	LoadPercent Value
	GridW       Value
	GridV       Value
	PVW         Value
}

// TelemetryRecord is one poll of the MultiSIB live data page.
type TelemetryRecord struct {
	Timestamp time.Time
	P1        Pack
	P2        Pack
	P3        Pack
	Pylon     Pylon
	Inverter  Inverter
}

// NewTelemetryRecord returns a record with every measurement absent.
func NewTelemetryRecord(ts time.Time) TelemetryRecord {
	return TelemetryRecord{Timestamp: ts}
}

// Set assigns the field labelled key. It reports false for unknown keys.
func (r *TelemetryRecord) Set(key string, v Value) bool {
	f, ok := fieldsByKey[key]
	if !ok {
		return false
	}
	*f.ref(r) = v
	return true
}

// Get returns the field labelled key.
func (r *TelemetryRecord) Get(key string) (Value, bool) {
	f, ok := fieldsByKey[key]
	if !ok {
		return Value{}, false
	}
	return *f.ref(r), true
}

// Row returns the positional insert arguments in column order: the timestamp
// followed by every measurement.
func (r TelemetryRecord) Row() []any {
	row := make([]any, 0, ColumnCount)
	row = append(row, r.Timestamp)
	for _, f := range Fields {
		row = append(row, f.ref(&r).SQLValue())
	}
	return row
}

// MarshalJSON keys the record by column name.
func (r TelemetryRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, ColumnCount)
	out[TimestampColumn] = r.Timestamp
	for _, f := range Fields {
		out[f.Column] = *f.ref(&r)
	}
	return json.Marshal(out)
}
