// Package dataset loads credit-card transaction files and partitions them for training.
//
// A file has 31 positional columns: Time, V1..V28, Amount and Class. Column names in a
// header row are ignored; only the field count is checked. Class is kept as the raw
// token from the file, so with quoting disabled (the default) a quoted "1" keeps its
// quote characters.
package dataset

import "strconv"

// NumColumns is the number of fields every row must have.
const NumColumns = 31

// NumComponents is the number of anonymized V columns.
const NumComponents = 28

// DefaultFraudLabelToken is the Class token that marks a fraudulent transaction. It is
// the three characters "1" including the double quotes, as they appear in the
// published dataset when fields are split without quote processing.
const DefaultFraudLabelToken = `"1"`

// Record is one transaction row.
type Record struct {
	Time   float64 `csv:"Time"`
	V1     float64 `csv:"V1"`
	V2     float64 `csv:"V2"`
	V3     float64 `csv:"V3"`
	V4     float64 `csv:"V4"`
	V5     float64 `csv:"V5"`
	V6     float64 `csv:"V6"`
	V7     float64 `csv:"V7"`
	V8     float64 `csv:"V8"`
	V9     float64 `csv:"V9"`
	V10    float64 `csv:"V10"`
	V11    float64 `csv:"V11"`
	V12    float64 `csv:"V12"`
	V13    float64 `csv:"V13"`
	V14    float64 `csv:"V14"`
	V15    float64 `csv:"V15"`
	V16    float64 `csv:"V16"`
	V17    float64 `csv:"V17"`
	V18    float64 `csv:"V18"`
	V19    float64 `csv:"V19"`
	V20    float64 `csv:"V20"`
	V21    float64 `csv:"V21"`
	V22    float64 `csv:"V22"`
	V23    float64 `csv:"V23"`
	V24    float64 `csv:"V24"`
	V25    float64 `csv:"V25"`
	V26    float64 `csv:"V26"`
	V27    float64 `csv:"V27"`
	V28    float64 `csv:"V28"`
	Amount float64 `csv:"Amount"`
	Class  string  `csv:"Class"`

	// Line is the 1-based line of the row in its source, 0 when built in memory.
	Line int `csv:"-"`
}

// Components returns V1..V28 in column order.
func (r *Record) Components() [NumComponents]float64 {
	return [NumComponents]float64{
		r.V1, r.V2, r.V3, r.V4, r.V5, r.V6, r.V7,
		r.V8, r.V9, r.V10, r.V11, r.V12, r.V13, r.V14,
		r.V15, r.V16, r.V17, r.V18, r.V19, r.V20, r.V21,
		r.V22, r.V23, r.V24, r.V25, r.V26, r.V27, r.V28,
	}
}

// SetComponents assigns V1..V28 from v.
func (r *Record) SetComponents(v [NumComponents]float64) {
	r.V1, r.V2, r.V3, r.V4, r.V5, r.V6, r.V7 = v[0], v[1], v[2], v[3], v[4], v[5], v[6]
	r.V8, r.V9, r.V10, r.V11, r.V12, r.V13, r.V14 = v[7], v[8], v[9], v[10], v[11], v[12], v[13]
	r.V15, r.V16, r.V17, r.V18, r.V19, r.V20, r.V21 = v[14], v[15], v[16], v[17], v[18], v[19], v[20]
	r.V22, r.V23, r.V24, r.V25, r.V26, r.V27, r.V28 = v[21], v[22], v[23], v[24], v[25], v[26], v[27]
}

// ColumnNames returns the canonical column names in file order.
func ColumnNames() []string {
	names := make([]string, 0, NumColumns)
	names = append(names, "Time")
	for i := 1; i <= NumComponents; i++ {
		names = append(names, componentName(i))
	}
	return append(names, "Amount", "Class")
}

// ComponentNames returns "V1".."V28".
func ComponentNames() []string {
	names := make([]string, NumComponents)
	for i := range names {
		names[i] = componentName(i + 1)
	}
	return names
}

func componentName(i int) string {
	return "V" + strconv.Itoa(i)
}

// Dataset is an ordered set of records.
type Dataset struct {
	Records []Record
	Source  string // file path, empty for in-memory input
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Positives counts the records whose Class equals token.
func (d *Dataset) Positives(token string) int {
	n := 0
	for i := range d.Records {
		if d.Records[i].Class == token {
			n++
		}
	}
	return n
}
