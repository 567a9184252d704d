// Package na holds values that may be "not available", which is what a field
// becomes when the upstream payload omits it, nulls it, or sends something
// that cannot be cast to the field's type.
package na

import (
	"encoding/json"
	"strconv"
	"time"
)

// Text is how an unavailable value renders.
const Text = "NA"

var naJson = []byte(`"NA"`)

type Int struct {
	Value int64
	Valid bool
}

func IntOf(v int64) Int {
	return Int{Value: v, Valid: true}
}

// Or returns the value if available, def otherwise.
func (i Int) Or(def int64) int64 {
	if !i.Valid {
		return def
	}
	return i.Value
}

func (i Int) String() string {
	if !i.Valid {
		return Text
	}
	return strconv.FormatInt(i.Value, 10)
}

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return naJson, nil
	}
	return json.Marshal(i.Value)
}

type Float struct {
	Value float64
	Valid bool
}

func FloatOf(v float64) Float {
	return Float{Value: v, Valid: true}
}

func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

func (f Float) String() string {
	if !f.Valid {
		return Text
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return naJson, nil
	}
	return json.Marshal(f.Value)
}

// Time is a point in time that was sent as unix seconds.
type Time struct {
	Value time.Time
	Valid bool
}

func TimeOf(v time.Time) Time {
	return Time{Value: v, Valid: true}
}

func UnixOf(seconds int64) Time {
	return Time{Value: time.Unix(seconds, 0).UTC(), Valid: true}
}

func (t Time) String() string {
	if !t.Valid {
		return Text
	}
	return t.Value.Format(time.DateTime)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return naJson, nil
	}
	return json.Marshal(t.Value.Unix())
}
