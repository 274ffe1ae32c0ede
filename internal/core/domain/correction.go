package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type ValueKind string

const (
	KindNull   ValueKind = "null"
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
)

// Value is the tagged union used for correction targets: a field value is
// either absent, a string, or a number. Keeping the tag explicit lets the
// engine compare and serialize values without reflection on interface{}.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

func NullValue() Value            { return Value{Kind: KindNull} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

func (v Value) IsNull() bool { return v.Kind == KindNull || v.Kind == "" }

// IsEmpty reports whether the value is null or an empty string, the
// condition under which learned patterns may fill a field.
func (v Value) IsEmpty() bool {
	return v.IsNull() || (v.Kind == KindString && v.Str == "")
}

func (v Value) Equal(other Value) bool {
	if v.IsNull() && other.IsNull() {
		return true
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindNumber:
		return math.Abs(v.Num-other.Num) < 1e-9
	default:
		return true
	}
}

// Text is the representation searched for in raw document text and used
// in audit output.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = NullValue()
	case string:
		*v = StringValue(t)
	case float64:
		*v = NumberValue(t)
	default:
		return fmt.Errorf("unsupported correction value type %T", raw)
	}
	return nil
}

// Correction is one field-level change, either proposed by the engine
// during process or made by a human operator.
type Correction struct {
	Field  string `json:"field"`
	From   Value  `json:"from"`
	To     Value  `json:"to"`
	Reason string `json:"reason"`
}

type FinalDecision string

const (
	DecisionApproved FinalDecision = "approved"
	DecisionRejected FinalDecision = "rejected"
)

// HumanCorrectionLog is the operator feedback for one invoice. Rejected
// logs contribute nothing to vendor memory.
type HumanCorrectionLog struct {
	InvoiceID     string        `json:"invoice_id"`
	Corrections   []Correction  `json:"corrections"`
	FinalDecision FinalDecision `json:"final_decision"`
}
