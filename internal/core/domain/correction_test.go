package domain

import (
	"encoding/json"
	"testing"
)

func TestValueEqual(t *testing.T) {
	if !NullValue().Equal(Value{}) {
		t.Fatalf("zero value should equal null")
	}
	if !StringValue("a").Equal(StringValue("a")) {
		t.Fatalf("equal strings")
	}
	if StringValue("1").Equal(NumberValue(1)) {
		t.Fatalf("kinds must match")
	}
	if !NumberValue(0.1 + 0.2).Equal(NumberValue(0.3)) {
		t.Fatalf("numbers should compare with tolerance")
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		From Value `json:"from"`
		To   Value `json:"to"`
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"from":null,"to":"2024-01-01"}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !w.From.IsNull() || w.To.Str != "2024-01-01" {
		t.Fatalf("unexpected values: %+v", w)
	}

	out, err := json.Marshal(wrapper{From: NumberValue(19), To: NullValue()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"from":19,"to":null}` {
		t.Fatalf("marshal output = %s", out)
	}
}

func TestReinforceCapsAtOne(t *testing.T) {
	if got := Reinforce(0.6); got != 0.65 {
		t.Fatalf("Reinforce(0.6) = %v", got)
	}
	if got := Reinforce(0.98); got != 1.0 {
		t.Fatalf("Reinforce(0.98) = %v", got)
	}
	if got := Reinforce(1.0); got != 1.0 {
		t.Fatalf("Reinforce(1.0) = %v", got)
	}
}
