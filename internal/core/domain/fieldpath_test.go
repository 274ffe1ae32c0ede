package domain

import "testing"

func TestParseFieldPathTopLevel(t *testing.T) {
	p, err := ParseFieldPath("serviceDate")
	if err != nil {
		t.Fatalf("ParseFieldPath() error = %v", err)
	}
	if p.IsLineItem() || p.Field != FieldServiceDate {
		t.Fatalf("unexpected path: %+v", p)
	}
}

func TestParseFieldPathLineItem(t *testing.T) {
	p, err := ParseFieldPath("lineItems[2].sku")
	if err != nil {
		t.Fatalf("ParseFieldPath() error = %v", err)
	}
	if !p.IsLineItemSKU() || p.LineItem != 2 {
		t.Fatalf("unexpected path: %+v", p)
	}
	if p.String() != "lineItems[2].sku" {
		t.Fatalf("String() = %q", p.String())
	}
}

func TestParseFieldPathRejectsMalformed(t *testing.T) {
	for _, path := range []string{"", "lineItems[x].sku", "lineItems[1]", "a.b"} {
		if _, err := ParseFieldPath(path); err == nil {
			t.Fatalf("expected error for %q", path)
		}
	}
}

func TestFieldPathGetSetRoundTrip(t *testing.T) {
	fields := InvoiceFields{
		LineItems: []LineItem{{Description: "Seefracht", Quantity: 2, UnitPrice: 10.5}},
	}

	p, _ := ParseFieldPath("lineItems[0].sku")
	if got := p.Get(&fields); !got.IsNull() {
		t.Fatalf("expected null SKU, got %+v", got)
	}
	if err := p.Set(&fields, StringValue("FREIGHT")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if fields.LineItems[0].SKU != "FREIGHT" {
		t.Fatalf("SKU = %q", fields.LineItems[0].SKU)
	}

	net, _ := ParseFieldPath(FieldNetTotal)
	if err := net.Set(&fields, StringValue("100.00")); err != nil {
		t.Fatalf("Set(netTotal) error = %v", err)
	}
	if fields.NetTotal != 100.0 {
		t.Fatalf("NetTotal = %v", fields.NetTotal)
	}
}

func TestFieldPathSetOutOfRange(t *testing.T) {
	fields := InvoiceFields{}
	p, _ := ParseFieldPath("lineItems[3].sku")
	if err := p.Set(&fields, StringValue("X")); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := InvoiceFields{LineItems: []LineItem{{SKU: "A"}}}
	clone := orig.Clone()
	clone.LineItems[0].SKU = "B"
	if orig.LineItems[0].SKU != "A" {
		t.Fatalf("clone mutated original")
	}
}
