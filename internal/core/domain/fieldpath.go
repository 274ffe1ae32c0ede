package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Top-level field names as they appear in correction paths and learned
// rules. Line-item sub-fields are addressed as lineItems[<i>].<sub>.
const (
	FieldInvoiceNumber = "invoiceNumber"
	FieldInvoiceDate   = "invoiceDate"
	FieldServiceDate   = "serviceDate"
	FieldCurrency      = "currency"
	FieldPONumber      = "poNumber"
	FieldNetTotal      = "netTotal"
	FieldTaxTotal      = "taxTotal"
	FieldGrossTotal    = "grossTotal"
	FieldTaxRate       = "taxRate"
	FieldDiscountTerms = "discountTerms"
)

// FieldPath is the parsed form of a correction field path such as
// "serviceDate" or "lineItems[2].sku". LineItem is -1 for top-level paths.
type FieldPath struct {
	Field    string
	LineItem int
	Sub      string
}

var lineItemPathRe = regexp.MustCompile(`^lineItems\[(\d+)\]\.(\w+)$`)

func ParseFieldPath(path string) (FieldPath, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return FieldPath{}, fmt.Errorf("empty field path")
	}
	if m := lineItemPathRe.FindStringSubmatch(path); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return FieldPath{}, fmt.Errorf("parse line item index %q: %w", m[1], err)
		}
		return FieldPath{Field: "lineItems", LineItem: idx, Sub: m[2]}, nil
	}
	if strings.ContainsAny(path, "[].") {
		return FieldPath{}, fmt.Errorf("malformed field path %q", path)
	}
	return FieldPath{Field: path, LineItem: -1}, nil
}

func (p FieldPath) IsLineItem() bool { return p.LineItem >= 0 }

// IsLineItemSKU reports whether the path addresses a line item's SKU,
// the only line-item target static corrections are learned for.
func (p FieldPath) IsLineItemSKU() bool { return p.IsLineItem() && p.Sub == "sku" }

func (p FieldPath) String() string {
	if p.IsLineItem() {
		return fmt.Sprintf("lineItems[%d].%s", p.LineItem, p.Sub)
	}
	return p.Field
}

// Get resolves the path against the fields. Unknown paths and
// out-of-range indices resolve to null.
func (p FieldPath) Get(f *InvoiceFields) Value {
	if p.IsLineItem() {
		if p.LineItem >= len(f.LineItems) {
			return NullValue()
		}
		item := f.LineItems[p.LineItem]
		switch p.Sub {
		case "sku":
			return stringOrNull(item.SKU)
		case "description":
			return stringOrNull(item.Description)
		case "quantity":
			return NumberValue(item.Quantity)
		case "unitPrice":
			return NumberValue(item.UnitPrice)
		default:
			return NullValue()
		}
	}

	switch p.Field {
	case FieldInvoiceNumber:
		return stringOrNull(f.InvoiceNumber)
	case FieldInvoiceDate:
		return stringOrNull(f.InvoiceDate)
	case FieldServiceDate:
		return stringOrNull(f.ServiceDate)
	case FieldCurrency:
		return stringOrNull(f.Currency)
	case FieldPONumber:
		return stringOrNull(f.PONumber)
	case FieldNetTotal:
		return NumberValue(f.NetTotal)
	case FieldTaxTotal:
		return NumberValue(f.TaxTotal)
	case FieldGrossTotal:
		return NumberValue(f.GrossTotal)
	case FieldTaxRate:
		return NumberValue(f.TaxRate)
	case FieldDiscountTerms:
		return stringOrNull(f.DiscountTerms)
	default:
		return NullValue()
	}
}

// Set writes the value at the path. Numeric fields accept number values
// or numeric strings; string fields take the value's text form.
func (p FieldPath) Set(f *InvoiceFields, v Value) error {
	if p.IsLineItem() {
		if p.LineItem >= len(f.LineItems) {
			return fmt.Errorf("line item index %d out of range (%d items)", p.LineItem, len(f.LineItems))
		}
		item := &f.LineItems[p.LineItem]
		switch p.Sub {
		case "sku":
			item.SKU = v.Text()
		case "description":
			item.Description = v.Text()
		case "quantity":
			n, err := v.asNumber()
			if err != nil {
				return fmt.Errorf("set %s: %w", p, err)
			}
			item.Quantity = n
		case "unitPrice":
			n, err := v.asNumber()
			if err != nil {
				return fmt.Errorf("set %s: %w", p, err)
			}
			item.UnitPrice = n
		default:
			return fmt.Errorf("unknown line item field %q", p.Sub)
		}
		return nil
	}

	switch p.Field {
	case FieldInvoiceNumber:
		f.InvoiceNumber = v.Text()
	case FieldInvoiceDate:
		f.InvoiceDate = v.Text()
	case FieldServiceDate:
		f.ServiceDate = v.Text()
	case FieldCurrency:
		f.Currency = v.Text()
	case FieldPONumber:
		f.PONumber = v.Text()
	case FieldDiscountTerms:
		f.DiscountTerms = v.Text()
	case FieldNetTotal, FieldTaxTotal, FieldGrossTotal, FieldTaxRate:
		n, err := v.asNumber()
		if err != nil {
			return fmt.Errorf("set %s: %w", p.Field, err)
		}
		switch p.Field {
		case FieldNetTotal:
			f.NetTotal = n
		case FieldTaxTotal:
			f.TaxTotal = n
		case FieldGrossTotal:
			f.GrossTotal = n
		case FieldTaxRate:
			f.TaxRate = n
		}
	default:
		return fmt.Errorf("unknown field %q", p.Field)
	}
	return nil
}

func (v Value) asNumber() (float64, error) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindString:
		n, err := strconv.ParseFloat(strings.ReplaceAll(v.Str, ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v.Str)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("null value is not numeric")
	}
}

func stringOrNull(s string) Value {
	if s == "" {
		return NullValue()
	}
	return StringValue(s)
}
