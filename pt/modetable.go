package pt

import "fmt"

// ModeTable maps a backend's transport-mode bitmask onto products. Index
// i corresponds to bit i; a nil-equivalent entry (ProductUnknown paired
// with Skip) marks a bit the network defines but the model does not
// carry.
type ModeTable []ModeEntry

// ModeEntry is one bit position of a network's mode table.
type ModeEntry struct {
	Product Product
	Skip    bool // bit is defined by the backend but carries no product
}

// Mode returns an entry carrying a product.
func Mode(p Product) ModeEntry { return ModeEntry{Product: p} }

// SkipMode returns an entry for a bit without a canonical product.
func SkipMode() ModeEntry { return ModeEntry{Skip: true} }

// ValueOutOfRangeError reports a bitmask exceeding the table's full mask.
type ValueOutOfRangeError struct {
	Value int
	Max   int
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("pt: mode bitmask %d exceeds table maximum %d", e.Value, e.Max)
}

// AmbiguousProductError reports a bitmask implying two different
// concrete products where one was requested.
type AmbiguousProductError struct {
	Value int
	A, B  Product
}

func (e *AmbiguousProductError) Error() string {
	return fmt.Sprintf("pt: ambiguous mode bitmask %d: %s vs %s", e.Value, e.A, e.B)
}

// ResidualBitsError reports bits left over after decoding. It indicates
// a defective mode table, not bad caller input.
type ResidualBitsError struct {
	Value    int
	Residual int
}

func (e *ResidualBitsError) Error() string {
	return fmt.Sprintf("pt: mode bitmask %d left residual bits %#x; mode table is inconsistent", e.Value, e.Residual)
}

// AllBits returns the full bitmask the table covers.
func (t ModeTable) AllBits() int {
	return (1 << len(t)) - 1
}

// Products decodes a bitmask into the set of products it carries.
func (t ModeTable) Products(value int) (map[Product]bool, error) {
	if value > t.AllBits() {
		return nil, &ValueOutOfRangeError{Value: value, Max: t.AllBits()}
	}
	products := make(map[Product]bool)
	rest := value
	for i := len(t) - 1; i >= 0; i-- {
		v := 1 << i
		if rest >= v {
			if !t[i].Skip {
				products[t[i].Product] = true
			}
			rest -= v
		}
	}
	if rest != 0 {
		return nil, &ResidualBitsError{Value: value, Residual: rest}
	}
	return products, nil
}

// Product decodes a bitmask expected to name a single product. Bus and
// on-demand bits may combine; the union resolves to OnDemand. Any other
// combination of two concrete products is an error.
func (t ModeTable) Product(value int) (Product, error) {
	if value > t.AllBits() {
		return ProductUnknown, &ValueOutOfRangeError{Value: value, Max: t.AllBits()}
	}
	product := ProductUnknown
	found := false
	rest := value
	for i := len(t) - 1; i >= 0; i-- {
		v := 1 << i
		if rest < v {
			continue
		}
		rest -= v
		if t[i].Skip {
			continue
		}
		p := t[i].Product
		switch {
		case !found:
			product, found = p, true
		case (product == OnDemand && p == Bus) || (product == Bus && p == OnDemand):
			product = OnDemand
		case p != product:
			return ProductUnknown, &AmbiguousProductError{Value: value, A: product, B: p}
		}
	}
	if rest != 0 {
		return ProductUnknown, &ResidualBitsError{Value: value, Residual: rest}
	}
	return product, nil
}

// Bitmask encodes a product set back into the table's bit positions.
func (t ModeTable) Bitmask(products map[Product]bool) int {
	value := 0
	for i, e := range t {
		if !e.Skip && products[e.Product] {
			value |= 1 << i
		}
	}
	return value
}

// FilterString renders the product filter as the '0'/'1' string the wire
// protocols expect, one character per bit position.
func (t ModeTable) FilterString(products map[Product]bool) string {
	buf := make([]byte, len(t))
	for i, e := range t {
		if !e.Skip && products[e.Product] {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
