package pt

import (
	"errors"
	"testing"
)

func testTable() ModeTable {
	return ModeTable{
		Mode(Subway),
		Mode(SuburbanTrain),
		Mode(Bus),
		Mode(Tram),
	}
}

func TestModeTableProducts(t *testing.T) {
	table := testTable()

	// bits 0 and 2
	products, err := table.Products(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 || !products[Subway] || !products[Bus] {
		t.Errorf("Products(5) = %v, want {SUBWAY, BUS}", products)
	}

	products, err = table.Products(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 0 {
		t.Errorf("Products(0) = %v, want empty", products)
	}
}

func TestModeTableProductsOutOfRange(t *testing.T) {
	table := testTable()
	_, err := table.Products(16)
	var oor *ValueOutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("Products(16) err = %v, want ValueOutOfRangeError", err)
	}
	if oor.Max != 15 {
		t.Errorf("Max = %d, want 15", oor.Max)
	}
}

func TestModeTableSingleProduct(t *testing.T) {
	table := testTable()

	p, err := table.Product(2)
	if err != nil || p != SuburbanTrain {
		t.Errorf("Product(2) = %v, %v", p, err)
	}

	// conflicting concrete products
	_, err = table.Product(3)
	var amb *AmbiguousProductError
	if !errors.As(err, &amb) {
		t.Errorf("Product(3) err = %v, want AmbiguousProductError", err)
	}
}

func TestModeTableBusOnDemandMerge(t *testing.T) {
	table := ModeTable{Mode(Bus), Mode(OnDemand)}

	// both orders of discovery resolve to ON_DEMAND
	for _, value := range []int{3} {
		p, err := table.Product(value)
		if err != nil {
			t.Fatalf("Product(%d): %v", value, err)
		}
		if p != OnDemand {
			t.Errorf("Product(%d) = %v, want ON_DEMAND", value, p)
		}
	}

	reversed := ModeTable{Mode(OnDemand), Mode(Bus)}
	p, err := reversed.Product(3)
	if err != nil || p != OnDemand {
		t.Errorf("reversed Product(3) = %v, %v, want ON_DEMAND", p, err)
	}
}

func TestModeTableRoundTrip(t *testing.T) {
	table := ModeTable{
		Mode(HighSpeedTrain),
		Mode(RegionalTrain),
		Mode(SuburbanTrain),
		Mode(Subway),
		Mode(Tram),
		Mode(Bus),
		Mode(Ferry),
		Mode(CableCar),
	}
	for value := 0; value <= table.AllBits(); value++ {
		products, err := table.Products(value)
		if err != nil {
			t.Fatalf("Products(%d): %v", value, err)
		}
		if got := table.Bitmask(products); got != value {
			t.Errorf("round-trip %d -> %v -> %d", value, products, got)
		}
	}
}

func TestModeTableSkipEntries(t *testing.T) {
	table := ModeTable{Mode(Bus), SkipMode(), Mode(Tram)}

	products, err := table.Products(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 || !products[Bus] || !products[Tram] {
		t.Errorf("Products(7) = %v", products)
	}
	if got := table.FilterString(map[Product]bool{Tram: true}); got != "001" {
		t.Errorf("FilterString = %q, want 001", got)
	}
}
