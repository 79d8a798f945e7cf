package pt

import "fmt"

// Product is a canonical transport mode. The synthetic products from
// Footway down are only used internally while assembling trips and never
// appear on a finished public leg.
type Product int

const (
	ProductUnknown Product = iota
	HighSpeedTrain
	RegionalTrain
	SuburbanTrain
	Subway
	Tram
	Bus
	Ferry
	CableCar
	OnDemand

	// synthetic pseudo-products
	Footway
	Transfer
	SecureConnection
	DoNotChange
)

var productCodes = map[Product]byte{
	HighSpeedTrain:   'I',
	RegionalTrain:    'R',
	SuburbanTrain:    'S',
	Subway:           'U',
	Tram:             'T',
	Bus:              'B',
	Ferry:            'F',
	CableCar:         'C',
	OnDemand:         'P',
	Footway:          'W',
	SecureConnection: 'E',
	DoNotChange:      'D',
	ProductUnknown:   '?',
}

var productNames = map[Product]string{
	ProductUnknown:   "UNKNOWN",
	HighSpeedTrain:   "HIGH_SPEED_TRAIN",
	RegionalTrain:    "REGIONAL_TRAIN",
	SuburbanTrain:    "SUBURBAN_TRAIN",
	Subway:           "SUBWAY",
	Tram:             "TRAM",
	Bus:              "BUS",
	Ferry:            "FERRY",
	CableCar:         "CABLE_CAR",
	OnDemand:         "ON_DEMAND",
	Footway:          "FOOTWAY",
	Transfer:         "TRANSFER",
	SecureConnection: "SECURE_CONNECTION",
	DoNotChange:      "DO_NOT_CHANGE",
}

func (p Product) String() string {
	if s, ok := productNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Product(%d)", int(p))
}

// Code returns the single-character wire code of the product. Transfer
// shares 'T' with Tram upstream, so it has no distinct code and maps to
// '?' here.
func (p Product) Code() byte {
	if c, ok := productCodes[p]; ok {
		return c
	}
	return '?'
}

// ProductFromCode resolves a single-character product code.
func ProductFromCode(c byte) (Product, error) {
	for p, pc := range productCodes {
		if pc == c {
			return p, nil
		}
	}
	return ProductUnknown, fmt.Errorf("pt: unknown product code %q", string(c))
}

// ProductsFromCodes resolves a code string such as "IRSUBT" into a set.
func ProductsFromCodes(codes string) (map[Product]bool, error) {
	set := make(map[Product]bool, len(codes))
	for i := 0; i < len(codes); i++ {
		p, err := ProductFromCode(codes[i])
		if err != nil {
			return nil, err
		}
		set[p] = true
	}
	return set, nil
}

// AllProducts is the set of concrete products a caller may filter on.
func AllProducts() map[Product]bool {
	return map[Product]bool{
		HighSpeedTrain: true,
		RegionalTrain:  true,
		SuburbanTrain:  true,
		Subway:         true,
		Tram:           true,
		Bus:            true,
		Ferry:          true,
		CableCar:       true,
		OnDemand:       true,
	}
}
