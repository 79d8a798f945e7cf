package config

import (
	"testing"

	"github.com/theoremus-urban-solutions/pt-client/pt"
)

const sampleRegistry = `
client:
  userAgent: pt-client/1.0
  timeoutMS: 15000
networks:
  - name: avv
    kind: efa
    timezone: Europe/Berlin
    efa:
      baseURL: https://efa.avv-augsburg.de/avv/
    products: "IRSUTBFCP"
    splitStation: first-comma
  - name: bvg
    kind: hci
    timezone: Europe/Berlin
    hci:
      endpoint: https://bvg-apps-ext.hafas.de/bin/mgate.exe
      apiVersion: "1.18"
      apiClient: '{"id":"BVG","type":"AND"}'
    products: "SUIRBFTP-"
    splitStation: last-comma
    splitAddress: last-comma
`

func TestParseRegistry(t *testing.T) {
	cfg, err := Parse([]byte(sampleRegistry))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Networks) != 2 {
		t.Fatalf("got %d networks", len(cfg.Networks))
	}
	if cfg.Client.TimeoutMS != 15000 {
		t.Errorf("TimeoutMS = %d", cfg.Client.TimeoutMS)
	}

	avv := cfg.Networks[0]
	if avv.Kind != "efa" || avv.EFA.BaseURL == "" {
		t.Errorf("avv = %+v", avv)
	}

	table, err := avv.ModeTable()
	if err != nil {
		t.Fatal(err)
	}
	products, err := table.Products(3)
	if err != nil {
		t.Fatal(err)
	}
	if !products[pt.HighSpeedTrain] || !products[pt.RegionalTrain] {
		t.Errorf("Products(3) = %v", products)
	}
}

func TestParseSkipBits(t *testing.T) {
	cfg, err := Parse([]byte(sampleRegistry))
	if err != nil {
		t.Fatal(err)
	}
	table, err := cfg.Networks[1].ModeTable()
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 9 {
		t.Fatalf("table length = %d", len(table))
	}
	// last bit carries no product
	products, err := table.Products(1 << 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 0 {
		t.Errorf("skip bit decoded to %v", products)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `
networks:
  - name: x
    kind: gtfs
`,
		"missing name": `
networks:
  - kind: efa
`,
		"bad product code": `
networks:
  - name: x
    kind: efa
    products: "IZ"
`,
		"unknown split pattern": `
networks:
  - name: x
    kind: efa
    splitStation: regex
`,
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSelectNetwork(t *testing.T) {
	cfg, err := Parse([]byte(sampleRegistry))
	if err != nil {
		t.Fatal(err)
	}
	Config = *cfg

	n, err := SelectNetwork("bvg")
	if err != nil || n.Name != "bvg" {
		t.Errorf("SelectNetwork(bvg) = %v, %v", n.Name, err)
	}
	n, err = SelectNetwork("")
	if err != nil || n.Name != "avv" {
		t.Errorf("SelectNetwork() = %v, %v, want first entry", n.Name, err)
	}
	if _, err := SelectNetwork("nope"); err == nil {
		t.Error("unknown network must fail")
	}
}
