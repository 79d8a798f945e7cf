package classifier

import (
	"errors"
	"testing"

	"github.com/theoremus-urban-solutions/pt-client/pt"
)

func TestClassifyRail(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		product pt.Product
		label   string
	}{
		{"ICE by type", Input{ModeCode: "0", TrainType: "ICE", TrainNum: "623"}, pt.HighSpeedTrain, "ICE623"},
		{"ICE by name", Input{ModeCode: "0", TrainName: "Intercity-Express", TrainNum: "623"}, pt.HighSpeedTrain, "ICE623"},
		{"EC by name", Input{ModeCode: "0", TrainName: "EuroCity", TrainNum: "8"}, pt.HighSpeedTrain, "EC8"},
		{"railjet without number", Input{ModeCode: "0", TrainType: "RJ"}, pt.HighSpeedTrain, "RJ"},
		{"nightjet", Input{ModeCode: "0", TrainType: "NJ", TrainNum: "40490"}, pt.HighSpeedTrain, "NJ40490"},
		{"flixtrain", Input{ModeCode: "0", TrainType: "FLX", TrainName: "FlixTrain", TrainNum: "10"}, pt.HighSpeedTrain, "FLX10"},
		{"regional express", Input{ModeCode: "0", TrainType: "RE", TrainNum: "4"}, pt.RegionalTrain, "RE4"},
		{"regional express pattern", Input{ModeCode: "0", TrainNum: "RE 7"}, pt.RegionalTrain, "RE 7"},
		{"RRX alias", Input{ModeCode: "0", TrainNum: "RE5 (RRX)"}, pt.RegionalTrain, "RE5"},
		{"regionalbahn", Input{ModeCode: "0", TrainType: "RB", TrainNum: "33"}, pt.RegionalTrain, "RB33"},
		{"metronom by long name", Input{ModeCode: "0", LongName: "metronom"}, pt.RegionalTrain, "ME"},
		{"metropolexpress symbol", Input{ModeCode: "0", Symbol: "MEX16"}, pt.RegionalTrain, "MEX16"},
		{"suburban by type", Input{ModeCode: "0", TrainType: "S", TrainNum: "2"}, pt.SuburbanTrain, "S2"},
		{"regiotram", Input{ModeCode: "0", TrainType: "RT", TrainNum: "4"}, pt.Tram, "RT4"},
		{"replacement bus", Input{ModeCode: "0", TrainType: "SEV", TrainNum: "10"}, pt.Bus, "SEV10"},
		{"replacement by name", Input{ModeCode: "0", TrainName: "Schienenersatzverkehr"}, pt.Bus, "SEV"},
		{"gondola", Input{ModeCode: "0", TrainType: "GB", TrainNum: "1"}, pt.CableCar, "GB1"},
		{"unidentified train", Input{ModeCode: "0", TrainName: "Zug", Symbol: "IGS"}, pt.ProductUnknown, "IGS"},
		{"bare name fallback", Input{ModeCode: "0", TrainName: "Ruhrtalbahn"}, pt.ProductUnknown, "Ruhrtalbahn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got.Product != tt.product || got.Label != tt.label {
				t.Errorf("Classify() = (%v, %q), want (%v, %q)", got.Product, got.Label, tt.product, tt.label)
			}
		})
	}
}

func TestClassifyRailRuleOrder(t *testing.T) {
	// a type match must win over the generic train-name fallback
	got, err := Classify(Input{ModeCode: "0", TrainType: "IC", TrainName: "InterCity", TrainNum: "2312"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Product != pt.HighSpeedTrain || got.Label != "IC2312" {
		t.Errorf("Classify() = (%v, %q), want (HIGH_SPEED_TRAIN, IC2312)", got.Product, got.Label)
	}
}

func TestClassifyCoarseModes(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		product pt.Product
		label   string
	}{
		{"suburban", Input{ModeCode: "1", Symbol: "S1"}, pt.SuburbanTrain, "S1"},
		{"suburban db label", Input{ModeCode: "1", Symbol: "S1 (DB Regio AG)", Name: "S1 (DB Regio AG)"}, pt.SuburbanTrain, "S1"},
		{"suburban rex exception", Input{ModeCode: "1", TrainType: "REX", TrainNum: "3"}, pt.RegionalTrain, "REX3"},
		{"subway", Input{ModeCode: "2", Name: "U2"}, pt.Subway, "U2"},
		{"tram", Input{ModeCode: "4", Name: "302"}, pt.Tram, "302"},
		{"city bus", Input{ModeCode: "5", Name: "100"}, pt.Bus, "100"},
		{"bus replacement name", Input{ModeCode: "6", Name: "Schienenersatzverkehr"}, pt.Bus, "SEV"},
		{"cablecar", Input{ModeCode: "8", Name: "Schwebebahn"}, pt.CableCar, "Schwebebahn"},
		{"ferry", Input{ModeCode: "9", Name: "F61"}, pt.Ferry, "F61"},
		{"on demand", Input{ModeCode: "10", Name: "AST 42"}, pt.OnDemand, "AST 42"},
		{"unknown prefers symbol", Input{ModeCode: "11", Symbol: "X1", Name: "long name"}, pt.ProductUnknown, "X1"},
		{"school bus", Input{ModeCode: "12", TrainName: "Schulbus", Symbol: "501"}, pt.Bus, "501"},
		{"foreign regional", Input{ModeCode: "13", TrainType: "RE", TrainNum: "12"}, pt.RegionalTrain, "RE12"},
		{"long distance misc", Input{ModeCode: "15", TrainType: "EC", TrainNum: "99"}, pt.HighSpeedTrain, "EC99"},
		{"replacement service", Input{ModeCode: "17", TrainName: "Schienenersatzverkehr"}, pt.Bus, "SEV"},
		{"rail shuttle", Input{ModeCode: "18", Name: "Shuttle"}, pt.RegionalTrain, "Shuttle"},
		{"community bus", Input{ModeCode: "19", TrainName: "Bürgerbus", Symbol: "BB1"}, pt.Bus, "BB1"},
		{"bare mode S-Bahn", Input{TrainName: "S-Bahn", Name: "S8"}, pt.SuburbanTrain, "S8"},
		{"bare mode city bus", Input{TrainName: "Stadtbus", Name: "47"}, pt.Bus, "47"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got.Product != tt.product || got.Label != tt.label {
				t.Errorf("Classify() = (%v, %q), want (%v, %q)", got.Product, got.Label, tt.product, tt.label)
			}
		})
	}
}

func TestClassifyUnclassifiable(t *testing.T) {
	in := Input{ModeCode: "0", TrainType: "QQQ", TrainNum: "1", TrainName: "Mystery Express"}
	_, err := Classify(in)
	var unclassifiable *UnclassifiableError
	if !errors.As(err, &unclassifiable) {
		t.Fatalf("err = %v, want UnclassifiableError", err)
	}
	if unclassifiable.Input != in {
		t.Error("error must carry the full input tuple")
	}

	if _, err := Classify(Input{ModeCode: "99"}); err == nil {
		t.Error("unknown mode code must fail")
	}
	if _, err := Classify(Input{TrainName: "No Such Service"}); err == nil {
		t.Error("unknown bare train name must fail")
	}
}

func TestClassifyIsPure(t *testing.T) {
	in := Input{ID: "x", Network: "ding", ModeCode: "0", TrainType: "ICE", TrainNum: "623"}
	a, err := Classify(in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Classify(in)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) || a.ID != b.ID {
		t.Error("repeated classification must yield identical lines")
	}
}
