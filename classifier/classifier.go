// Package classifier turns the raw line fields a backend reports into a
// canonical product and label. Classification is a pure function over an
// ordered first-match rule table; an input no rule accepts is an error
// carrying every raw field, so the table can be extended for the newly
// observed combination instead of guessing.
package classifier

import (
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/pt-client/pt"
)

// Input is the raw field tuple describing one line. Empty strings mean
// the backend omitted the field.
type Input struct {
	ID       string
	Network  string
	ModeCode string
	Symbol   string
	Name     string
	LongName string

	TrainType string
	TrainNum  string
	TrainName string
}

// UnclassifiableError reports an input tuple no rule accepts.
type UnclassifiableError struct {
	Input Input
}

func (e *UnclassifiableError) Error() string {
	in := e.Input
	return fmt.Sprintf(
		"classifier: cannot normalize mode=%q symbol=%q name=%q long=%q trainType=%q trainNum=%q trainName=%q",
		in.ModeCode, in.Symbol, in.Name, in.LongName, in.TrainType, in.TrainNum, in.TrainName)
}

// Classify resolves a raw field tuple to a line. Rules are evaluated in
// table order, first match wins.
func Classify(in Input) (pt.Line, error) {
	switch in.ModeCode {
	case "":
		if product, ok := bareNameProducts[in.TrainName]; ok {
			return line(in, product, in.Name), nil
		}

	case "0": // rail
		for i := range railRules {
			if railRules[i].when(&in) {
				return line(in, railRules[i].product, railRules[i].label(&in)), nil
			}
		}

	case "1": // suburban rail
		return classifySuburban(in), nil

	case "2":
		return line(in, pt.Subway, in.Name), nil

	case "3", "4":
		return line(in, pt.Tram, in.Name), nil

	case "5", "6", "7":
		if in.Name == "Schienenersatzverkehr" {
			return line(in, pt.Bus, "SEV"), nil
		}
		return line(in, pt.Bus, in.Name), nil

	case "8":
		return line(in, pt.CableCar, in.Name), nil

	case "9":
		return line(in, pt.Ferry, in.Name), nil

	case "10":
		return line(in, pt.OnDemand, in.Name), nil

	case "11":
		if in.Symbol != "" {
			return line(in, pt.ProductUnknown, in.Symbol), nil
		}
		return line(in, pt.ProductUnknown, in.Name), nil

	case "12": // school service
		if in.TrainName == "Schulbus" && in.Symbol != "" {
			return line(in, pt.Bus, in.Symbol), nil
		}

	case "13": // regional service run by a foreign operator
		if (in.TrainName == "SEV" || in.TrainName == "Ersatzverkehr") && in.TrainType == "" {
			return line(in, pt.Bus, "SEV"), nil
		}
		if in.TrainNum != "" {
			return line(in, pt.RegionalTrain, in.TrainType+in.TrainNum), nil
		}
		return line(in, pt.RegionalTrain, in.Name), nil

	case "14", "15", "16": // long-distance service
		if in.TrainType != "" || in.TrainNum != "" {
			return line(in, pt.HighSpeedTrain, in.TrainType+in.TrainNum), nil
		}
		return line(in, pt.HighSpeedTrain, in.Name), nil

	case "17": // rail replacement service
		if in.TrainNum == "" && strings.HasPrefix(in.TrainName, "Schienenersatz") {
			return line(in, pt.Bus, "SEV"), nil
		}
		return line(in, pt.Bus, in.Name), nil

	case "18": // rail shuttle
		return line(in, pt.RegionalTrain, in.Name), nil

	case "19": // community bus
		if (in.TrainName == "Bürgerbus" || in.TrainName == "BürgerBus" || in.TrainName == "Kleinbus") && in.Symbol != "" {
			return line(in, pt.Bus, in.Symbol), nil
		}
		return line(in, pt.Bus, in.Name), nil
	}

	return pt.Line{}, &UnclassifiableError{Input: in}
}

func classifySuburban(in Input) pt.Line {
	if in.Symbol != "" && in.Symbol != in.Name {
		return line(in, pt.SuburbanTrain, in.Symbol)
	}
	if in.Symbol != "" && in.Symbol == in.Name {
		if m := reLineSDB.FindStringSubmatch(in.Symbol); m != nil {
			return line(in, pt.SuburbanTrain, m[1])
		}
		return line(in, pt.SuburbanTrain, in.Symbol)
	}
	if in.Name != "" && reLineS.MatchString(in.Name) {
		return line(in, pt.SuburbanTrain, in.Name)
	}
	if in.TrainName == "S-Bahn" {
		return line(in, pt.SuburbanTrain, "S"+in.TrainNum)
	}
	if in.TrainType == "REX" {
		return line(in, pt.RegionalTrain, "REX"+in.TrainNum)
	}
	return line(in, pt.SuburbanTrain, in.Name)
}

func line(in Input, product pt.Product, label string) pt.Line {
	return pt.Line{ID: in.ID, Network: in.Network, Product: product, Label: label}
}
