package classifier

import (
	"regexp"
	"strings"

	"github.com/theoremus-urban-solutions/pt-client/pt"
)

// rule is one entry of the ordered rail rule table. The first rule whose
// predicate accepts the input wins.
type rule struct {
	product pt.Product
	when    func(*Input) bool
	label   func(*Input) string
}

var (
	reLineRE     = regexp.MustCompile(`^RE ?\d+[ab]?$`)
	reLineRB     = regexp.MustCompile(`^RB ?\d+[abc]?$`)
	reLineR      = regexp.MustCompile(`^R ?\d+$`)
	reLineIRE    = regexp.MustCompile(`^IRE\d+[ab]?$`)
	reLineMEX    = regexp.MustCompile(`^ME?X ?\d+[abc]?$`)
	reLineS      = regexp.MustCompile(`^S ?\d+$`)
	reLineSDB    = regexp.MustCompile(`^(S\d+) \(DB Regio AG\)$`)
	reLineNumber = regexp.MustCompile(`^\d+$`)
)

// predicate helpers

func typeIs(types ...string) func(*Input) bool {
	return func(in *Input) bool {
		for _, t := range types {
			if in.TrainType == t {
				return true
			}
		}
		return false
	}
}

func nameIs(names ...string) func(*Input) bool {
	return func(in *Input) bool {
		for _, n := range names {
			if in.TrainName == n {
				return true
			}
		}
		return false
	}
}

// typeOrName matches the common rule shape: a train-type code or one of
// its spelled-out operator names.
func typeOrName(trainType string, names ...string) func(*Input) bool {
	t := typeIs(trainType)
	n := nameIs(names...)
	return func(in *Input) bool { return t(in) || n(in) }
}

func numIs(nums ...string) func(*Input) bool {
	return func(in *Input) bool {
		for _, n := range nums {
			if in.TrainNum == n {
				return true
			}
		}
		return false
	}
}

func longNameIs(s string) func(*Input) bool {
	return func(in *Input) bool { return in.LongName == s }
}

func hasNum(in *Input) bool   { return in.TrainNum != "" }
func noNum(in *Input) bool    { return in.TrainNum == "" }
func noType(in *Input) bool   { return in.TrainType == "" }
func noName(in *Input) bool   { return in.TrainName == "" }
func noSymbol(in *Input) bool { return in.Symbol == "" }

func all(preds ...func(*Input) bool) func(*Input) bool {
	return func(in *Input) bool {
		for _, p := range preds {
			if !p(in) {
				return false
			}
		}
		return true
	}
}

func numMatches(re *regexp.Regexp) func(*Input) bool {
	return func(in *Input) bool { return in.TrainNum != "" && re.MatchString(in.TrainNum) }
}

// label helpers

func prefixNum(prefix string) func(*Input) string {
	return func(in *Input) string { return prefix + in.TrainNum }
}

func symbol(in *Input) string { return in.Symbol }
func num(in *Input) string    { return in.TrainNum }

func lit(s string) func(*Input) string {
	return func(*Input) string { return s }
}

// bareNameProducts classifies inputs carrying no mode code at all, by
// exact train name. The label is the plain name field.
var bareNameProducts = map[string]pt.Product{
	"S-Bahn":               pt.SuburbanTrain,
	"U-Bahn":               pt.Subway,
	"Straßenbahn":          pt.Tram,
	"Badner Bahn":          pt.Tram,
	"Stadtbus":             pt.Bus,
	"Citybus":              pt.Bus,
	"Regionalbus":          pt.Bus,
	"ÖBB-Postbus":          pt.Bus,
	"Autobus":              pt.Bus,
	"Discobus":             pt.Bus,
	"Nachtbus":             pt.Bus,
	"Anrufsammeltaxi":      pt.Bus,
	"Ersatzverkehr":        pt.Bus,
	"Vienna Airport Lines": pt.Bus,
}

// railRules is the ordered rule table for the rail mode code. It
// accumulates operator and brand patterns observed on live backends;
// extend it when a new combination surfaces as an UnclassifiableError.
var railRules = []rule{
	// long-distance and high-speed brands
	{pt.HighSpeedTrain, all(typeOrName("EC", "EuroCity", "Eurocity"), hasNum), prefixNum("EC")},
	{pt.HighSpeedTrain, all(typeOrName("ECE", "Eurocity-Express"), hasNum), prefixNum("ECE")},
	{pt.HighSpeedTrain, all(typeOrName("EN", "EuroNight"), hasNum), prefixNum("EN")},
	{pt.HighSpeedTrain, all(typeOrName("IC", "IC", "InterCity"), hasNum), prefixNum("IC")},
	{pt.HighSpeedTrain, all(numIs("IC21", "IC40"), noName), num},
	{pt.HighSpeedTrain, all(typeOrName("ICE", "ICE", "Intercity-Express"), hasNum), prefixNum("ICE")},
	{pt.HighSpeedTrain, all(typeOrName("ICN", "InterCityNight"), hasNum), prefixNum("ICN")},
	{pt.HighSpeedTrain, all(typeOrName("X", "InterConnex"), hasNum), prefixNum("X")},
	{pt.HighSpeedTrain, all(typeOrName("CNL", "CityNightLine"), hasNum), prefixNum("CNL")},
	{pt.HighSpeedTrain, all(typeOrName("THA", "Thalys"), hasNum), prefixNum("THA")},
	{pt.HighSpeedTrain, all(typeIs("RHI"), hasNum), prefixNum("RHI")},
	{pt.HighSpeedTrain, all(typeOrName("TGV", "TGV"), hasNum), prefixNum("TGV")},
	{pt.HighSpeedTrain, all(typeIs("TGD"), hasNum), prefixNum("TGD")},
	{pt.HighSpeedTrain, all(typeIs("INZ"), hasNum), prefixNum("INZ")},
	{pt.HighSpeedTrain, typeOrName("RJ", "railjet"), prefixNum("RJ")},
	{pt.HighSpeedTrain, typeOrName("RJX", "railjet xpress"), prefixNum("RJX")},
	{pt.HighSpeedTrain, all(typeOrName("WB", "WESTbahn"), hasNum), prefixNum("WB")},
	{pt.HighSpeedTrain, all(typeOrName("HKX", "Hamburg-Köln-Express"), hasNum), prefixNum("HKX")},
	{pt.HighSpeedTrain, all(typeIs("INT"), hasNum), prefixNum("INT")},
	{pt.HighSpeedTrain, all(typeOrName("SC", "SC Pendolino"), hasNum), prefixNum("SC")},
	{pt.HighSpeedTrain, all(typeIs("ECB"), hasNum), prefixNum("ECB")},
	{pt.HighSpeedTrain, all(typeIs("ES"), hasNum), prefixNum("ES")},
	{pt.HighSpeedTrain, all(typeOrName("EST", "EUROSTAR"), hasNum), prefixNum("EST")},
	{pt.HighSpeedTrain, all(typeIs("EIC"), hasNum), prefixNum("EIC")},
	{pt.HighSpeedTrain, all(typeIs("MT"), nameIs("Schnee-Express"), hasNum), prefixNum("MT")},
	{pt.HighSpeedTrain, all(typeOrName("TLK", "Tanie Linie Kolejowe"), hasNum), prefixNum("TLK")},
	{pt.HighSpeedTrain, all(typeIs("DNZ"), hasNum), prefixNum("DNZ")},
	{pt.HighSpeedTrain, all(typeIs("AVE"), hasNum), prefixNum("AVE")},
	{pt.HighSpeedTrain, all(typeIs("ARC"), hasNum), prefixNum("ARC")},
	{pt.HighSpeedTrain, all(typeIs("HOT"), hasNum), prefixNum("HOT")},
	{pt.HighSpeedTrain, all(typeIs("LCM"), nameIs("Locomore"), hasNum), prefixNum("LCM")},
	{pt.HighSpeedTrain, longNameIs("Locomore"), prefixNum("LOC")},
	{pt.HighSpeedTrain, all(typeIs("NJ"), hasNum), prefixNum("NJ")},
	{pt.HighSpeedTrain, all(typeIs("FLX"), nameIs("FlixTrain"), hasNum), prefixNum("FLX")},

	// regional trains
	{pt.RegionalTrain, typeOrName("IR", "Interregio", "InterRegio"), prefixNum("IR")},
	{pt.RegionalTrain, all(numIs("IR13", "IR36", "IR37", "IR75"), noName), num},
	{pt.RegionalTrain, typeOrName("IRE", "Interregio-Express"), prefixNum("IRE")},
	{pt.RegionalTrain, all(noType, numMatches(reLineIRE)), num},
	{pt.RegionalTrain, typeOrName("RE", "Regional-Express"), prefixNum("RE")},
	{pt.RegionalTrain, all(numIs("RE"), noName), lit("RE")},
	{pt.RegionalTrain, all(noType, numMatches(reLineRE)), num},
	{pt.RegionalTrain, all(numIs("RE3 / RB30"), noType, noName), lit("RE3/RB30")},
	{pt.RegionalTrain, nameIs("Regionalexpress"), symbol},
	{pt.RegionalTrain, nameIs("R-Bahn"), symbol},
	{pt.RegionalTrain, numIs("RE1 (RRX)"), lit("RE1")},
	{pt.RegionalTrain, numIs("RE5 (RRX)"), lit("RE5")},
	{pt.RegionalTrain, numIs("RE6 (RRX)"), lit("RE6")},
	{pt.RegionalTrain, numIs("RE11 (RRX)"), lit("RE11")},
	{pt.RegionalTrain, nameIs("RB-Bahn"), symbol},
	{pt.RegionalTrain, all(noType, numIs("RB67/71", "RB65/68")), num},
	{pt.RegionalTrain, nameIs("RE-Bahn"), symbol},
	{pt.RegionalTrain, typeIs("REX"), prefixNum("REX")},
	{pt.RegionalTrain, all(typeOrName("RB", "Regionalbahn"), hasNum), prefixNum("RB")},
	{pt.RegionalTrain, all(numIs("RB"), noName), lit("RB")},
	{pt.RegionalTrain, all(noType, numMatches(reLineRB)), num},
	{pt.RegionalTrain, nameIs("Abellio-Zug"), symbol},
	{pt.RegionalTrain, nameIs("Westfalenbahn"), symbol},
	{pt.RegionalTrain, nameIs("Chiemseebahn"), symbol},
	{pt.RegionalTrain, typeOrName("R", "Regionalzug"), prefixNum("R")},
	{pt.RegionalTrain, all(noType, numMatches(reLineR)), num},
	{pt.RegionalTrain, typeOrName("D", "Schnellzug"), prefixNum("D")},
	{pt.RegionalTrain, typeOrName("E", "Eilzug"), prefixNum("E")},
	{pt.RegionalTrain, typeOrName("WFB", "WestfalenBahn"), prefixNum("WFB")},
	{pt.RegionalTrain, all(typeOrName("NWB", "NordWestBahn"), hasNum), prefixNum("NWB")},
	{pt.RegionalTrain, typeOrName("WES", "Westbahn"), prefixNum("WES")},
	{pt.RegionalTrain, typeOrName("ERB", "eurobahn"), prefixNum("ERB")},
	{pt.RegionalTrain, typeOrName("CAN", "cantus Verkehrsgesellschaft"), prefixNum("CAN")},
	{pt.RegionalTrain, typeOrName("HEX", "Veolia Verkehr Sachsen-Anhalt"), prefixNum("HEX")},
	{pt.RegionalTrain, typeOrName("EB", "Erfurter Bahn"), prefixNum("EB")},
	{pt.RegionalTrain, longNameIs("Erfurter Bahn"), lit("EB")},
	{pt.RegionalTrain, typeOrName("EBx", "Erfurter Bahn Express"), prefixNum("EBx")},
	{pt.RegionalTrain, all(longNameIs("Erfurter Bahn Express"), noSymbol), lit("EBx")},
	{pt.RegionalTrain, all(typeIs("MR"), nameIs("Märkische Regiobahn"), hasNum), prefixNum("MR")},
	{pt.RegionalTrain, typeOrName("MRB", "Mitteldeutsche Regiobahn"), prefixNum("MRB")},
	{pt.RegionalTrain, all(numIs("MRB26"), noType), num},
	{pt.RegionalTrain, typeOrName("ABR", "ABELLIO Rail NRW GmbH"), prefixNum("ABR")},
	{pt.RegionalTrain, typeOrName("NEB", "NEB Niederbarnimer Eisenbahn"), prefixNum("NEB")},
	{pt.RegionalTrain, typeOrName("OE", "Ostdeutsche Eisenbahn GmbH"), prefixNum("OE")},
	{pt.RegionalTrain, all(longNameIs("Ostdeutsche Eisenbahn GmbH"), noSymbol), lit("OE")},
	{pt.RegionalTrain, func(in *Input) bool { return in.TrainType == "ODE" && in.Symbol != "" }, symbol},
	{pt.RegionalTrain, typeOrName("OLA", "Ostseeland Verkehr GmbH"), prefixNum("OLA")},
	{pt.RegionalTrain, typeOrName("UBB", "Usedomer Bäderbahn"), prefixNum("UBB")},
	{pt.RegionalTrain, typeOrName("EVB", "ELBE-WESER GmbH"), prefixNum("EVB")},
	{pt.RegionalTrain, typeOrName("RTB", "Rurtalbahn GmbH"), prefixNum("RTB")},
	{pt.RegionalTrain, typeOrName("STB", "Süd-Thüringen-Bahn"), prefixNum("STB")},
	{pt.RegionalTrain, typeOrName("HTB", "Hellertalbahn"), prefixNum("HTB")},
	{pt.RegionalTrain, typeOrName("VBG", "Vogtlandbahn"), prefixNum("VBG")},
	{pt.RegionalTrain, typeOrName("CB", "City-Bahn Chemnitz"), prefixNum("CB")},
	{pt.RegionalTrain, all(noType, numIs("C11", "C13", "C14", "C15")), num},
	{pt.RegionalTrain, numIs("CB523"), num},
	{pt.RegionalTrain, typeOrName("VEC", "vectus Verkehrsgesellschaft"), prefixNum("VEC")},
	{pt.RegionalTrain, typeOrName("HzL", "Hohenzollerische Landesbahn AG"), prefixNum("HzL")},
	{pt.RegionalTrain, typeOrName("SBB", "SBB GmbH"), prefixNum("SBB")},
	{pt.RegionalTrain, typeOrName("MBB", "Mecklenburgische Bäderbahn Molli"), prefixNum("MBB")},
	{pt.RegionalTrain, typeIs("OS"), prefixNum("OS")},
	{pt.RegionalTrain, typeIs("SP", "Sp"), prefixNum("SP")},
	{pt.RegionalTrain, typeOrName("Dab", "Daadetalbahn"), prefixNum("Dab")},
	{pt.RegionalTrain, typeOrName("FEG", "Freiberger Eisenbahngesellschaft"), prefixNum("FEG")},
	{pt.RegionalTrain, typeOrName("ARR", "ARRIVA"), prefixNum("ARR")},
	{pt.RegionalTrain, typeOrName("HSB", "Harzer Schmalspurbahn"), prefixNum("HSB")},
	{pt.RegionalTrain, typeOrName("ALX", "alex - Länderbahn und Vogtlandbahn GmbH"), prefixNum("ALX")},
	{pt.RegionalTrain, typeOrName("EX", "Fatra"), prefixNum("EX")},
	{pt.RegionalTrain, typeOrName("ME", "metronom"), prefixNum("ME")},
	{pt.RegionalTrain, longNameIs("metronom"), lit("ME")},
	{pt.RegionalTrain, typeIs("MEr"), prefixNum("MEr")},
	{pt.RegionalTrain, typeOrName("AKN", "AKN Eisenbahn AG"), prefixNum("AKN")},
	{pt.RegionalTrain, typeOrName("SOE", "Sächsisch-Oberlausitzer Eisenbahngesellschaft"), prefixNum("SOE")},
	{pt.RegionalTrain, typeOrName("VIA", "VIAS GmbH"), prefixNum("VIA")},
	{pt.RegionalTrain, typeOrName("BRB", "Bayerische Regiobahn"), prefixNum("BRB")},
	{pt.RegionalTrain, typeOrName("BLB", "Berchtesgadener Land Bahn"), prefixNum("BLB")},
	{pt.RegionalTrain, typeOrName("HLB", "Hessische Landesbahn"), prefixNum("HLB")},
	{pt.RegionalTrain, typeOrName("NOB", "NordOstseeBahn"), prefixNum("NOB")},
	{pt.RegionalTrain, typeOrName("NBE", "Nordbahn Eisenbahngesellschaft"), prefixNum("NBE")},
	{pt.RegionalTrain, typeOrName("VEN", "Rhenus Veniro"), prefixNum("VEN")},
	{pt.RegionalTrain, typeOrName("DPN", "Nahreisezug"), prefixNum("DPN")},
	{pt.RegionalTrain, typeOrName("RBG", "Regental Bahnbetriebs GmbH"), prefixNum("RBG")},
	{pt.RegionalTrain, typeOrName("BOB", "Bodensee-Oberschwaben-Bahn"), prefixNum("BOB")},
	{pt.RegionalTrain, typeOrName("VE", "Vetter"), prefixNum("VE")},
	{pt.RegionalTrain, typeOrName("SDG", "SDG Sächsische Dampfeisenbahngesellschaft mbH"), prefixNum("SDG")},
	{pt.RegionalTrain, typeOrName("PRE", "Pressnitztalbahn"), prefixNum("PRE")},
	{pt.RegionalTrain, typeOrName("VEB", "Vulkan-Eifel-Bahn"), prefixNum("VEB")},
	{pt.RegionalTrain, typeOrName("neg", "Norddeutsche Eisenbahn Gesellschaft"), prefixNum("neg")},
	{pt.RegionalTrain, typeOrName("AVG", "Felsenland-Express"), prefixNum("AVG")},
	{pt.RegionalTrain, typeOrName("P", "BayernBahn Betriebs-GmbH", "Brohltalbahn", "Kasbachtalbahn"), prefixNum("P")},
	{pt.RegionalTrain, typeOrName("SBS", "Städtebahn Sachsen"), prefixNum("SBS")},
	{pt.RegionalTrain, typeOrName("SES", "Städteexpress Sachsen"), prefixNum("SES")},
	{pt.RegionalTrain, typeIs("SB-"), prefixNum("SB")},
	{pt.RegionalTrain, typeIs("ag"), prefixNum("ag")},
	{pt.RegionalTrain, typeOrName("agi", "agilis"), prefixNum("agi")},
	{pt.RegionalTrain, typeOrName("as", "agilis-Schnellzug"), prefixNum("as")},
	{pt.RegionalTrain, typeOrName("TLX", "TRILEX"), prefixNum("TLX")},
	{pt.RegionalTrain, typeOrName("MSB", "Mainschleifenbahn"), prefixNum("MSB")},
	{pt.RegionalTrain, typeOrName("BE", "Bentheimer Eisenbahn"), prefixNum("BE")},
	{pt.RegionalTrain, typeOrName("erx", "erixx - Der Heidesprinter"), prefixNum("erx")},
	{pt.RegionalTrain, all(typeOrName("ERX", "Erixx"), hasNum), prefixNum("ERX")},
	{pt.RegionalTrain, typeOrName("SWE", "Südwestdeutsche Verkehrs-AG", "Südwestdeutsche Landesverkehrs-AG"), prefixNum("SWE")},
	{pt.RegionalTrain, nameIs("SWEG-Zug"), prefixNum("SWEG")},
	{pt.RegionalTrain, func(in *Input) bool { return strings.HasPrefix(in.LongName, "SWEG-Zug") }, prefixNum("SWEG")},
	{pt.RegionalTrain, nameIs("EGP Eisenbahngesellschaft Potsdam"), prefixNum("EGP")},
	{pt.RegionalTrain, typeOrName("ÖBB", "ÖBB"), prefixNum("ÖBB")},
	{pt.RegionalTrain, typeIs("CAT"), prefixNum("CAT")},
	{pt.RegionalTrain, typeOrName("DZ", "Dampfzug"), prefixNum("DZ")},
	{pt.RegionalTrain, typeIs("CD"), prefixNum("CD")},
	{pt.RegionalTrain, typeIs("VR"), symbol},
	{pt.RegionalTrain, typeIs("PR"), symbol},
	{pt.RegionalTrain, typeIs("KD"), symbol},
	{pt.RegionalTrain, func(in *Input) bool { return in.TrainName == "Koleje Dolnoslaskie" && in.Symbol != "" }, symbol},
	{pt.RegionalTrain, typeOrName("OO", "Ordinary passenger (o.pas.)"), prefixNum("OO")},
	{pt.RegionalTrain, typeOrName("XX", "Express passenger    (ex.pas.)"), prefixNum("XX")},
	{pt.RegionalTrain, typeOrName("XZ", "Express passenger sleeper"), prefixNum("XZ")},
	{pt.RegionalTrain, typeIs("ATB"), prefixNum("ATB")},
	{pt.RegionalTrain, typeIs("ATZ"), prefixNum("ATZ")},
	{pt.RegionalTrain, typeOrName("AZ", "Auto-Zug"), prefixNum("AZ")},
	{pt.RegionalTrain, all(typeIs("AZS"), hasNum), prefixNum("AZS")},
	{pt.RegionalTrain, typeOrName("DWE", "Dessau-Wörlitzer Eisenbahn"), prefixNum("DWE")},
	{pt.RegionalTrain, typeOrName("KTB", "Kandertalbahn"), prefixNum("KTB")},
	{pt.RegionalTrain, typeOrName("CBC", "CBC"), prefixNum("CBC")},
	{pt.RegionalTrain, nameIs("Bernina Express"), num},
	{pt.RegionalTrain, typeIs("STR"), prefixNum("STR")},
	{pt.RegionalTrain, typeOrName("EXT", "Extrazug"), prefixNum("EXT")},
	{pt.RegionalTrain, nameIs("Heritage Railway"), symbol},
	{pt.RegionalTrain, typeOrName("WTB", "Wutachtalbahn"), prefixNum("WTB")},
	{pt.RegionalTrain, typeOrName("DB", "DB Regio"), prefixNum("DB")},
	{pt.RegionalTrain, all(typeIs("M"), nameIs("Meridian", "Messezug")), prefixNum("M")},
	{pt.RegionalTrain, typeIs("EZ"), prefixNum("EZ")},
	{pt.RegionalTrain, typeIs("DPF"), prefixNum("DPF")},
	{pt.RegionalTrain, typeOrName("WBA", "Waldbahn"), prefixNum("WBA")},
	{pt.RegionalTrain, all(typeIs("ÖB"), nameIs("Öchsle-Bahn-Betriebsgesellschaft mbH"), hasNum), prefixNum("ÖB")},
	{pt.RegionalTrain, all(typeIs("ÖBA"), hasNum), prefixNum("ÖBA")},
	{pt.RegionalTrain, all(typeOrName("UEF", "Ulmer Eisenbahnfreunde"), hasNum), prefixNum("UEF")},
	{pt.RegionalTrain, all(typeOrName("DBG", "Döllnitzbahn"), hasNum), prefixNum("DBG")},
	{pt.RegionalTrain, all(typeOrName("TL", "TL", "Trilex"), hasNum), prefixNum("TL")},
	{pt.RegionalTrain, all(typeOrName("OPB", "oberpfalzbahn"), hasNum), prefixNum("OPB")},
	{pt.RegionalTrain, all(typeOrName("OPX", "oberpfalz-express"), hasNum), prefixNum("OPX")},
	{pt.RegionalTrain, all(typeOrName("LEO", "Chiemgauer Lokalbahn"), hasNum), prefixNum("LEO")},
	{pt.RegionalTrain, all(typeOrName("VAE", "Voralpen-Express"), hasNum), prefixNum("VAE")},
	{pt.RegionalTrain, all(typeOrName("V6", "vlexx"), hasNum), prefixNum("vlexx")},
	{pt.RegionalTrain, all(typeOrName("ARZ", "Autoreisezug"), hasNum), prefixNum("ARZ")},
	{pt.RegionalTrain, typeIs("RR"), prefixNum("RR")},
	{pt.RegionalTrain, all(typeOrName("TER", "Train Express Regional"), hasNum), prefixNum("TER")},
	{pt.RegionalTrain, all(typeOrName("ENO", "enno"), hasNum), prefixNum("ENO")},
	{pt.RegionalTrain, all(longNameIs("enno"), noSymbol), lit("enno")},
	{pt.RegionalTrain, all(typeOrName("PLB", "Pinzgauer Lokalbahn"), hasNum), prefixNum("PLB")},
	{pt.RegionalTrain, all(typeOrName("NX", "National Express"), hasNum), prefixNum("NX")},
	{pt.RegionalTrain, all(typeOrName("SE", "ABELLIO Rail Mitteldeutschland GmbH"), hasNum), prefixNum("SE")},
	{pt.RegionalTrain, all(typeIs("DNA"), hasNum), prefixNum("DNA")},
	{pt.RegionalTrain, all(typeIs("Dieselnetz"), numIs("Augsburg")), lit("DNA")},
	{pt.RegionalTrain, all(typeOrName("SAB", "Schwäbische Alb-Bahn"), hasNum), prefixNum("SAB")},
	{pt.RegionalTrain, func(in *Input) bool { return in.Symbol != "" && reLineMEX.MatchString(in.Symbol) }, symbol},
	{pt.RegionalTrain, all(noType, numMatches(reLineMEX)), num},
	{pt.RegionalTrain, all(typeOrName("FEX", "Flughafen-Express"), hasNum), prefixNum("FEX")},

	// suburban trains
	{pt.RegionalTrain, all(typeOrName("BSB", "Breisgau-S-Bahn Gmbh"), hasNum), prefixNum("BSB")},
	{pt.SuburbanTrain, all(nameIs("BSB-Zug"), hasNum), num},
	{pt.SuburbanTrain, all(nameIs("BSB-Zug"), noNum), lit("BSB")},
	{pt.SuburbanTrain, func(in *Input) bool { return strings.HasPrefix(in.LongName, "BSB-Zug") }, prefixNum("BSB")},
	{pt.SuburbanTrain, typeIs("RSB"), prefixNum("RSB")},
	{pt.SuburbanTrain, all(numIs("RS18"), noType), lit("RS18")},
	{pt.SuburbanTrain, func(in *Input) bool { return in.TrainName == "RER" && len(in.Symbol) == 1 }, symbol},
	{pt.SuburbanTrain, typeIs("S"), prefixNum("S")},
	{pt.SuburbanTrain, nameIs("S-Bahn"), prefixNum("S")},
	{pt.SuburbanTrain, all(typeIs("RS"), hasNum), prefixNum("RS")},

	{pt.Tram, typeOrName("RT", "RegioTram"), prefixNum("RT")},

	// rail replacement and long-distance buses reported under rail
	{pt.Bus, all(typeIs("Bus"), hasNum), num},
	{pt.Bus, func(in *Input) bool { return in.LongName == "Bus" && in.Symbol == "" }, lit("Bus")},
	{pt.Bus, func(in *Input) bool {
		return in.TrainType == "SEV" || in.TrainNum == "SEV" || in.TrainName == "SEV" || in.Symbol == "SEV" ||
			in.TrainType == "BSV" || in.TrainName == "Ersatzverkehr" || in.TrainName == "Schienenersatzverkehr"
	}, prefixNum("SEV")},
	{pt.Bus, nameIs("Bus replacement"), lit("BR")},
	{pt.Bus, func(in *Input) bool { return in.TrainType == "BR" && strings.HasPrefix(in.TrainName, "Bus") }, prefixNum("BR")},
	{pt.Bus, all(typeIs("EXB"), hasNum), prefixNum("EXB")},

	{pt.CableCar, typeIs("GB"), prefixNum("GB")},
	{pt.SuburbanTrain, typeIs("SB"), prefixNum("SB")},

	// unidentifiable trains keep their best-available label
	{pt.ProductUnknown, func(in *Input) bool { return in.TrainName == "Zug" && in.Symbol != "" }, symbol},
	{pt.ProductUnknown, func(in *Input) bool { return in.LongName == "Zug" && in.Symbol == "" }, lit("Zug")},
	{pt.ProductUnknown, func(in *Input) bool { return in.TrainName == "Zuglinie" && in.Symbol != "" }, symbol},
	{pt.ProductUnknown, all(typeIs("ZUG"), hasNum), num},
	{pt.ProductUnknown, func(in *Input) bool {
		return in.Symbol != "" && reLineNumber.MatchString(in.Symbol) && in.TrainType == "" && in.TrainName == ""
	}, symbol},
	{pt.ProductUnknown, all(typeIs("N"), noName, noSymbol), prefixNum("N")},
	{pt.ProductUnknown, nameIs("Train"), lit("")},
	{pt.ProductUnknown, all(typeIs("PPN"), nameIs("Osobowy"), hasNum), prefixNum("PPN")},

	// generic fallback: a bare train name with no structured fields
	{pt.ProductUnknown, func(in *Input) bool { return in.TrainName != "" && in.TrainType == "" && in.TrainNum == "" },
		func(in *Input) string { return in.TrainName }},
}
