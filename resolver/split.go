package resolver

import "regexp"

// NameSplitter splits a backend's combined place/name string. The
// default is no split: everything is the name.
type NameSplitter func(raw string) (place, name string)

var (
	reFirstComma = regexp.MustCompile(`^([^,]*), (.*)$`)
	reLastComma  = regexp.MustCompile(`^(.*), ([^,]*)$`)
	reParen      = regexp.MustCompile(`^(.*) \((.{3,}?)\)$`)
)

// SplitNone treats the whole string as the name.
func SplitNone(raw string) (string, string) { return "", raw }

// SplitFirstComma handles the "Place, Stop" convention.
func SplitFirstComma(raw string) (string, string) {
	if m := reFirstComma.FindStringSubmatch(raw); m != nil {
		return m[1], m[2]
	}
	return "", raw
}

// SplitLastComma handles the "Stop, Place" convention.
func SplitLastComma(raw string) (string, string) {
	if m := reLastComma.FindStringSubmatch(raw); m != nil {
		return m[2], m[1]
	}
	return "", raw
}

// SplitParen handles the "Stop (Place)" convention. Parenthesized
// suffixes shorter than three characters are kept as part of the name,
// they are usually platform or direction markers.
func SplitParen(raw string) (string, string) {
	if m := reParen.FindStringSubmatch(raw); m != nil {
		return m[2], m[1]
	}
	return "", raw
}

// ByName returns the splitter registered under a config key, or nil.
func ByName(key string) NameSplitter {
	switch key {
	case "first-comma":
		return SplitFirstComma
	case "last-comma":
		return SplitLastComma
	case "paren":
		return SplitParen
	case "", "none":
		return SplitNone
	}
	return nil
}
