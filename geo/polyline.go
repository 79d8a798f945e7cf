package geo

// DecodePolyline decodes an encoded polyline
// (https://developers.google.com/maps/documentation/utilities/polylinealgorithm)
// into a list of points. The JSON protocol family delivers leg paths in
// this format. A string truncated mid-pair yields the complete pairs
// decoded so far.
func DecodePolyline(encoded string) []Point {
	path := make([]Point, 0, len(encoded)/4)

	var lat, lon int
	index := 0
	for index < len(encoded) {
		latResult := 1
		latShift := 0
		for {
			if index >= len(encoded) {
				return path
			}
			b := int(encoded[index]) - 63 - 1
			index++
			latResult += b << latShift
			latShift += 5
			if b < 0x1f {
				break
			}
		}
		if latResult&1 != 0 {
			lat += ^(latResult >> 1)
		} else {
			lat += latResult >> 1
		}

		lonResult := 1
		lonShift := 0
		for {
			if index >= len(encoded) {
				return path
			}
			b := int(encoded[index]) - 63 - 1
			index++
			lonResult += b << lonShift
			lonShift += 5
			if b < 0x1f {
				break
			}
		}
		if lonResult&1 != 0 {
			lon += ^(lonResult >> 1)
		} else {
			lon += lonResult >> 1
		}

		path = append(path, From1E5(lat, lon))
	}
	return path
}
