package domain

// Basin identifies an ocean basin. The identifier doubles as the stem of the
// basin's JSON file name.
type Basin string

const (
	NorthwestPacific Basin = "northwestpacific"
	NortheastPacific Basin = "northeastpacific"
	NorthAtlantic    Basin = "northatlantic"
	SouthIndian      Basin = "southindian"
	SouthPacific     Basin = "southpacific"
	NorthIndian      Basin = "northindian"
)

// StackOrder returns the charted basins from the bottom of a bar stack to the
// top. It is also the display order of chart rows and legend entries.
// Callers get a fresh slice and may modify it.
func StackOrder() []Basin {
	return []Basin{
		NorthwestPacific,
		NortheastPacific,
		NorthAtlantic,
		SouthIndian,
		SouthPacific,
		NorthIndian,
	}
}

// Known reports whether b is one of the six charted basins.
func (b Basin) Known() bool {
	return b.Label() != ""
}

// Label returns the human-readable basin name, or "" for unknown basins.
func (b Basin) Label() string {
	switch b {
	case NorthwestPacific:
		return "Northwest Pacific"
	case NortheastPacific:
		return "Northeast Pacific"
	case NorthAtlantic:
		return "North Atlantic"
	case SouthIndian:
		return "South Indian"
	case SouthPacific:
		return "South Pacific"
	case NorthIndian:
		return "North Indian"
	default:
		return ""
	}
}

// rank is the basin's position in StackOrder, or -1.
func (b Basin) rank() int {
	for i, o := range StackOrder() {
		if o == b {
			return i
		}
	}
	return -1
}
