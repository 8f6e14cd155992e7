package core

// SectionID identifies one of the 16 standardized SDS sections.
type SectionID int

// The canonical SDS section vocabulary. Section numbering is fixed by the
// GHS standard and is never user-supplied.
const (
	SectionIdentification SectionID = iota + 1
	SectionHazards
	SectionComposition
	SectionFirstAid
	SectionFirefighting
	SectionAccidentalRelease
	SectionHandlingStorage
	SectionExposureControls
	SectionPhysicalChemical
	SectionStabilityReactivity
	SectionToxicological
	SectionEcological
	SectionDisposal
	SectionTransport
	SectionRegulatory
	SectionOther
)

// MaxSectionID is the highest valid section identifier.
const MaxSectionID = int(SectionOther)

// sectionNames maps section IDs to their canonical names, indexed by ID-1.
var sectionNames = [MaxSectionID]string{
	"Identification",
	"Hazards identification",
	"Composition/information on ingredients",
	"First aid measures",
	"Firefighting measures",
	"Accidental release measures",
	"Handling and storage",
	"Exposure controls/personal protection",
	"Physical and chemical properties",
	"Stability and reactivity",
	"Toxicological information",
	"Ecological information",
	"Disposal considerations",
	"Transport information",
	"Regulatory information",
	"Other information",
}

// Valid reports whether the section ID is within the canonical 1..16 range.
func (s SectionID) Valid() bool {
	return s >= SectionIdentification && s <= SectionOther
}

// Name returns the canonical section name, or an empty string for an
// invalid ID.
func (s SectionID) Name() string {
	if !s.Valid() {
		return ""
	}
	return sectionNames[s-1]
}

// SectionNames returns the canonical names of all 16 sections in order.
func SectionNames() []string {
	names := make([]string, MaxSectionID)
	copy(names, sectionNames[:])
	return names
}

// SectionByName returns the section ID for a canonical section name.
// The second return value is false if the name is not in the vocabulary.
func SectionByName(name string) (SectionID, bool) {
	for i, n := range sectionNames {
		if n == name {
			return SectionID(i + 1), true
		}
	}
	return 0, false
}
