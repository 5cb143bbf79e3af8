package hetnet

import "strings"

// Kind is an entity type tag
type Kind string

const (
	KindAnatomy            Kind = "Anatomy"
	KindBiologicalProcess  Kind = "Biological Process"
	KindCellularComponent  Kind = "Cellular Component"
	KindCompound           Kind = "Compound"
	KindDisease            Kind = "Disease"
	KindGene               Kind = "Gene"
	KindMolecularFunction  Kind = "Molecular Function"
	KindPathway            Kind = "Pathway"
	KindPharmacologicClass Kind = "Pharmacologic Class"
	KindSideEffect         Kind = "Side Effect"
	KindSymptom            Kind = "Symptom"
)

var kinds = map[Kind]bool{
	KindAnatomy:            true,
	KindBiologicalProcess:  true,
	KindCellularComponent:  true,
	KindCompound:           true,
	KindDisease:            true,
	KindGene:               true,
	KindMolecularFunction:  true,
	KindPathway:            true,
	KindPharmacologicClass: true,
	KindSideEffect:         true,
	KindSymptom:            true,
}

// Valid reports whether k belongs to the kind vocabulary
func (k Kind) Valid() bool {
	return kinds[k]
}

// Kinds returns the vocabulary in a fixed order
func Kinds() []Kind {
	return []Kind{
		KindAnatomy, KindBiologicalProcess, KindCellularComponent, KindCompound,
		KindDisease, KindGene, KindMolecularFunction, KindPathway,
		KindPharmacologicClass, KindSideEffect, KindSymptom,
	}
}

// DirectionGlyph marks directed gene-gene metaedges and is not allowed in
// mirror relationship types
const DirectionGlyph = ">"

// Metaedge abbreviations used by the queries
const (
	AnatomyDownregulatesGene  = "AdG"
	AnatomyExpressesGene      = "AeG"
	AnatomyUpregulatesGene    = "AuG"
	CompoundBindsGene         = "CbG"
	CompoundDownregulatesGene = "CdG"
	CompoundPalliatesDisease  = "CpD"
	CompoundTreatsDisease     = "CtD"
	CompoundUpregulatesGene   = "CuG"
	DiseaseAssociatesGene     = "DaG"
	DiseaseLocalizesAnatomy   = "DlA"
	GeneRegulatesGene         = "Gr>G"
)

// MetaedgeInfo describes one relationship type of the vocabulary
type MetaedgeInfo struct {
	Abbrev   string
	Relation string
	Source   Kind
	Target   Kind
}

// MirrorType is the relationship type used in the graph mirror
func (m MetaedgeInfo) MirrorType() string {
	return SanitizeMetaedge(m.Abbrev)
}

var metaedges = map[string]MetaedgeInfo{}

func init() {
	for _, m := range []MetaedgeInfo{
		{"AdG", "downregulates", KindAnatomy, KindGene},
		{"AeG", "expresses", KindAnatomy, KindGene},
		{"AuG", "upregulates", KindAnatomy, KindGene},
		{"CbG", "binds", KindCompound, KindGene},
		{"CcSE", "causes", KindCompound, KindSideEffect},
		{"CdG", "downregulates", KindCompound, KindGene},
		{"CpD", "palliates", KindCompound, KindDisease},
		{"CrC", "resembles", KindCompound, KindCompound},
		{"CtD", "treats", KindCompound, KindDisease},
		{"CuG", "upregulates", KindCompound, KindGene},
		{"DaG", "associates", KindDisease, KindGene},
		{"DdG", "downregulates", KindDisease, KindGene},
		{"DlA", "localizes", KindDisease, KindAnatomy},
		{"DpS", "presents", KindDisease, KindSymptom},
		{"DrD", "resembles", KindDisease, KindDisease},
		{"DuG", "upregulates", KindDisease, KindGene},
		{"GcG", "covaries", KindGene, KindGene},
		{"GiG", "interacts", KindGene, KindGene},
		{"GpBP", "participates", KindGene, KindBiologicalProcess},
		{"GpCC", "participates", KindGene, KindCellularComponent},
		{"GpMF", "participates", KindGene, KindMolecularFunction},
		{"GpPW", "participates", KindGene, KindPathway},
		{"Gr>G", "regulates", KindGene, KindGene},
		{"PCiC", "includes", KindPharmacologicClass, KindCompound},
	} {
		metaedges[m.Abbrev] = m
	}
}

// LookupMetaedge returns the vocabulary entry for an abbreviation
func LookupMetaedge(abbrev string) (MetaedgeInfo, bool) {
	m, ok := metaedges[abbrev]
	return m, ok
}

// MustMetaedge returns the vocabulary entry or panics. Only for constants.
func MustMetaedge(abbrev string) MetaedgeInfo {
	m, ok := metaedges[abbrev]
	if !ok {
		panic("hetnet: unknown metaedge " + abbrev)
	}
	return m
}

// SanitizeMetaedge strips the direction glyph: "Gr>G" -> "GrG". Other
// labels are returned unchanged. The original string stays on the record.
func SanitizeMetaedge(metaedge string) string {
	return strings.ReplaceAll(metaedge, DirectionGlyph, "")
}

// Direction selects which way a metaedge is followed from a vertex
type Direction int

const (
	// Outgoing follows source -> target
	Outgoing Direction = iota
	// Incoming follows target <- source
	Incoming
)

func (d Direction) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}

// Adjacency is one hop result: the vertex reached from From
type Adjacency struct {
	From string
	To   Node
}
