package model

// RegistryExtraction is the structured result of running a property register
// document through the extraction service. Address, Land, Owners and
// Encumbrances replace the aggregate's subtrees wholesale; Building carries
// optional fields merged field-by-field since the register only mentions a
// few building attributes.
type RegistryExtraction struct {
	Address      string        `json:"address"`
	Land         *Land         `json:"land"`
	Building     BuildingPatch `json:"building"`
	Owners       []Owner       `json:"owners"`
	Encumbrances []Encumbrance `json:"encumbrances"`
}

// BuildingPatch holds optional building attributes. A nil field means the
// attribute was not extracted and the prior value is kept.
type BuildingPatch struct {
	Structure        *string  `json:"structure,omitempty"`
	Usage            *string  `json:"usage,omitempty"`
	TotalArea        *float64 `json:"totalArea,omitempty"`
	CompletionYear   *int     `json:"completionYear,omitempty"`
	Direction        *string  `json:"direction,omitempty"`
	SeismicDesign    *bool    `json:"seismicDesign,omitempty"`
	SeismicCapacity  *string  `json:"seismicCapacity,omitempty"`
	IsViolation      *bool    `json:"isViolation,omitempty"`
	ViolationContent *string  `json:"violationContent,omitempty"`
}

// MergeInto overlays the extracted building fields on top of b, returning a
// new Building. Fields the extraction did not produce keep their prior
// values.
func (p BuildingPatch) MergeInto(b *Building) *Building {
	next := *b
	if p.Structure != nil {
		next.Structure = *p.Structure
	}
	if p.Usage != nil {
		next.Usage = *p.Usage
	}
	if p.TotalArea != nil {
		next.TotalArea = *p.TotalArea
	}
	if p.CompletionYear != nil {
		next.CompletionYear = *p.CompletionYear
	}
	if p.Direction != nil {
		next.Direction = *p.Direction
	}
	if p.SeismicDesign != nil {
		next.SeismicDesign = *p.SeismicDesign
	}
	if p.SeismicCapacity != nil {
		next.SeismicCapacity = *p.SeismicCapacity
	}
	if p.IsViolation != nil {
		next.IsViolation = *p.IsViolation
	}
	if p.ViolationContent != nil {
		next.ViolationContent = *p.ViolationContent
	}
	return &next
}

// PartyExtraction is the result of extracting a business registration
// certificate or an ID card. Which fields are populated depends on the
// document kind.
type PartyExtraction struct {
	// business documents
	CompanyName       string `json:"companyName,omitempty"`
	BusinessRegNumber string `json:"businessRegNumber,omitempty"`
	CorpRegNumber     string `json:"corpRegNumber,omitempty"`
	Representative    string `json:"representative,omitempty"`

	// individual documents (ID number limited to the front digits)
	Name          string `json:"name,omitempty"`
	IDNumberFront string `json:"idNumberFront,omitempty"`

	Address string `json:"address"`
}

// ToParty converts the extraction into a Party of the given kind. Role and
// representative flags are left for the caller to decide.
func (e *PartyExtraction) ToParty(kind string) *Party {
	if kind == PartyIndividual {
		return &Party{
			Type:     PartyIndividual,
			Name:     e.Name,
			IDNumber: e.IDNumberFront,
			Address:  e.Address,
		}
	}
	return &Party{
		Type:           PartyBusiness,
		Name:           e.CompanyName,
		IDNumber:       e.BusinessRegNumber,
		CorpRegNumber:  e.CorpRegNumber,
		Address:        e.Address,
		Representative: e.Representative,
	}
}

// GeneratedTerms is the three-variant special-term bundle produced by the
// generation service.
type GeneratedTerms struct {
	Lessor  GeneratedTerm `json:"lessor"`
	Lessee  GeneratedTerm `json:"lessee"`
	Neutral GeneratedTerm `json:"neutral"`
}

type GeneratedTerm struct {
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// Variant returns the generated term for a favor type, defaulting to the
// neutral variant.
func (g *GeneratedTerms) Variant(favor string) GeneratedTerm {
	switch favor {
	case FavorLessor:
		return g.Lessor
	case FavorLessee:
		return g.Lessee
	default:
		return g.Neutral
	}
}
