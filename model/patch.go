package model

// ContractPatch is a partial contract used for whole-field replacement:
// every non-nil section replaces the corresponding section of the aggregate
// wholesale. Useful for array-valued sections such as payments or custom
// terms where whole-collection replacement is simpler than path addressing.
type ContractPatch struct {
	ContractNumber *string `json:"contractNumber,omitempty"`

	Property       *Property       `json:"property,omitempty"`
	Registry       *Registry       `json:"registry,omitempty"`
	Parties        *Parties        `json:"parties,omitempty"`
	JointBrokerage *JointBrokerage `json:"jointBrokerage,omitempty"`
	Terms          *Terms          `json:"terms,omitempty"`
	Clauses        *Clauses        `json:"clauses,omitempty"`
	SpecialTerms   *SpecialTerms   `json:"specialTerms,omitempty"`
	Confirmation   *Confirmation   `json:"confirmation,omitempty"`
	Brokerage      *Brokerage      `json:"brokerage,omitempty"`
}

// ApplyTo shallow-merges the patch into c, returning a new contract. The
// original contract is not modified; sections absent from the patch keep
// their identity in the result.
func (p *ContractPatch) ApplyTo(c *Contract) *Contract {
	next := *c
	if p.ContractNumber != nil {
		next.ContractNumber = *p.ContractNumber
	}
	if p.Property != nil {
		next.Property = p.Property
	}
	if p.Registry != nil {
		next.Registry = p.Registry
	}
	if p.Parties != nil {
		next.Parties = p.Parties
	}
	if p.JointBrokerage != nil {
		next.JointBrokerage = p.JointBrokerage
	}
	if p.Terms != nil {
		next.Terms = p.Terms
	}
	if p.Clauses != nil {
		next.Clauses = p.Clauses
	}
	if p.SpecialTerms != nil {
		next.SpecialTerms = p.SpecialTerms
	}
	if p.Confirmation != nil {
		next.Confirmation = p.Confirmation
	}
	if p.Brokerage != nil {
		next.Brokerage = p.Brokerage
	}
	return &next
}
