// Package engine implements the state engine behind the lease contract
// wizard: a single contract aggregate mutated through path updates, derived
// field recomputation, a linear step machine, and a lifecycle manager for
// draft persistence and one-way completion.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/kyeongry/fastmatch-admin-sub002/engine/paths"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
)

// Party side identifiers, matching the path segments under "parties".
const (
	SideLessors = "lessors"
	SideLessees = "lessees"
)

// ContractService is the persistence collaborator behind save, complete and
// load.
type ContractService interface {
	Create(ctx context.Context, c *model.Contract) (*model.Contract, error)
	Update(ctx context.Context, id string, c *model.Contract) error
	Get(ctx context.Context, id string) (*model.Contract, error)
	Complete(ctx context.Context, id string) (pdfURL string, err error)
}

// ExtractionService extracts structured fields from document images.
type ExtractionService interface {
	ExtractRegistry(ctx context.Context, document []byte, mimeType string) (*model.RegistryExtraction, error)
	ExtractParty(ctx context.Context, document []byte, mimeType, kind string) (*model.PartyExtraction, error)
}

// TermsService searches the special-terms library and generates new terms.
type TermsService interface {
	Search(ctx context.Context, keyword string) ([]model.SpecialTerm, error)
	Generate(ctx context.Context, situation string, opts GenerateOptions) (*model.GeneratedTerms, error)
}

// GenerateOptions carry the contract context passed to term generation.
type GenerateOptions struct {
	BuildingType    string
	TransactionType string
}

// Session holds one editing session's worth of state: the contract
// aggregate, the remembered server identifier, the wizard position, and
// transient search/generation results. It is not safe for concurrent use;
// all mutations are expected to come from a single UI event loop.
type Session struct {
	contracts ContractService
	extractor ExtractionService
	terms     TermsService

	contract  *model.Contract
	id        string
	steps     Stepper
	searched  []model.SpecialTerm
	generated *model.GeneratedTerms
	busy      bool
	errMsg    string
}

// NewSession returns a session holding a fresh draft contract positioned at
// the first wizard step.
func NewSession(contracts ContractService, extractor ExtractionService, terms TermsService) *Session {
	return &Session{
		contracts: contracts,
		extractor: extractor,
		terms:     terms,
		contract:  model.NewContract(),
		steps:     NewStepper(),
	}
}

// Contract returns the current aggregate. Callers must treat it as
// read-only; all edits go through SetField, Replace or the typed mutators.
func (s *Session) Contract() *model.Contract {
	return s.contract
}

// ID returns the server-assigned identifier, empty until the first save.
func (s *Session) ID() string {
	return s.id
}

// Busy reports whether a network operation is in flight. The UI is expected
// to disable conflicting actions while it is set; the engine does not
// enforce it.
func (s *Session) Busy() bool {
	return s.busy
}

// Err returns the message of the last failed operation, empty after a
// successful one or a reset.
func (s *Session) Err() string {
	return s.errMsg
}

// Step navigation

func (s *Session) Step() Step       { return s.steps.Current() }
func (s *Session) NextStep()        { s.steps.Next() }
func (s *Session) PrevStep()        { s.steps.Prev() }
func (s *Session) GoToStep(st Step) { s.steps.GoTo(st) }

// SetField writes value at the dot-delimited path and reconciles any
// derived fields whose inputs changed. The previous aggregate snapshot is
// left intact.
func (s *Session) SetField(path string, value any) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	prev := s.contract
	if err := s.apply(path, value); err != nil {
		return err
	}
	s.reconcile(prev)
	return nil
}

// Replace shallow-merges a partial contract into the aggregate: every
// non-nil section of the patch replaces its counterpart wholesale. Derived
// fields whose inputs changed are reconciled, same as a path edit.
func (s *Session) Replace(patch *model.ContractPatch) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	prev := s.contract
	s.contract = patch.ApplyTo(s.contract)
	s.reconcile(prev)
	return nil
}

func (s *Session) apply(path string, value any) error {
	updated, err := paths.Set(s.contract, path, value)
	if err != nil {
		return err
	}
	s.contract = updated.(*model.Contract)
	return nil
}

// reconcile runs each derived-field calculator whose inputs differ between
// the previous aggregate and the current one. One dirty check per
// calculator; unrelated edits never trigger a recompute, and a direct edit
// of a derived field survives until an input changes again.
func (s *Session) reconcile(prev *model.Contract) {
	if s.contract.Terms == nil {
		return
	}
	if s.contract.Terms.ContractPeriod != nil && periodInputsChanged(prev, s.contract) {
		s.recomputeEndDate()
	}
	if s.contract.Brokerage != nil && brokerageInputsChanged(prev, s.contract) {
		s.recomputeBrokerage()
	}
}

func periodInputsChanged(prev, cur *model.Contract) bool {
	if prev.Terms == nil || prev.Terms.ContractPeriod == nil {
		return true
	}
	p, c := prev.Terms.ContractPeriod, cur.Terms.ContractPeriod
	return !p.StartDate.Equal(c.StartDate) ||
		p.Months != c.Months ||
		p.IncludeFirstDay != c.IncludeFirstDay
}

func brokerageInputsChanged(prev, cur *model.Contract) bool {
	if prev.Terms == nil || prev.Brokerage == nil {
		return true
	}
	return prev.Terms.Deposit != cur.Terms.Deposit ||
		prev.Terms.MonthlyRent != cur.Terms.MonthlyRent ||
		prev.Brokerage.Rate != cur.Brokerage.Rate
}

func (s *Session) recomputeEndDate() {
	cp := s.contract.Terms.ContractPeriod
	if cp.StartDate.IsZero() || cp.Months <= 0 {
		return
	}
	next := *cp
	next.EndDate = ProjectEndDate(cp.StartDate, cp.Months, cp.IncludeFirstDay)
	_ = s.apply("terms.contractPeriod", &next)
}

func (s *Session) recomputeBrokerage() {
	b := s.contract.Brokerage
	amount := BrokerageAmount(s.contract.Terms.Deposit, s.contract.Terms.MonthlyRent, b.Rate)
	next := *b
	next.Amount = amount
	next.Total = amount + b.Expense
	_ = s.apply("brokerage", &next)
}

// CalculateBrokerage recomputes the brokerage fee on explicit request and
// returns the fee amount.
func (s *Session) CalculateBrokerage() (int64, error) {
	if s.contract.Status == model.StatusCompleted {
		return 0, ErrContractCompleted
	}
	s.recomputeBrokerage()
	return s.contract.Brokerage.Amount, nil
}

// AddParty appends a co-signer to a side and renormalizes the
// representative flag.
func (s *Session) AddParty(side string) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	cur, err := s.sideParties(side)
	if err != nil {
		return err
	}
	next := make([]*model.Party, len(cur)+1)
	copy(next, cur)
	next[len(cur)] = model.NewJointParty()
	return s.setSideParties(side, normalizeRepresentative(next))
}

// RemoveParty removes the co-signer at index from a side. If the removed
// party carried the representative flag, the first remaining party inherits
// it.
func (s *Session) RemoveParty(side string, index int) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	cur, err := s.sideParties(side)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(cur) {
		return &ValidationError{Message: fmt.Sprintf("no %s party at index %d", side, index)}
	}
	next := make([]*model.Party, 0, len(cur)-1)
	next = append(next, cur[:index]...)
	next = append(next, cur[index+1:]...)
	return s.setSideParties(side, normalizeRepresentative(next))
}

// ApplyExtractedParty overwrites the identity fields of the party at index
// with an extraction result, keeping phone, role and the representative
// flag.
func (s *Session) ApplyExtractedParty(side string, index int, res *model.PartyExtraction, kind string) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	cur, err := s.sideParties(side)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(cur) {
		return &ValidationError{Message: fmt.Sprintf("no %s party at index %d", side, index)}
	}
	p := res.ToParty(kind)
	p.Phone = cur[index].Phone
	p.Role = cur[index].Role
	p.IsRepresentative = cur[index].IsRepresentative
	next := make([]*model.Party, len(cur))
	copy(next, cur)
	next[index] = p
	return s.setSideParties(side, next)
}

func (s *Session) sideParties(side string) ([]*model.Party, error) {
	switch side {
	case SideLessors:
		return s.contract.Parties.Lessors, nil
	case SideLessees:
		return s.contract.Parties.Lessees, nil
	}
	return nil, &ValidationError{Message: "unknown party side: " + side}
}

func (s *Session) setSideParties(side string, parties []*model.Party) error {
	return s.apply("parties."+side, parties)
}

// normalizeRepresentative keeps exactly one representative on a side: the
// first flagged party wins, and if none is flagged the first party becomes
// the representative. Parties it changes are copied so earlier snapshots
// stay intact.
func normalizeRepresentative(parties []*model.Party) []*model.Party {
	out := make([]*model.Party, len(parties))
	seen := false
	for i, p := range parties {
		if p.IsRepresentative && seen {
			cp := *p
			cp.IsRepresentative = false
			out[i] = &cp
			continue
		}
		if p.IsRepresentative {
			seen = true
		}
		out[i] = p
	}
	if !seen && len(out) > 0 {
		cp := *out[0]
		cp.IsRepresentative = true
		out[0] = &cp
	}
	return out
}

// AddCustomTerm appends a custom special term. An empty source defaults to
// manual provenance.
func (s *Session) AddCustomTerm(term model.CustomTerm) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	if term.Source == "" {
		term.Source = model.TermSourceManual
	}
	cur := s.contract.SpecialTerms.CustomTerms
	next := make([]model.CustomTerm, len(cur)+1)
	copy(next, cur)
	next[len(cur)] = term
	return s.apply("specialTerms.customTerms", next)
}

// RemoveCustomTerm removes the custom term at index.
func (s *Session) RemoveCustomTerm(index int) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	cur := s.contract.SpecialTerms.CustomTerms
	if index < 0 || index >= len(cur) {
		return &ValidationError{Message: fmt.Sprintf("no custom term at index %d", index)}
	}
	next := make([]model.CustomTerm, 0, len(cur)-1)
	next = append(next, cur[:index]...)
	next = append(next, cur[index+1:]...)
	return s.apply("specialTerms.customTerms", next)
}

// ToggleStandardTerm adds the title to the standard-term selection if
// absent, or removes it if present.
func (s *Session) ToggleStandardTerm(title string) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	cur := s.contract.SpecialTerms.StandardTerms
	next := make([]string, 0, len(cur)+1)
	removed := false
	for _, t := range cur {
		if t == title {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if !removed {
		next = append(next, title)
	}
	return s.apply("specialTerms.standardTerms", next)
}

// ExtractRegistry runs a register document through the extraction service
// and merges the result: address, land, owners and encumbrances replace
// their subtrees wholesale (missing arrays become empty), while building
// fields merge one by one. A failed extraction alters nothing.
func (s *Session) ExtractRegistry(ctx context.Context, document []byte, mimeType string) (*model.RegistryExtraction, error) {
	if s.contract.Status == model.StatusCompleted {
		return nil, ErrContractCompleted
	}
	s.begin()
	defer s.end()

	res, err := s.extractor.ExtractRegistry(ctx, document, mimeType)
	if err != nil {
		return nil, s.fail("extract registry", "failed to extract registry information", err)
	}

	prop := *s.contract.Property
	prop.Address = res.Address
	if res.Land != nil {
		land := *res.Land
		prop.Land = &land
	} else {
		prop.Land = &model.Land{}
	}
	prop.Building = res.Building.MergeInto(s.contract.Property.Building)

	owners := res.Owners
	if owners == nil {
		owners = []model.Owner{}
	}
	encumbrances := res.Encumbrances
	if encumbrances == nil {
		encumbrances = []model.Encumbrance{}
	}

	next := *s.contract
	next.Property = &prop
	next.Registry = &model.Registry{Owners: owners, Encumbrances: encumbrances}
	s.contract = &next
	return res, nil
}

// ExtractParty extracts party fields from a business registration
// certificate or ID card. The result is returned for the caller to review;
// nothing is merged until ApplyExtractedParty.
func (s *Session) ExtractParty(ctx context.Context, document []byte, mimeType, kind string) (*model.PartyExtraction, error) {
	s.begin()
	defer s.end()

	res, err := s.extractor.ExtractParty(ctx, document, mimeType, kind)
	if err != nil {
		return nil, s.fail("extract party", "failed to extract party information", err)
	}
	return res, nil
}

// SearchTerms queries the special-terms library. Results are held in
// transient session state until promoted into the contract.
func (s *Session) SearchTerms(ctx context.Context, keyword string) ([]model.SpecialTerm, error) {
	s.begin()
	defer s.end()

	terms, err := s.terms.Search(ctx, keyword)
	if err != nil {
		s.searched = nil
		return nil, s.fail("search terms", "failed to search special terms", err)
	}
	s.searched = terms
	return terms, nil
}

// SearchedTerms returns the last search result.
func (s *Session) SearchedTerms() []model.SpecialTerm {
	return s.searched
}

// GenerateTerms asks the generation service for a three-variant term bundle
// for the described situation. Defaults for the contract context come from
// the aggregate.
func (s *Session) GenerateTerms(ctx context.Context, situation string, opts GenerateOptions) (*model.GeneratedTerms, error) {
	if strings.TrimSpace(situation) == "" {
		return nil, &ValidationError{Message: "situation description is required"}
	}
	if opts.BuildingType == "" {
		opts.BuildingType = s.contract.Property.Building.Usage
	}
	if opts.BuildingType == "" {
		opts.BuildingType = "업무시설"
	}
	if opts.TransactionType == "" {
		opts.TransactionType = "임대차"
	}

	s.begin()
	defer s.end()

	res, err := s.terms.Generate(ctx, situation, opts)
	if err != nil {
		return nil, s.fail("generate terms", "failed to generate special terms", err)
	}
	s.generated = res
	return res, nil
}

// GeneratedTerms returns the last generated bundle, nil if none.
func (s *Session) GeneratedTerms() *model.GeneratedTerms {
	return s.generated
}

// PromoteGeneratedTerm copies one variant of the last generated bundle into
// the contract's custom terms with AI provenance.
func (s *Session) PromoteGeneratedTerm(favor string) error {
	if s.generated == nil {
		return &ValidationError{Message: "no generated terms to promote"}
	}
	v := s.generated.Variant(favor)
	return s.AddCustomTerm(model.CustomTerm{
		Content:  v.Content,
		Source:   model.TermSourceAI,
		Keywords: v.Keywords,
	})
}

// Save persists the draft: a create on first call, an update against the
// remembered identifier afterwards. Calling it twice in a row never creates
// two documents.
func (s *Session) Save(ctx context.Context) error {
	if s.contract.Status == model.StatusCompleted {
		return ErrContractCompleted
	}
	s.begin()
	defer s.end()
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	if s.id == "" {
		stored, err := s.contracts.Create(ctx, s.contract)
		if err != nil {
			return s.fail("save", "failed to save contract", err)
		}
		s.id = stored.ID
		next := *s.contract
		next.ID = stored.ID
		next.ContractNumber = stored.ContractNumber
		s.contract = &next
		return nil
	}
	if err := s.contracts.Update(ctx, s.id, s.contract); err != nil {
		return s.fail("save", "failed to save contract", err)
	}
	return nil
}

// Complete finalizes the contract: it is persisted first (create if never
// saved), then the server-side finalize transitions it to completed and
// produces the document artifact. The local aggregate adopts the completed
// status and the artifact reference. Completing an already completed
// contract is a no-op.
func (s *Session) Complete(ctx context.Context) error {
	if s.contract.Status == model.StatusCompleted {
		return nil
	}
	s.begin()
	defer s.end()

	if err := s.save(ctx); err != nil {
		return err
	}
	pdfURL, err := s.contracts.Complete(ctx, s.id)
	if err != nil {
		return s.fail("complete", "failed to complete contract", err)
	}
	next := *s.contract
	next.Status = model.StatusCompleted
	next.PDFURL = pdfURL
	s.contract = &next
	return nil
}

// Load fetches a contract by identifier and replaces the local aggregate
// wholesale. The wizard position is left unchanged.
func (s *Session) Load(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	c, err := s.contracts.Get(ctx, id)
	if err != nil {
		return s.fail("load", "failed to load contract", err)
	}
	s.contract = c
	s.id = id
	return nil
}

// Reset discards the session: default aggregate, no identifier, first step,
// no transient results.
func (s *Session) Reset() {
	s.contract = model.NewContract()
	s.id = ""
	s.steps.Reset()
	s.searched = nil
	s.generated = nil
	s.errMsg = ""
}

func (s *Session) begin() {
	s.busy = true
	s.errMsg = ""
}

func (s *Session) end() {
	s.busy = false
}

func (s *Session) fail(op, msg string, err error) error {
	s.errMsg = msg
	return &ServiceError{Op: op, Message: msg, Err: err}
}
