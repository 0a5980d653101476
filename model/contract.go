package model

import (
	"fmt"
	"math/rand"
	"time"
)

// Contract status constants
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// Party type constants
const (
	PartyBusiness   = "business"
	PartyIndividual = "individual"
)

// Party role constants
const (
	RoleOwner    = "owner"
	RoleAgent    = "agent"
	RoleJoint    = "joint"
	RoleLegalRep = "legal_rep"
)

// Payment type constants
const (
	PaymentPreliminary = "preliminary"
	PaymentDown        = "down"
	PaymentMiddle      = "middle"
	PaymentBalance     = "balance"
)

// Contract is the lease contract aggregate. Nested records are pointers so
// that path updates can re-allocate only the ancestors of an edited field
// while untouched subtrees keep their identity.
type Contract struct {
	ID             string `json:"id,omitempty"`
	ContractNumber string `json:"contractNumber"`
	Status         string `json:"status"`

	Property       *Property       `json:"property"`
	Registry       *Registry       `json:"registry"`
	Parties        *Parties        `json:"parties"`
	JointBrokerage *JointBrokerage `json:"jointBrokerage"`
	Terms          *Terms          `json:"terms"`
	Clauses        *Clauses        `json:"clauses"`
	SpecialTerms   *SpecialTerms   `json:"specialTerms"`
	Confirmation   *Confirmation   `json:"confirmation"`
	Brokerage      *Brokerage      `json:"brokerage"`

	PDFURL      string    `json:"pdfUrl,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// Property describes the leased object (STEP 1, extracted from the registry).
type Property struct {
	Address  string    `json:"address"`
	Land     *Land     `json:"land"`
	Building *Building `json:"building"`
}

type Land struct {
	Category   string  `json:"category"`
	Area       float64 `json:"area"`
	RightType  string  `json:"rightType"`
	RightRatio string  `json:"rightRatio"`
}

type Building struct {
	Structure        string  `json:"structure"`
	Usage            string  `json:"usage"`
	TotalArea        float64 `json:"totalArea"`
	LeaseFloor       string  `json:"leaseFloor"`
	LeaseArea        float64 `json:"leaseArea"`
	CompletionYear   int     `json:"completionYear"`
	Direction        string  `json:"direction"`
	SeismicDesign    bool    `json:"seismicDesign"`
	SeismicCapacity  string  `json:"seismicCapacity"`
	IsViolation      bool    `json:"isViolation"`
	ViolationContent string  `json:"violationContent"`
}

// Registry holds the extracted property register: owners and third-party
// rights. Populated only by the extraction gateway.
type Registry struct {
	Owners       []Owner       `json:"owners"`
	Encumbrances []Encumbrance `json:"encumbrances"`
}

type Owner struct {
	Name      string `json:"name"`
	RegNumber string `json:"regNumber"`
	Address   string `json:"address"`
	Share     string `json:"share"`
}

type Encumbrance struct {
	Type   string    `json:"type"`
	Holder string    `json:"holder"`
	Amount int64     `json:"amount"`
	Date   time.Time `json:"date"`
}

// Parties holds both sides of the contract (STEP 2). Each side may have
// multiple co-signers; exactly one per side carries IsRepresentative.
type Parties struct {
	Lessors []*Party `json:"lessors"`
	Lessees []*Party `json:"lessees"`
}

type Party struct {
	Type             string `json:"type"` // business | individual
	Name             string `json:"name"`
	IDNumber         string `json:"idNumber"`
	CorpRegNumber    string `json:"corpRegNumber"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Representative   string `json:"representative"`
	Role             string `json:"role"` // owner | agent | joint | legal_rep
	IsRepresentative bool   `json:"isRepresentative"`
}

// JointBrokerage is the optional second brokerage office, active only when
// Enabled is set.
type JointBrokerage struct {
	Enabled bool    `json:"enabled"`
	Broker  *Broker `json:"broker"`
}

type Broker struct {
	OfficeName     string `json:"officeName"`
	OfficeAddress  string `json:"officeAddress"`
	RegNumber      string `json:"regNumber"`
	Phone          string `json:"phone"`
	Representative string `json:"representative"`
	Agent          string `json:"agent"`
}

// Terms are the financial conditions (STEP 3).
type Terms struct {
	Deposit        int64           `json:"deposit"`
	Payments       []Payment       `json:"payments"`
	MonthlyRent    int64           `json:"monthlyRent"`
	RentPayDay     int             `json:"rentPayDay"`
	ContractPeriod *ContractPeriod `json:"contractPeriod"`
}

type Payment struct {
	Type      string    `json:"type"` // preliminary | down | middle | balance
	Amount    int64     `json:"amount"`
	Date      time.Time `json:"date"`
	Recipient string    `json:"recipient"`
}

// ContractPeriod carries the lease duration. EndDate is computed from
// StartDate, Months and IncludeFirstDay but stored as an ordinary field so a
// direct edit survives until one of the inputs changes again.
type ContractPeriod struct {
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Months          int       `json:"months"`
	IncludeFirstDay bool      `json:"includeFirstDay"`
}

// Clauses are the adjustable parameters of the boilerplate articles.
type Clauses struct {
	OverdueCount   int       `json:"overdueCount"`
	Clause6Content string    `json:"clause6Content"`
	Clause7Content string    `json:"clause7Content"`
	Clause8Content string    `json:"clause8Content"`
	DeliveryDate   time.Time `json:"deliveryDate"`
}

// SpecialTerms (STEP 4): selected standard term titles plus free-form custom
// terms tagged by provenance.
type SpecialTerms struct {
	UseAppendix   bool         `json:"useAppendix"`
	StandardTerms []string     `json:"standardTerms"`
	CustomTerms   []CustomTerm `json:"customTerms"`
}

type CustomTerm struct {
	Content  string   `json:"content"`
	Source   string   `json:"source"` // manual | existing | ai
	Keywords []string `json:"keywords"`
}

// Custom term provenance constants
const (
	TermSourceManual   = "manual"
	TermSourceExisting = "existing"
	TermSourceAI       = "ai"
)

// Confirmation is the disclosure statement for non-residential buildings
// (STEP 5). Deeply nested but behaviorally inert: no field here feeds a
// derived calculation.
type Confirmation struct {
	ActualLandUse     string         `json:"actualLandUse"`
	ActualBuildingUse string         `json:"actualBuildingUse"`
	PrivateRental     *PrivateRental `json:"privateRental"`
	RenewalRight      *RenewalRight  `json:"renewalRight"`
	Location          *Location      `json:"location"`
	Management        *Management    `json:"management"`
	ActualRights      string         `json:"actualRights"`
	Facilities        *Facilities    `json:"facilities"`
	Interior          *Interior      `json:"interior"`
}

type PrivateRental struct {
	Type             string    `json:"type"` // none | long_term | public_support | other
	OtherType        string    `json:"otherType"`
	ObligationPeriod string    `json:"obligationPeriod"`
	StartDate        time.Time `json:"startDate"`
}

type RenewalRight struct {
	Status      string `json:"status"` // confirmed | unconfirmed | not_applicable
	HasDocument bool   `json:"hasDocument"`
}

type Location struct {
	Road            Road            `json:"road"`
	Accessibility   string          `json:"accessibility"` // easy | difficult
	PublicTransport PublicTransport `json:"publicTransport"`
	Parking         string          `json:"parking"` // none | exclusive | shared | other
	ParkingNote     string          `json:"parkingNote"`
}

type Road struct {
	Width1 float64 `json:"width1"`
	Width2 float64 `json:"width2"`
	Paved  bool    `json:"paved"`
}

type PublicTransport struct {
	Bus    Transit `json:"bus"`
	Subway Transit `json:"subway"`
}

type Transit struct {
	Station string `json:"station"`
	Time    int    `json:"time"`
	Method  string `json:"method"`
}

type Management struct {
	Security bool   `json:"security"`
	Type     string `json:"type"` // outsourced | self | other
	TypeNote string `json:"typeNote"`
}

type Facilities struct {
	Water           WaterCondition `json:"water"`
	Electricity     Electricity    `json:"electricity"`
	Gas             Gas            `json:"gas"`
	Fire            FireSafety     `json:"fire"`
	Heating         Heating        `json:"heating"`
	Elevator        Elevator       `json:"elevator"`
	Drainage        Drainage       `json:"drainage"`
	OtherFacilities string         `json:"otherFacilities"`
}

type WaterCondition struct {
	Damaged              bool   `json:"damaged"`
	DamagedLocation      string `json:"damagedLocation"`
	Sufficient           bool   `json:"sufficient"`
	InsufficientLocation string `json:"insufficientLocation"`
}

type Electricity struct {
	Normal      bool   `json:"normal"`
	ReplaceNote string `json:"replaceNote"`
}

type Gas struct {
	Type     string `json:"type"` // city_gas | lpg | none
	TypeNote string `json:"typeNote"`
}

type FireSafety struct {
	FirePlug      FireDevice `json:"firePlug"`
	EmergencyBell FireDevice `json:"emergencyBell"`
}

type FireDevice struct {
	Exists   bool   `json:"exists"`
	Location string `json:"location"`
}

type Heating struct {
	Supply     string `json:"supply"`  // central | individual
	Working    string `json:"working"` // normal | repair | unknown
	RepairNote string `json:"repairNote"`
	YearsUsed  int    `json:"yearsUsed"`
	Fuel       string `json:"fuel"` // city_gas | oil | propane | coal | other
	FuelNote   string `json:"fuelNote"`
}

type Elevator struct {
	Exists    bool   `json:"exists"`
	Condition string `json:"condition"`
}

type Drainage struct {
	Normal     bool   `json:"normal"`
	RepairNote string `json:"repairNote"`
}

type Interior struct {
	WallCrack SpotCheck `json:"wallCrack"`
	WallLeak  SpotCheck `json:"wallLeak"`
	Floor     string    `json:"floor"` // clean | normal | repair
	FloorNote string    `json:"floorNote"`
}

type SpotCheck struct {
	Exists   bool   `json:"exists"`
	Location string `json:"location"`
}

// Brokerage fee record. Amount and Total are derived; Expense is direct user
// input folded into Total.
type Brokerage struct {
	Rate           float64 `json:"rate"` // percent
	Amount         int64   `json:"amount"`
	Expense        int64   `json:"expense"`
	Total          int64   `json:"total"`
	PaymentTime    string  `json:"paymentTime"`
	IsNegotiated   bool    `json:"isNegotiated"`
	NegotiatedNote string  `json:"negotiatedNote"`
}

// NewContract returns a draft contract with the default wizard shape: one
// business lessor and lessee, a 24-month period without first-day counting,
// the standard special-term selection, and the 0.9% brokerage rate.
func NewContract() *Contract {
	return &Contract{
		Status: StatusDraft,
		Property: &Property{
			Land:     &Land{},
			Building: &Building{},
		},
		Registry: &Registry{
			Owners:       []Owner{},
			Encumbrances: []Encumbrance{},
		},
		Parties: &Parties{
			Lessors: []*Party{NewRepresentativeParty()},
			Lessees: []*Party{NewRepresentativeParty()},
		},
		JointBrokerage: &JointBrokerage{
			Broker: &Broker{},
		},
		Terms: &Terms{
			Payments:   []Payment{},
			RentPayDay: 25,
			ContractPeriod: &ContractPeriod{
				Months:          24,
				IncludeFirstDay: false,
			},
		},
		Clauses: &Clauses{
			OverdueCount: 3,
		},
		SpecialTerms: &SpecialTerms{
			StandardTerms: []string{"현황임대", "임대면적", "관리비", "중도해지", "주차"},
			CustomTerms:   []CustomTerm{},
		},
		Confirmation: defaultConfirmation(),
		Brokerage: &Brokerage{
			Rate:        0.9,
			PaymentTime: "잔금지급시",
		},
	}
}

// NewRepresentativeParty returns the default first party of a side: a
// business entity acting as owner and representative.
func NewRepresentativeParty() *Party {
	return &Party{
		Type:             PartyBusiness,
		Role:             RoleOwner,
		IsRepresentative: true,
	}
}

// NewJointParty returns an additional co-signer added to a side.
func NewJointParty() *Party {
	return &Party{
		Type: PartyBusiness,
		Role: RoleJoint,
	}
}

func defaultConfirmation() *Confirmation {
	return &Confirmation{
		PrivateRental: &PrivateRental{Type: "none"},
		RenewalRight:  &RenewalRight{Status: "not_applicable"},
		Location: &Location{
			Road:          Road{Paved: true},
			Accessibility: "easy",
			PublicTransport: PublicTransport{
				Bus:    Transit{Method: "도보"},
				Subway: Transit{Method: "도보"},
			},
			Parking: "shared",
		},
		Management: &Management{
			Security: true,
			Type:     "outsourced",
		},
		Facilities: &Facilities{
			Water:       WaterCondition{Sufficient: true},
			Electricity: Electricity{Normal: true},
			Gas:         Gas{Type: "city_gas"},
			Fire: FireSafety{
				FirePlug:      FireDevice{Exists: true},
				EmergencyBell: FireDevice{Exists: true},
			},
			Heating: Heating{
				Supply:  "central",
				Working: "normal",
				Fuel:    "city_gas",
			},
			Elevator: Elevator{Exists: true, Condition: "양호"},
			Drainage: Drainage{Normal: true},
		},
		Interior: &Interior{Floor: "clean"},
	}
}

// GenerateContractNumber produces a contract number in the form
// LC-YYYYMMDD-XXXX.
func GenerateContractNumber() string {
	dateStr := time.Now().Format("20060102")
	return fmt.Sprintf("LC-%s-%04d", dateStr, rand.Intn(10000))
}
