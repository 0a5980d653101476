package paths

import (
	"errors"
	"testing"
)

type testLand struct {
	Category string  `json:"category"`
	Area     float64 `json:"area"`
}

type testProperty struct {
	Address string    `json:"address"`
	Land    *testLand `json:"land"`
}

type testPeriod struct {
	Months int `json:"months"`
}

type testTerms struct {
	Deposit int64       `json:"deposit"`
	Period  *testPeriod `json:"contractPeriod"`
}

type testParty struct {
	Name string `json:"name"`
}

type testRoot struct {
	Number   string        `json:"number"`
	Property *testProperty `json:"property"`
	Terms    *testTerms    `json:"terms"`
	Parties  []*testParty  `json:"parties"`
	Tags     []string      `json:"tags"`
	Hidden   string        `json:"-"`
	Untagged int
}

func newTestRoot() *testRoot {
	return &testRoot{
		Number: "LC-001",
		Property: &testProperty{
			Address: "original address",
			Land:    &testLand{Category: "대", Area: 100},
		},
		Terms: &testTerms{
			Deposit: 1000,
			Period:  &testPeriod{Months: 24},
		},
		Parties: []*testParty{{Name: "A"}, {Name: "B"}},
		Tags:    []string{"one", "two"},
	}
}

func TestSetTopLevelField(t *testing.T) {
	root := newTestRoot()

	updated, err := Set(root, "number", "LC-002")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	next := updated.(*testRoot)
	if next.Number != "LC-002" {
		t.Errorf("Expected LC-002, got %s", next.Number)
	}
	if root.Number != "LC-001" {
		t.Error("Original tree was modified")
	}
	if next == root {
		t.Error("Expected a new root allocation")
	}
}

func TestSetNestedFieldStructuralSharing(t *testing.T) {
	root := newTestRoot()

	updated, err := Set(root, "property.land.category", "전")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	next := updated.(*testRoot)

	if next.Property.Land.Category != "전" {
		t.Errorf("Expected category 전, got %s", next.Property.Land.Category)
	}
	if root.Property.Land.Category != "대" {
		t.Error("Original tree was modified")
	}

	// Ancestors of the edited field are fresh allocations
	if next.Property == root.Property {
		t.Error("Expected property node to be re-allocated")
	}
	if next.Property.Land == root.Property.Land {
		t.Error("Expected land node to be re-allocated")
	}

	// Siblings keep their identity
	if next.Terms != root.Terms {
		t.Error("Expected untouched terms subtree to keep its identity")
	}
	if next.Property.Address != root.Property.Address {
		t.Error("Expected sibling field to keep its value")
	}
}

func TestSetThroughSliceIndex(t *testing.T) {
	root := newTestRoot()

	updated, err := Set(root, "parties.1.name", "C")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	next := updated.(*testRoot)

	if next.Parties[1].Name != "C" {
		t.Errorf("Expected C, got %s", next.Parties[1].Name)
	}
	if root.Parties[1].Name != "B" {
		t.Error("Original tree was modified")
	}
	if next.Parties[0] != root.Parties[0] {
		t.Error("Expected untouched element to keep its identity")
	}
}

func TestSetSliceElement(t *testing.T) {
	root := newTestRoot()

	updated, err := Set(root, "tags.0", "replaced")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	next := updated.(*testRoot)

	if next.Tags[0] != "replaced" {
		t.Errorf("Expected replaced, got %s", next.Tags[0])
	}
	if root.Tags[0] != "one" {
		t.Error("Original slice was modified")
	}
}

func TestSetNumericConversion(t *testing.T) {
	root := newTestRoot()

	updated, err := Set(root, "terms.deposit", 5000)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if updated.(*testRoot).Terms.Deposit != 5000 {
		t.Error("Expected int converted to int64")
	}

	updated, err = Set(root, "property.land.area", 250)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if updated.(*testRoot).Property.Land.Area != 250 {
		t.Error("Expected int converted to float64")
	}
}

func TestSetNilClearsField(t *testing.T) {
	root := newTestRoot()

	updated, err := Set(root, "property.land", nil)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if updated.(*testRoot).Property.Land != nil {
		t.Error("Expected land cleared to nil")
	}
	if root.Property.Land == nil {
		t.Error("Original tree was modified")
	}
}

func TestSetResolutionErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"unknown segment", "property.nosuch"},
		{"empty path", ""},
		{"index out of range", "parties.5.name"},
		{"non-numeric index", "parties.x.name"},
		{"descend through scalar", "number.x"},
		{"json dash field", "hidden.x"},
	}

	root := newTestRoot()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Set(root, tt.path, "v")
			var re *ResolutionError
			if !errors.As(err, &re) {
				t.Errorf("Expected ResolutionError, got %v", err)
			}
		})
	}
}

func TestSetNilIntermediate(t *testing.T) {
	root := newTestRoot()
	root.Property.Land = nil

	_, err := Set(root, "property.land.category", "전")
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if re.Segment != "land" {
		t.Errorf("Expected failure at segment land, got %s", re.Segment)
	}
}

func TestSetTypeMismatch(t *testing.T) {
	root := newTestRoot()

	if _, err := Set(root, "number", 42); err == nil {
		t.Error("Expected error assigning int to string")
	}
}

func TestSetInvalidRoot(t *testing.T) {
	if _, err := Set(nil, "number", "x"); err == nil {
		t.Error("Expected error for nil root")
	}
	if _, err := Set(testRoot{}, "number", "x"); err == nil {
		t.Error("Expected error for non-pointer root")
	}
}

func TestSetFallsBackToFieldName(t *testing.T) {
	root := newTestRoot()

	updated, err := Set(root, "untagged", 7)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if updated.(*testRoot).Untagged != 7 {
		t.Error("Expected field-name fallback to resolve")
	}
}

func TestGet(t *testing.T) {
	root := newTestRoot()

	v, err := Get(root, "property.land.category")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.(string) != "대" {
		t.Errorf("Expected 대, got %v", v)
	}

	v, err = Get(root, "parties.1.name")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.(string) != "B" {
		t.Errorf("Expected B, got %v", v)
	}

	if _, err := Get(root, "property.nosuch"); err == nil {
		t.Error("Expected error for unknown path")
	}
	if _, err := Get(root, ""); err == nil {
		t.Error("Expected error for empty path")
	}

	root.Terms = nil
	if _, err := Get(root, "terms.deposit"); err == nil {
		t.Error("Expected error resolving through nil pointer")
	}
}
