package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kyeongry/fastmatch-admin-sub002/config"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
)

// geminiStub serves a fixed generateContent response and records the request.
func geminiStub(t *testing.T, responseText string, lastBody *geminiRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if lastBody != nil {
			if err := json.NewDecoder(r.Body).Decode(lastBody); err != nil {
				t.Errorf("Failed to decode request: %v", err)
			}
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]any{{"text": responseText}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newGeminiClient(url string) *GeminiService {
	return NewGeminiService(&config.GeminiConfig{
		APIURL: url,
		APIKey: "test-key",
		Model:  "gemini-1.5-pro",
	})
}

func TestGeminiExtractRegistry(t *testing.T) {
	extraction := "```json\n" + `{
		"address": "서울특별시 강남구 테헤란로 123",
		"land": {"category": "대", "area": 300.5},
		"building": {"structure": "철근콘크리트", "totalArea": 1200},
		"owners": [{"name": "홍길동", "address": "서울", "share": ""}],
		"encumbrances": [{"type": "근저당권", "holder": "은행", "amount": 500000000, "date": "2023-05-10"}]
	}` + "\n```"

	var captured geminiRequest
	server := geminiStub(t, extraction, &captured)
	defer server.Close()

	svc := newGeminiClient(server.URL)
	res, err := svc.ExtractRegistry(context.Background(), []byte("binary-doc"), "application/pdf")
	if err != nil {
		t.Fatalf("ExtractRegistry failed: %v", err)
	}

	if res.Address != "서울특별시 강남구 테헤란로 123" {
		t.Errorf("Unexpected address: %s", res.Address)
	}
	if res.Land == nil || res.Land.Category != "대" {
		t.Error("Expected land extracted")
	}
	if res.Building.Structure == nil || *res.Building.Structure != "철근콘크리트" {
		t.Error("Expected building structure extracted")
	}
	if res.Building.Usage != nil {
		t.Error("Expected absent building field to stay nil")
	}
	if len(res.Owners) != 1 || res.Owners[0].Name != "홍길동" {
		t.Error("Expected owner extracted")
	}
	if len(res.Encumbrances) != 1 {
		t.Fatalf("Expected 1 encumbrance, got %d", len(res.Encumbrances))
	}
	e := res.Encumbrances[0]
	if e.Amount != 500000000 {
		t.Errorf("Unexpected amount: %d", e.Amount)
	}
	if e.Date.Year() != 2023 || e.Date.Month() != 5 || e.Date.Day() != 10 {
		t.Errorf("Unexpected date: %v", e.Date)
	}

	// Request carries prompt plus inline document
	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatal("Expected one content with prompt and inline data")
	}
	inline := captured.Contents[0].Parts[1].InlineData
	if inline == nil || inline.MimeType != "application/pdf" {
		t.Error("Expected inline document with mime type")
	}
	if inline.Data == "" {
		t.Error("Expected base64 document data")
	}
}

func TestGeminiExtractRegistryBadEncumbranceDate(t *testing.T) {
	extraction := `{
		"address": "서울",
		"encumbrances": [
			{"type": "근저당권", "holder": "은행", "amount": 100, "date": "2023년 5월"},
			{"type": "가압류", "holder": "법원", "amount": 200, "date": ""}
		]
	}`
	server := geminiStub(t, extraction, nil)
	defer server.Close()

	svc := newGeminiClient(server.URL)
	res, err := svc.ExtractRegistry(context.Background(), []byte("doc"), "application/pdf")
	if err != nil {
		t.Fatalf("ExtractRegistry failed: %v", err)
	}

	if len(res.Encumbrances) != 2 {
		t.Fatalf("Expected 2 encumbrances, got %d", len(res.Encumbrances))
	}
	if !res.Encumbrances[0].Date.IsZero() {
		t.Errorf("Expected zero date for unparseable value, got %v", res.Encumbrances[0].Date)
	}
	if !res.Encumbrances[1].Date.IsZero() {
		t.Errorf("Expected zero date for empty value, got %v", res.Encumbrances[1].Date)
	}
}

func TestGeminiExtractParty(t *testing.T) {
	business := `{"companyName": "주식회사 테스트", "businessRegNumber": "123-45-67890", "representative": "홍길동", "address": "서울"}`
	server := geminiStub(t, business, nil)
	defer server.Close()

	svc := newGeminiClient(server.URL)
	res, err := svc.ExtractParty(context.Background(), []byte("doc"), "image/png", model.PartyBusiness)
	if err != nil {
		t.Fatalf("ExtractParty failed: %v", err)
	}
	if res.CompanyName != "주식회사 테스트" {
		t.Errorf("Unexpected company name: %s", res.CompanyName)
	}
	if res.BusinessRegNumber != "123-45-67890" {
		t.Errorf("Unexpected registration number: %s", res.BusinessRegNumber)
	}
}

func TestGeminiGenerateSpecialTerms(t *testing.T) {
	generated := "```json\n" + `{
		"lessor": {"content": "임대인 유리 문구", "keywords": ["해지"]},
		"lessee": {"content": "임차인 유리 문구", "keywords": ["해지"]},
		"neutral": {"content": "중립 문구", "keywords": ["해지"]}
	}` + "\n```"
	server := geminiStub(t, generated, nil)
	defer server.Close()

	svc := newGeminiClient(server.URL)
	res, err := svc.GenerateSpecialTerms(context.Background(), "중도 해지", "업무시설", "임대차")
	if err != nil {
		t.Fatalf("GenerateSpecialTerms failed: %v", err)
	}
	if res.Lessor.Content != "임대인 유리 문구" {
		t.Errorf("Unexpected lessor content: %s", res.Lessor.Content)
	}
	if res.Neutral.Content != "중립 문구" {
		t.Errorf("Unexpected neutral content: %s", res.Neutral.Content)
	}
}

func TestGeminiAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid"},
		})
	}))
	defer server.Close()

	svc := newGeminiClient(server.URL)
	_, err := svc.ExtractParty(context.Background(), []byte("doc"), "image/png", model.PartyIndividual)
	if err == nil {
		t.Fatal("Expected API error")
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("Expected API message in error, got %v", err)
	}
}

func TestGeminiEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	svc := newGeminiClient(server.URL)
	if _, err := svc.GenerateSpecialTerms(context.Background(), "상황", "업무시설", "임대차"); err == nil {
		t.Fatal("Expected error for empty response")
	}
}

func TestGeminiMalformedJSON(t *testing.T) {
	server := geminiStub(t, "죄송합니다, JSON을 생성할 수 없습니다.", nil)
	defer server.Close()

	svc := newGeminiClient(server.URL)
	if _, err := svc.ExtractRegistry(context.Background(), []byte("doc"), "application/pdf"); err == nil {
		t.Fatal("Expected parse error for non-JSON response")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
