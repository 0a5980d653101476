package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kyeongry/fastmatch-admin-sub002/config"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
	"github.com/kyeongry/fastmatch-admin-sub002/pkg/logger"
)

// GeminiService calls the Gemini generateContent API for registry
// extraction, party extraction and special-term generation. Every call is a
// one-shot request/response; callers decide what to do with the result.
type GeminiService struct {
	config     *config.GeminiConfig
	httpClient *http.Client
}

func NewGeminiService(cfg *config.GeminiConfig) *GeminiService {
	return &GeminiService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

const registryPrompt = `다음 등기부등본 이미지에서 아래 항목을 정확히 추출해주세요.
반드시 JSON 형식으로만 응답해주세요. 다른 텍스트는 포함하지 마세요.

추출 항목:
1. 소재지: 등기부에 기재된 주소 전체 (그대로 추출)
2. 토지: 지목, 면적(㎡), 대지권 종류, 대지권 비율
3. 건물: 구조, 용도, 연면적(㎡)
4. 소유자: 성명/법인명, 주소, 등록번호, 지분(공동소유 시)
5. 소유권 외 권리: 근저당권, 전세권, 임차권 등 (권리자, 금액, 설정일)

응답 형식:
{
  "address": "소재지 전체 주소",
  "land": {"category": "지목", "area": 숫자, "rightType": "대지권 종류", "rightRatio": "대지권 비율"},
  "building": {"structure": "구조", "usage": "용도", "totalArea": 숫자},
  "owners": [{"name": "성명/법인명", "address": "주소", "regNumber": "등록번호", "share": "지분 (단독이면 빈 문자열)"}],
  "encumbrances": [{"type": "권리 종류", "holder": "권리자", "amount": 숫자, "date": "YYYY-MM-DD"}]
}`

const businessPartyPrompt = `다음 사업자등록증 이미지에서 정보를 추출해주세요.
JSON 형식으로만 응답해주세요.

{
  "companyName": "상호/법인명",
  "businessRegNumber": "사업자등록번호",
  "corpRegNumber": "법인등록번호 (있는 경우)",
  "address": "사업장 소재지",
  "representative": "대표자 성명"
}`

const individualPartyPrompt = `다음 신분증 이미지에서 정보를 추출해주세요.
주민등록번호 뒷자리는 추출하지 마세요.
JSON 형식으로만 응답해주세요.

{
  "name": "성명",
  "idNumberFront": "주민등록번호 앞 6자리만",
  "address": "주소"
}`

// registryWire mirrors RegistryExtraction but keeps encumbrance dates as
// plain strings, since the model responds with YYYY-MM-DD.
type registryWire struct {
	Address      string              `json:"address"`
	Land         *model.Land         `json:"land"`
	Building     model.BuildingPatch `json:"building"`
	Owners       []model.Owner       `json:"owners"`
	Encumbrances []encumbranceWire   `json:"encumbrances"`
}

type encumbranceWire struct {
	Type   string `json:"type"`
	Holder string `json:"holder"`
	Amount int64  `json:"amount"`
	Date   string `json:"date"`
}

// ExtractRegistry extracts property, owner and encumbrance fields from a
// property register document.
func (s *GeminiService) ExtractRegistry(ctx context.Context, document []byte, mimeType string) (*model.RegistryExtraction, error) {
	text, err := s.generateContent(ctx, []geminiPart{
		{Text: registryPrompt},
		{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(document),
		}},
	})
	if err != nil {
		return nil, err
	}

	var wire registryWire
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	result := &model.RegistryExtraction{
		Address:  wire.Address,
		Land:     wire.Land,
		Building: wire.Building,
		Owners:   wire.Owners,
	}
	for _, e := range wire.Encumbrances {
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil && e.Date != "" {
			logger.Warn(ctx, "unparseable encumbrance date in extraction", "date", e.Date)
		}
		result.Encumbrances = append(result.Encumbrances, model.Encumbrance{
			Type:   e.Type,
			Holder: e.Holder,
			Amount: e.Amount,
			Date:   date,
		})
	}
	return result, nil
}

// ExtractParty extracts identity fields from a business registration
// certificate or an ID card, depending on kind.
func (s *GeminiService) ExtractParty(ctx context.Context, document []byte, mimeType, kind string) (*model.PartyExtraction, error) {
	prompt := businessPartyPrompt
	if kind == model.PartyIndividual {
		prompt = individualPartyPrompt
	}

	text, err := s.generateContent(ctx, []geminiPart{
		{Text: prompt},
		{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(document),
		}},
	})
	if err != nil {
		return nil, err
	}

	var result model.PartyExtraction
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	return &result, nil
}

// GenerateSpecialTerms produces three special-term variants for the
// described situation: lessor-favorable, lessee-favorable and neutral.
func (s *GeminiService) GenerateSpecialTerms(ctx context.Context, situation, buildingType, transactionType string) (*model.GeneratedTerms, error) {
	prompt := fmt.Sprintf(`부동산 임대차 계약의 특약사항을 생성해주세요.

상황: %s
건물 유형: %s (비주거용)
거래 유형: %s

다음 3가지 버전으로 작성해주세요:
1. 임대인 유리 버전: 임대인의 권리와 이익을 보호하는 문구
2. 임차인 유리 버전: 임차인의 권리와 이익을 보호하는 문구
3. 중립 버전: 양측의 권리를 균형있게 보호하는 문구

각 버전은 법적으로 유효하고 명확한 표현을 사용하고, 구체적인 조건과 절차를 명시해야 합니다.

반드시 JSON 형식으로만 응답해주세요:
{
  "lessor": {"content": "임대인 유리 버전 특약 문구", "keywords": ["관련", "키워드"]},
  "lessee": {"content": "임차인 유리 버전 특약 문구", "keywords": ["관련", "키워드"]},
  "neutral": {"content": "중립 버전 특약 문구 (권장)", "keywords": ["관련", "키워드"]}
}`, situation, buildingType, transactionType)

	text, err := s.generateContent(ctx, []geminiPart{{Text: prompt}})
	if err != nil {
		return nil, err
	}

	var result model.GeneratedTerms
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse generation response: %w", err)
	}
	return &result, nil
}

// generateContent performs one generateContent call and returns the text of
// the first candidate.
func (s *GeminiService) generateContent(ctx context.Context, parts []geminiPart) (string, error) {
	reqBody := geminiRequest{Contents: []geminiContent{{Parts: parts}}}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		s.config.APIURL, s.config.Model, s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini API error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFence removes a markdown code fence the model sometimes wraps
// around its JSON output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
