package model

import "time"

// Favor type constants for special terms.
const (
	FavorLessor  = "lessor"
	FavorLessee  = "lessee"
	FavorNeutral = "neutral"
)

// TermSourceDefault marks system-provided presets in the library.
const TermSourceDefault = "default"

// SpecialTerm is a reusable entry of the special-terms library, searchable
// by keyword and ranked by usage.
type SpecialTerm struct {
	ID         string    `json:"id"`
	Keywords   []string  `json:"keywords"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	FavorType  string    `json:"favorType"` // lessor | lessee | neutral
	UsageCount int       `json:"usageCount"`
	Source     string    `json:"source"` // manual | ai
	ContractID string    `json:"contractId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	CreatedBy  string    `json:"createdBy,omitempty"`
	IsActive   bool      `json:"isActive"`
}

// DefaultSpecialTerms are the system-provided presets seeded into the
// library at startup.
var DefaultSpecialTerms = []SpecialTerm{
	{
		ID:        "default-1",
		Keywords:  []string{"현황", "임대", "시설물", "상태"},
		Category:  "기타",
		Title:     "현황 임대",
		Content:   "본 계약은 현 시설물 상태(현장 방문 확인 완료)에서의 임대차 계약이다. 임대인은 잔금 지급일 전까지 현재의 시설 상태를 유지하여야 하며, 중대한 하자가 발생할 경우 이를 즉시 보수하여야 한다.",
		FavorType: FavorNeutral,
		Source:    TermSourceDefault,
		IsActive:  true,
	},
	{
		ID:        "default-2",
		Keywords:  []string{"면적", "공부상", "임대면적"},
		Category:  "기타",
		Title:     "임대 면적",
		Content:   "임대할 부분의 면적은 공부상의 면적을 기준으로 한다.",
		FavorType: FavorNeutral,
		Source:    TermSourceDefault,
		IsActive:  true,
	},
	{
		ID:        "default-3",
		Keywords:  []string{"관리비", "공과금", "전기", "수도", "가스"},
		Category:  "관리비",
		Title:     "관리비 및 공과금",
		Content:   "고정 관리비는 월 금 ___원(부가세 별도)이며, 매월 임대료 지급일에 선납한다. 관리비 범위: 공용부 청소, 승강기 유지비 등 건물 관리 일체",
		FavorType: FavorNeutral,
		Source:    TermSourceDefault,
		IsActive:  true,
	},
	{
		ID:        "default-4",
		Keywords:  []string{"중도해지", "승계", "해지"},
		Category:  "해지",
		Title:     "중도 해지 및 승계",
		Content:   "계약 기간 중 임차인의 사정으로 중도 해지할 경우, 임차인이 신규 임차인을 주선하여 임대인의 승인 하에 임대차 계약이 체결되고(임대인은 정당한 사유 없이 거절하지 않음), 중개보수 등 제반 비용을 부담하는 조건으로 계약을 해지할 수 있다. 단, 신규 임차인의 계약이 개시되기 전까지의 월 차임 및 관리비는 현 임차인이 부담한다.",
		FavorType: FavorNeutral,
		Source:    TermSourceDefault,
		IsActive:  true,
	},
	{
		ID:        "default-5",
		Keywords:  []string{"주차", "주차장", "차량"},
		Category:  "주차",
		Title:     "주차",
		Content:   "주차는 기계식 주차 1대를 무료로 제공한다.(단, 기계식 주차장에 입고 불가능한 차량의 경우 외부 주차 등을 임차인이 자체 해결해야 하며, 이에 대해 임대인은 책임지지 않는다.) 추가 주차 필요 시 협의 하에 월 ___원(부가세 별도)으로 추가할 수 있다.",
		FavorType: FavorNeutral,
		Source:    TermSourceDefault,
		IsActive:  true,
	},
}

// FixedSpecialTerms are always included in the final document regardless of
// selection.
var FixedSpecialTerms = []string{
	"기타사항은 상가건물임대차보호법 및 민법, 부동산 임대차 일반 관례에 따른다.",
	"첨부서류: 건축물대장, 등기사항전부증명서(토지, 건물), 확인설명서, 신탁원부",
}
