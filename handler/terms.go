package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kyeongry/fastmatch-admin-sub002/middleware"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
	"github.com/kyeongry/fastmatch-admin-sub002/service"
)

// TermsHandler exposes the special-terms library and AI term generation.
type TermsHandler struct {
	library *service.TermsLibrary
	gemini  *service.GeminiService
}

func NewTermsHandler(library *service.TermsLibrary, gemini *service.GeminiService) *TermsHandler {
	return &TermsHandler{
		library: library,
		gemini:  gemini,
	}
}

// Search returns library terms matching the keyword and category, most used
// first.
func (h *TermsHandler) Search(c *gin.Context) {
	terms := h.library.Search(c.Query("keyword"), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"terms": terms,
		"total": len(terms),
	})
}

// Defaults returns the preset terms plus the fixed clauses included in
// every document.
func (h *TermsHandler) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"terms": h.library.Defaults(),
		"fixed": h.library.Fixed(),
	})
}

type generateTermsRequest struct {
	Situation       string `json:"situation" binding:"required"`
	BuildingType    string `json:"buildingType"`
	TransactionType string `json:"transactionType"`
}

// Generate asks the model for lessor, lessee and neutral term variants for
// the described situation.
func (h *TermsHandler) Generate(c *gin.Context) {
	var req generateTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "situation is required"})
		return
	}
	if req.BuildingType == "" {
		req.BuildingType = "업무시설"
	}
	if req.TransactionType == "" {
		req.TransactionType = "임대차"
	}

	result, err := h.gemini.GenerateSpecialTerms(c.Request.Context(), req.Situation, req.BuildingType, req.TransactionType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Generation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type saveTermRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content" binding:"required"`
	Category   string   `json:"category"`
	Keywords   []string `json:"keywords"`
	FavorType  string   `json:"favorType"`
	Source     string   `json:"source"`
	ContractID string   `json:"contractId"`
}

// Save stores a term in the library for reuse.
func (h *TermsHandler) Save(c *gin.Context) {
	var req saveTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if req.Source == "" {
		req.Source = model.TermSourceManual
	}
	if req.FavorType == "" {
		req.FavorType = model.FavorNeutral
	}

	saved := h.library.Save(model.SpecialTerm{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Keywords:   req.Keywords,
		FavorType:  req.FavorType,
		Source:     req.Source,
		ContractID: req.ContractID,
		CreatedBy:  middleware.GetAgency(c),
	})

	c.JSON(http.StatusCreated, saved)
}

// Use bumps a term's usage count so it ranks higher in future searches.
func (h *TermsHandler) Use(c *gin.Context) {
	id := c.Param("id")
	if h.library.Get(id) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}

	h.library.IncrementUsage(id)
	c.JSON(http.StatusOK, gin.H{"message": "Usage recorded"})
}
