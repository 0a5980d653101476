package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kyeongry/fastmatch-admin-sub002/middleware"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
	"github.com/kyeongry/fastmatch-admin-sub002/service"
)

// LeaseHandler exposes the contract lifecycle over REST: draft CRUD,
// listing and completion.
type LeaseHandler struct {
	repo    service.ContractRepository
	gateway *service.ContractGateway
}

// NewLeaseHandler wires the contract endpoints. Renderer and storage may be
// nil; completion then skips PDF generation.
func NewLeaseHandler(repo service.ContractRepository, renderer *service.RendererService, storage *service.DocumentStorage) *LeaseHandler {
	return &LeaseHandler{
		repo:    repo,
		gateway: service.NewContractGateway(repo, renderer, storage),
	}
}

// Create stores a new draft contract.
func (h *LeaseHandler) Create(c *gin.Context) {
	contract := model.NewContract()
	if err := c.ShouldBindJSON(contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract body: " + err.Error()})
		return
	}

	contract.Status = model.StatusDraft
	contract.CreatedBy = middleware.GetAgency(c)

	created, err := h.repo.Create(c.Request.Context(), contract)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get returns a single contract.
func (h *LeaseHandler) Get(c *gin.Context) {
	contract, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Update replaces a draft contract. Completed contracts reject updates.
func (h *LeaseHandler) Update(c *gin.Context) {
	id := c.Param("id")

	existing, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract: " + err.Error()})
		return
	}
	if existing.Status == model.StatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Completed contracts cannot be modified"})
		return
	}

	contract := model.NewContract()
	if err := c.ShouldBindJSON(contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract body: " + err.Error()})
		return
	}
	contract.Status = existing.Status
	contract.CreatedBy = existing.CreatedBy

	if err := h.repo.Update(c.Request.Context(), id, contract); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract: " + err.Error()})
		return
	}

	updated, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a contract.
func (h *LeaseHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

// List returns contracts newest first, optionally filtered by status, with
// page/limit pagination. A search query switches to keyword search over
// contract numbers, addresses and party names.
func (h *LeaseHandler) List(c *gin.Context) {
	if keyword := c.Query("search"); keyword != "" {
		contracts, err := h.repo.Search(c.Request.Context(), keyword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"contracts": summarize(contracts),
			"total":     len(contracts),
		})
		return
	}

	filter := service.ListFilter{
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}

	contracts, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contracts: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": summarize(contracts),
		"total":     total,
		"page":      filter.Page,
		"limit":     filter.Limit,
	})
}

// Complete renders the final PDF, stores it and marks the contract
// completed. Completing an already completed contract returns it unchanged.
func (h *LeaseHandler) Complete(c *gin.Context) {
	completed, err := h.gateway.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete contract: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, completed)
}

// summarize trims contracts down for list views.
func summarize(contracts []*model.Contract) []gin.H {
	result := make([]gin.H, len(contracts))
	for i, contract := range contracts {
		item := gin.H{
			"id":             contract.ID,
			"contractNumber": contract.ContractNumber,
			"status":         contract.Status,
			"createdAt":      contract.CreatedAt,
			"updatedAt":      contract.UpdatedAt,
		}
		if contract.Property != nil {
			item["address"] = contract.Property.Address
		}
		if contract.Terms != nil {
			item["deposit"] = contract.Terms.Deposit
			item["monthlyRent"] = contract.Terms.MonthlyRent
		}
		result[i] = item
	}
	return result
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
