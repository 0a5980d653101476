package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kyeongry/fastmatch-admin-sub002/config"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
)

// ErrNotFound is returned when a contract id does not exist in the store.
var ErrNotFound = errors.New("contract not found")

// ListFilter narrows and pages a contract listing.
type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

// ContractRepository is the persistence surface for lease contracts. Create
// assigns the identifier and contract number; MarkCompleted performs the
// one-way draft to completed transition.
type ContractRepository interface {
	Create(ctx context.Context, c *model.Contract) (*model.Contract, error)
	Update(ctx context.Context, id string, c *model.Contract) error
	Get(ctx context.Context, id string) (*model.Contract, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*model.Contract, int, error)
	Search(ctx context.Context, keyword string) ([]*model.Contract, error)
	MarkCompleted(ctx context.Context, id, pdfURL string) (*model.Contract, error)
}

// ContractStore is an in-memory contract repository, the default backend
// for single-node deployments.
type ContractStore struct {
	contracts    map[string]*model.Contract
	mu           sync.RWMutex
	maxContracts int // maximum drafts to keep, 0 = unlimited
}

// NewContractStore creates an in-memory store with the configured retention.
func NewContractStore(cfg *config.StoreConfig) *ContractStore {
	maxContracts := cfg.MaxContracts
	if maxContracts < 0 {
		maxContracts = 0
	}
	slog.Info("contract store initialized", "max_contracts", maxContracts)
	return &ContractStore{
		contracts:    make(map[string]*model.Contract),
		maxContracts: maxContracts,
	}
}

func (s *ContractStore) Create(_ context.Context, c *model.Contract) (*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	stored.ID = uuid.New().String()
	stored.ContractNumber = model.GenerateContractNumber()
	stored.Status = model.StatusDraft
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.contracts[stored.ID] = &stored

	s.cleanupIfNeeded()
	return &stored, nil
}

func (s *ContractStore) Update(_ context.Context, id string, c *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.contracts[id]
	if !ok {
		return ErrNotFound
	}
	stored := *c
	stored.ID = id
	stored.ContractNumber = prev.ContractNumber
	stored.CreatedAt = prev.CreatedAt
	stored.UpdatedAt = time.Now()
	s.contracts[id] = &stored
	return nil
}

func (s *ContractStore) Get(_ context.Context, id string) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *ContractStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return ErrNotFound
	}
	delete(s.contracts, id)
	return nil
}

func (s *ContractStore) List(_ context.Context, filter ListFilter) ([]*model.Contract, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*model.Contract
	for _, c := range s.contracts {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= total {
		return []*model.Contract{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// Search matches the keyword against the property address, the contract
// number and party names, case-insensitively.
func (s *ContractStore) Search(_ context.Context, keyword string) ([]*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kw := strings.ToLower(keyword)
	var result []*model.Contract
	for _, c := range s.contracts {
		if matchesKeyword(c, kw) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func matchesKeyword(c *model.Contract, kw string) bool {
	if strings.Contains(strings.ToLower(c.ContractNumber), kw) {
		return true
	}
	if c.Property != nil && strings.Contains(strings.ToLower(c.Property.Address), kw) {
		return true
	}
	if c.Parties == nil {
		return false
	}
	for _, p := range c.Parties.Lessors {
		if strings.Contains(strings.ToLower(p.Name), kw) {
			return true
		}
	}
	for _, p := range c.Parties.Lessees {
		if strings.Contains(strings.ToLower(p.Name), kw) {
			return true
		}
	}
	return false
}

func (s *ContractStore) MarkCompleted(_ context.Context, id, pdfURL string) (*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	stored := *prev
	stored.Status = model.StatusCompleted
	stored.PDFURL = pdfURL
	stored.CompletedAt = time.Now()
	stored.UpdatedAt = stored.CompletedAt
	s.contracts[id] = &stored
	return &stored, nil
}

// cleanupIfNeeded removes the oldest drafts when the store exceeds its
// retention limit. Completed contracts are never evicted. Must be called
// with the lock held.
func (s *ContractStore) cleanupIfNeeded() {
	if s.maxContracts <= 0 {
		return // unlimited
	}

	var drafts []*model.Contract
	for _, c := range s.contracts {
		if c.Status == model.StatusDraft {
			drafts = append(drafts, c)
		}
	}
	if len(drafts) <= s.maxContracts {
		return
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].CreatedAt.Before(drafts[j].CreatedAt)
	})

	removeCount := len(drafts) - s.maxContracts
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old draft",
			"contract_id", drafts[i].ID,
			"contract_number", drafts[i].ContractNumber,
			"created_at", drafts[i].CreatedAt,
		)
		delete(s.contracts, drafts[i].ID)
	}
}

// Count returns the number of contracts in the store.
func (s *ContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}
