package service

import (
	"context"
	"fmt"

	"github.com/kyeongry/fastmatch-admin-sub002/engine"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
)

// ContractGateway drives the contract lifecycle over a repository plus the
// optional PDF pipeline. It backs both the REST completion endpoint and
// in-process editing sessions.
type ContractGateway struct {
	repo     ContractRepository
	renderer *RendererService
	storage  *DocumentStorage
}

// NewContractGateway assembles the lifecycle gateway. Renderer and storage
// may be nil; completion then skips PDF generation.
func NewContractGateway(repo ContractRepository, renderer *RendererService, storage *DocumentStorage) *ContractGateway {
	return &ContractGateway{
		repo:     repo,
		renderer: renderer,
		storage:  storage,
	}
}

func (g *ContractGateway) Create(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	return g.repo.Create(ctx, c)
}

func (g *ContractGateway) Update(ctx context.Context, id string, c *model.Contract) error {
	return g.repo.Update(ctx, id, c)
}

func (g *ContractGateway) Get(ctx context.Context, id string) (*model.Contract, error) {
	return g.repo.Get(ctx, id)
}

// Finalize renders the contract PDF, stores it and marks the contract
// completed. An already completed contract is returned unchanged.
func (g *ContractGateway) Finalize(ctx context.Context, id string) (*model.Contract, error) {
	c, err := g.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == model.StatusCompleted {
		return c, nil
	}

	pdfURL := ""
	if g.renderer != nil && g.storage != nil {
		pdf, err := g.renderer.Render(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("failed to render contract: %w", err)
		}
		objectName, err := g.storage.UploadPDF(ctx, c.ID, pdf)
		if err != nil {
			return nil, fmt.Errorf("failed to store pdf: %w", err)
		}
		pdfURL, err = g.storage.PresignedURL(ctx, objectName)
		if err != nil {
			return nil, fmt.Errorf("failed to build pdf url: %w", err)
		}
	}

	return g.repo.MarkCompleted(ctx, id, pdfURL)
}

func (g *ContractGateway) Complete(ctx context.Context, id string) (string, error) {
	c, err := g.Finalize(ctx, id)
	if err != nil {
		return "", err
	}
	return c.PDFURL, nil
}

// TermsGateway serves session term lookups from the in-process library and
// routes generation to Gemini.
type TermsGateway struct {
	library *TermsLibrary
	gemini  *GeminiService
}

func NewTermsGateway(library *TermsLibrary, gemini *GeminiService) *TermsGateway {
	return &TermsGateway{
		library: library,
		gemini:  gemini,
	}
}

func (g *TermsGateway) Search(ctx context.Context, keyword string) ([]model.SpecialTerm, error) {
	return g.library.Search(keyword, ""), nil
}

func (g *TermsGateway) Generate(ctx context.Context, situation string, opts engine.GenerateOptions) (*model.GeneratedTerms, error) {
	return g.gemini.GenerateSpecialTerms(ctx, situation, opts.BuildingType, opts.TransactionType)
}

var (
	_ engine.ContractService   = (*ContractGateway)(nil)
	_ engine.ExtractionService = (*GeminiService)(nil)
	_ engine.TermsService      = (*TermsGateway)(nil)
)

// NewWizardSession wires an editing session to the live services: contracts
// persist through the repository, extraction and generation go to Gemini,
// term search hits the library.
func NewWizardSession(repo ContractRepository, gemini *GeminiService, library *TermsLibrary, renderer *RendererService, storage *DocumentStorage) *engine.Session {
	return engine.NewSession(
		NewContractGateway(repo, renderer, storage),
		gemini,
		NewTermsGateway(library, gemini),
	)
}
