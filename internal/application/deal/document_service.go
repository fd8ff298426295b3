package deal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/deal"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/infrastructure/printing"
)

// DocumentStore is the slice of object storage the document service needs
type DocumentStore interface {
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, objectKey string, expiresIn time.Duration) (string, time.Time, error)
}

// CompanyInfo is printed in document headers
type CompanyInfo struct {
	Name    string
	Details string
}

// DocumentService generates, renders and issues deal documents
type DocumentService struct {
	dealRepo  deal.Repository
	docRepo   deal.DocumentRepository
	allocator NumberAllocator
	engine    *printing.TemplateEngine
	renderer  printing.PDFRenderer
	store     DocumentStore
	company   CompanyInfo
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	dealRepo deal.Repository,
	docRepo deal.DocumentRepository,
	allocator NumberAllocator,
	engine *printing.TemplateEngine,
	renderer printing.PDFRenderer,
	store DocumentStore,
	company CompanyInfo,
) *DocumentService {
	return &DocumentService{
		dealRepo:  dealRepo,
		docRepo:   docRepo,
		allocator: allocator,
		engine:    engine,
		renderer:  renderer,
		store:     store,
		company:   company,
	}
}

func numberPrefixFor(kind deal.DocumentKind) string {
	switch kind {
	case deal.DocumentKindQuote:
		return quoteNumberPrefix
	case deal.DocumentKindInvoice:
		return invoiceNumberPrefix
	case deal.DocumentKindContract:
		return contractNumberPrefix
	}
	return "DOC"
}

// GetByID retrieves a document
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// ListByDeal retrieves a deal's documents, newest first
func (s *DocumentService) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]DocumentResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}
	docs, err := s.docRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponses(docs), nil
}

// Generate creates a draft document for a deal, renders it and stores
// the PDF. Rendering failures leave a valid draft without a PDF; it can
// be rendered again before issue.
func (s *DocumentService) Generate(ctx context.Context, dealID uuid.UUID, req GenerateDocumentRequest) (*DocumentResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	kind := deal.DocumentKind(req.Kind)
	number, err := s.allocator.NextNumber(ctx, numberPrefixFor(kind))
	if err != nil {
		return nil, err
	}

	doc, err := deal.NewDocument(d.ID, kind, number, d.Amount, d.Currency)
	if err != nil {
		return nil, err
	}

	// A failed rendering leaves a valid draft; Issue retries it
	_ = s.renderAndAttach(ctx, d, doc)

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// Issue freezes a document. A PDF rendering is produced first if the
// draft does not have one yet.
func (s *DocumentService) Issue(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.ObjectKey == "" {
		d, err := s.dealRepo.FindByID(ctx, doc.DealID)
		if err != nil {
			return nil, err
		}
		if err := s.renderAndAttach(ctx, d, doc); err != nil {
			return nil, err
		}
	}

	if err := doc.Issue(); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// Cancel voids a document
func (s *DocumentService) Cancel(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Cancel(); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// DownloadURL returns a presigned URL for the rendered PDF
func (s *DocumentService) DownloadURL(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.ObjectKey == "" {
		return nil, shared.NewDomainError("NOT_RENDERED", "Document has no rendered PDF")
	}

	url, _, err := s.store.GenerateDownloadURL(ctx, doc.ObjectKey, 0)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	response.DownloadURL = url
	return &response, nil
}

// renderAndAttach builds the document HTML, renders it to PDF, uploads
// the result and records the object key on the document.
func (s *DocumentService) renderAndAttach(ctx context.Context, d *deal.Deal, doc *deal.Document) error {
	html, err := s.engine.RenderHTML(printing.DocumentData{
		Kind:           doc.Kind,
		Number:         doc.Number,
		Date:           time.Now(),
		CompanyName:    s.company.Name,
		CompanyDetails: s.company.Details,
		CustomerName:   d.CustomerName,
		CustomerEmail:  d.CustomerEmail,
		CustomerPhone:  d.CustomerPhone,
		DealNumber:     d.Number,
		DealTitle:      d.Title,
		Amount:         doc.Amount,
		Currency:       doc.Currency,
	})
	if err != nil {
		return err
	}

	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return err
	}

	objectKey := fmt.Sprintf("documents/%s/%s.pdf", d.ID, doc.Number)
	if err := s.store.Upload(ctx, objectKey, pdf, "application/pdf"); err != nil {
		return err
	}
	return doc.AttachRendering(objectKey)
}
