package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"recivo/internal/domain"
	"recivo/internal/port"
	"recivo/internal/verification"
)

// PageUpload is one uploaded source document (an invoice photo or PDF).
// Multi-page deliveries photographed page by page arrive as several uploads
// in page order.
type PageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// SessionState is the read snapshot of a session returned to callers.
type SessionState struct {
	ID            uuid.UUID                  `json:"id"`
	Phase         domain.SessionPhase        `json:"phase"`
	VendorName    string                     `json:"vendor_name,omitempty"`
	InvoiceNumber string                     `json:"invoice_number,omitempty"`
	Items         []domain.VerificationItem  `json:"items"`
	Summary       domain.VerificationSummary `json:"summary"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// SessionService defines the verification workflow contract.
type SessionService interface {
	Create(ctx context.Context) *SessionState
	Get(ctx context.Context, id uuid.UUID) (*SessionState, error)
	ExtractAndBegin(ctx context.Context, id uuid.UUID, uploads []PageUpload) (*SessionState, error)
	IncrementCount(ctx context.Context, id uuid.UUID, index int) (*SessionState, error)
	DecrementCount(ctx context.Context, id uuid.UUID, index int) (*SessionState, error)
	ResetCount(ctx context.Context, id uuid.UUID, index int) (*SessionState, error)
	MarkAs(ctx context.Context, id uuid.UUID, index int, status domain.ItemStatus) (*SessionState, error)
	FinishCounting(ctx context.Context, id uuid.UUID, index int) (*SessionState, error)
	SetNotes(ctx context.Context, id uuid.UUID, index int, notes string) (*SessionState, error)
	Advance(ctx context.Context, id uuid.UUID) (*SessionState, error)
	Review(ctx context.Context, id uuid.UUID) (*SessionState, error)
	Reset(ctx context.Context, id uuid.UUID) (*SessionState, error)
	BuildReport(ctx context.Context, id uuid.UUID) (*domain.ReceivingReport, error)
}

// sessionEntry pairs a session with its writer lock. Sessions are
// single-writer: all mutation funnels through this mutex, and at most one
// extraction may be in flight per session.
type sessionEntry struct {
	mu         sync.Mutex
	sess       *verification.Session
	extracting bool
}

type sessionService struct {
	catalogRepo port.CatalogRepository
	extractor   port.LineItemExtractor
	rasterizer  port.Rasterizer
	fileSvc     FileService // optional source document archival

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

// NewSessionService creates a new SessionService implementation. fileSvc may
// be nil, in which case uploaded source documents are not archived.
func NewSessionService(
	catalogRepo port.CatalogRepository,
	lineExtractor port.LineItemExtractor,
	rasterizer port.Rasterizer,
	fileSvc FileService,
) SessionService {
	return &sessionService{
		catalogRepo: catalogRepo,
		extractor:   lineExtractor,
		rasterizer:  rasterizer,
		fileSvc:     fileSvc,
		sessions:    make(map[uuid.UUID]*sessionEntry),
	}
}

func (s *sessionService) Create(ctx context.Context) *SessionState {
	sess := verification.NewSession()
	entry := &sessionEntry{sess: sess}

	s.mu.Lock()
	s.sessions[sess.ID()] = entry
	s.mu.Unlock()

	// TODO: evict sessions that have been idle for more than a day.
	log.Printf("sessionService.Create: session %s created", sess.ID())
	return snapshot(sess)
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	return s.withSession(id, func(sess *verification.Session) error { return nil })
}

// ExtractAndBegin runs the scan step: each upload is rasterized into pages,
// each page is sent to the extractor, and the results are concatenated in
// page order before committing the scan -> verify transition. The extraction
// is tagged with the session generation at issue time; if the user resets
// the session while the call is outstanding, the late result is discarded.
func (s *sessionService) ExtractAndBegin(ctx context.Context, id uuid.UUID, uploads []PageUpload) (*SessionState, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no source documents provided", domain.ErrEmptyExtraction)
	}

	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	if entry.extracting {
		entry.mu.Unlock()
		return nil, domain.ErrExtractionInFlight
	}
	if entry.sess.Phase() != domain.PhaseScan {
		entry.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	generation := entry.sess.Generation()
	entry.extracting = true
	entry.mu.Unlock()

	defer func() {
		entry.mu.Lock()
		entry.extracting = false
		entry.mu.Unlock()
	}()

	catalog, err := s.catalogRepo.ListAll(ctx)
	if err != nil {
		// The catalog only improves matching; extraction proceeds without it.
		log.Printf("sessionService.ExtractAndBegin: loading catalog: %v", err)
		catalog = nil
	}

	result := &domain.ExtractionResult{}
	for _, upload := range uploads {
		pages, err := s.rasterizer.Pages(ctx, upload.Data, upload.ContentType)
		if err != nil {
			return nil, fmt.Errorf("rasterizing %q: %w", upload.Filename, err)
		}
		for _, page := range pages {
			out, err := s.extractor.Extract(ctx, port.ExtractInput{
				PageBytes:   page.Bytes,
				ContentType: page.ContentType,
				Catalog:     catalog,
			})
			if err != nil {
				return nil, err
			}
			result.Items = append(result.Items, out.Items...)
			if result.VendorName == "" {
				result.VendorName = out.VendorName
			}
			if result.InvoiceNumber == "" {
				result.InvoiceNumber = out.InvoiceNumber
			}
			if result.InvoiceDate == "" {
				result.InvoiceDate = out.InvoiceDate
			}
		}
		s.archive(ctx, id, upload)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.sess.BeginVerification(generation, result); err != nil {
		return nil, err
	}
	log.Printf("sessionService.ExtractAndBegin: session %s moved to verify with %d items",
		id, entry.sess.ItemCount())
	return snapshot(entry.sess), nil
}

// archive stores the uploaded source document for audit. Archival is best
// effort: a storage failure is logged and never blocks the verification flow.
func (s *sessionService) archive(ctx context.Context, sessionID uuid.UUID, upload PageUpload) {
	if s.fileSvc == nil {
		return
	}
	if _, err := s.fileSvc.Archive(ctx, sessionID, upload); err != nil {
		log.Printf("sessionService.archive: session %s: %v", sessionID, err)
	}
}

func (s *sessionService) IncrementCount(ctx context.Context, id uuid.UUID, index int) (*SessionState, error) {
	return s.withItem(id, index, func(sess *verification.Session) error {
		sess.IncrementCount(index)
		return nil
	})
}

func (s *sessionService) DecrementCount(ctx context.Context, id uuid.UUID, index int) (*SessionState, error) {
	return s.withItem(id, index, func(sess *verification.Session) error {
		sess.DecrementCount(index)
		return nil
	})
}

func (s *sessionService) ResetCount(ctx context.Context, id uuid.UUID, index int) (*SessionState, error) {
	return s.withItem(id, index, func(sess *verification.Session) error {
		sess.ResetCount(index)
		return nil
	})
}

func (s *sessionService) MarkAs(ctx context.Context, id uuid.UUID, index int, status domain.ItemStatus) (*SessionState, error) {
	return s.withItem(id, index, func(sess *verification.Session) error {
		return sess.MarkAs(index, status)
	})
}

func (s *sessionService) FinishCounting(ctx context.Context, id uuid.UUID, index int) (*SessionState, error) {
	return s.withItem(id, index, func(sess *verification.Session) error {
		return sess.FinishCounting(index)
	})
}

func (s *sessionService) SetNotes(ctx context.Context, id uuid.UUID, index int, notes string) (*SessionState, error) {
	return s.withItem(id, index, func(sess *verification.Session) error {
		return sess.SetNotes(index, notes)
	})
}

func (s *sessionService) Advance(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	return s.withSession(id, func(sess *verification.Session) error {
		return sess.AdvanceToReport()
	})
}

func (s *sessionService) Review(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	return s.withSession(id, func(sess *verification.Session) error {
		return sess.BackToVerify()
	})
}

func (s *sessionService) Reset(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	return s.withSession(id, func(sess *verification.Session) error {
		sess.Reset()
		return nil
	})
}

// BuildReport freezes the session into a receiving report. The session is
// not mutated and remains available: a failed save can be retried without
// re-counting, and the caller decides when to reset.
func (s *sessionService) BuildReport(ctx context.Context, id uuid.UUID) (*domain.ReceivingReport, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return verification.BuildReport(entry.sess)
}

func (s *sessionService) entry(id uuid.UUID) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return entry, nil
}

func (s *sessionService) withSession(id uuid.UUID, fn func(*verification.Session) error) (*SessionState, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry.sess); err != nil {
		return nil, err
	}
	return snapshot(entry.sess), nil
}

// withItem bounds-checks the item index before entering the core, which
// treats an out-of-range index as a programming error and panics.
func (s *sessionService) withItem(id uuid.UUID, index int, fn func(*verification.Session) error) (*SessionState, error) {
	return s.withSession(id, func(sess *verification.Session) error {
		if sess.Phase() != domain.PhaseVerify {
			return domain.ErrInvalidTransition
		}
		if index < 0 || index >= sess.ItemCount() {
			return fmt.Errorf("%w: index %d, %d items", domain.ErrItemIndexOutOfRange, index, sess.ItemCount())
		}
		return fn(sess)
	})
}

func snapshot(sess *verification.Session) *SessionState {
	return &SessionState{
		ID:            sess.ID(),
		Phase:         sess.Phase(),
		VendorName:    sess.VendorName(),
		InvoiceNumber: sess.InvoiceNumber(),
		Items:         sess.Items(),
		Summary:       sess.Summary(),
		CreatedAt:     sess.CreatedAt(),
		UpdatedAt:     sess.UpdatedAt(),
	}
}
