// Package verification implements the receiving-verification workflow engine:
// a three-phase session (scan -> verify -> report) that ingests extracted
// invoice line items, tracks a manual physical count against expected
// quantities, and freezes the outcome into an immutable receiving report.
package verification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"recivo/internal/domain"
)

// Session is the mutable aggregate for one delivery check. It exclusively
// owns its item sequence; callers mutate items only through Session methods.
// Session is not safe for concurrent use: the service layer serializes
// access so each session has a single writer.
type Session struct {
	id            uuid.UUID
	phase         domain.SessionPhase
	items         []domain.VerificationItem
	generation    uint64
	vendorName    string
	invoiceNumber string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewSession creates an empty session at the scan phase.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		id:         uuid.New(),
		phase:      domain.PhaseScan,
		generation: 1,
		createdAt:  now,
		updatedAt:  now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Phase returns the current workflow phase.
func (s *Session) Phase() domain.SessionPhase { return s.phase }

// Generation returns the current session generation. Every reset bumps it,
// so an extraction tagged with an older generation is recognizably stale.
func (s *Session) Generation() uint64 { return s.generation }

// VendorName returns the vendor name carried through from extraction.
func (s *Session) VendorName() string { return s.vendorName }

// InvoiceNumber returns the invoice number carried through from extraction.
func (s *Session) InvoiceNumber() string { return s.invoiceNumber }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the time of the last mutation.
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// ItemCount returns the number of items in the session.
func (s *Session) ItemCount() int { return len(s.items) }

// Items returns a copy of the item sequence in extraction order.
func (s *Session) Items() []domain.VerificationItem {
	out := make([]domain.VerificationItem, len(s.items))
	copy(out, s.items)
	return out
}

// BeginVerification commits an extraction result and moves the session from
// scan to verify. The generation must match the value read when the
// extraction was issued; a stale result (the user reset mid-flight) is
// rejected without touching session state. Every candidate becomes a
// verification item with a zero actual count so counting is additive.
func (s *Session) BeginVerification(generation uint64, result *domain.ExtractionResult) error {
	if generation != s.generation {
		return domain.ErrStaleExtraction
	}
	if s.phase != domain.PhaseScan {
		return domain.ErrInvalidTransition
	}
	if result == nil || len(result.Items) == 0 {
		return domain.ErrEmptyExtraction
	}

	items := make([]domain.VerificationItem, 0, len(result.Items))
	for _, cand := range result.Items {
		expected := cand.Quantity
		if expected < 0 {
			expected = 0
		}
		items = append(items, domain.VerificationItem{
			Name:         cand.Name,
			ExpectedQty:  expected,
			ActualQty:    0,
			UnitPrice:    cand.UnitPrice,
			Status:       domain.StatusPending,
			StatusSource: domain.SourceCount,
			Verified:     false,
			Notes:        "",
		})
	}

	s.items = items
	s.vendorName = result.VendorName
	s.invoiceNumber = result.InvoiceNumber
	s.phase = domain.PhaseVerify
	s.touch()
	return nil
}

// IncrementCount adds one to an item's physical count and re-derives its
// status. There is no upper bound; counting past the expected quantity is an
// overage, not an error.
func (s *Session) IncrementCount(index int) {
	item := s.item(index)
	item.ActualQty++
	deriveStatus(item)
	s.touch()
}

// DecrementCount subtracts one from an item's physical count, clamping at
// zero. A decrement at zero is a no-op and leaves the status untouched, so
// it cannot silently revert a manual override.
func (s *Session) DecrementCount(index int) {
	item := s.item(index)
	if item.ActualQty == 0 {
		return
	}
	item.ActualQty--
	deriveStatus(item)
	s.touch()
}

// ResetCount rolls an item back to its initial state: zero count, pending,
// unverified. It deliberately bypasses count-driven derivation, which would
// otherwise auto-match an item whose expected quantity is zero.
func (s *Session) ResetCount(index int) {
	item := s.item(index)
	item.ActualQty = 0
	item.Status = domain.StatusPending
	item.StatusSource = domain.SourceCount
	item.Verified = false
	s.touch()
}

// MarkAs applies a manual status override (missing or damaged) and finalizes
// the item. A later count change re-runs count-driven derivation and
// overwrites the override; last mutation wins.
func (s *Session) MarkAs(index int, status domain.ItemStatus) error {
	if !domain.ManualStatuses[status] {
		return domain.ErrInvalidItemStatus
	}
	item := s.item(index)
	item.Status = status
	item.StatusSource = domain.SourceManual
	item.Verified = true
	s.touch()
	return nil
}

// FinishCounting finalizes an item at its current count without changing the
// status, confirming a shortage or overage as final. It requires at least
// one counted unit.
func (s *Session) FinishCounting(index int) error {
	item := s.item(index)
	if item.ActualQty == 0 {
		return domain.ErrItemNotCounted
	}
	item.Verified = true
	s.touch()
	return nil
}

// SetNotes attaches free-text notes to a finalized item.
func (s *Session) SetNotes(index int, notes string) error {
	item := s.item(index)
	if !item.Verified {
		return domain.ErrItemNotVerified
	}
	item.Notes = notes
	s.touch()
	return nil
}

// AdvanceToReport moves the session from verify to report. The transition is
// guarded: at least one item must be verified. Callers should disable the
// action in that case; the session still rejects a direct call.
func (s *Session) AdvanceToReport() error {
	if s.phase != domain.PhaseVerify {
		return domain.ErrInvalidTransition
	}
	if Summarize(s.items).Verified == 0 {
		return domain.ErrNoVerifiedItems
	}
	s.phase = domain.PhaseReport
	s.touch()
	return nil
}

// BackToVerify returns from report to verify for corrections before the
// final save. It is unconditional from the report phase.
func (s *Session) BackToVerify() error {
	if s.phase != domain.PhaseReport {
		return domain.ErrInvalidTransition
	}
	s.phase = domain.PhaseVerify
	s.touch()
	return nil
}

// Reset abandons all progress from any phase: items are cleared, the phase
// returns to scan, and the generation is bumped so any in-flight extraction
// result is discarded on arrival.
func (s *Session) Reset() {
	s.items = nil
	s.vendorName = ""
	s.invoiceNumber = ""
	s.phase = domain.PhaseScan
	s.generation++
	s.touch()
}

// Summary returns the current aggregate counts for the session.
func (s *Session) Summary() domain.VerificationSummary {
	return Summarize(s.items)
}

// item returns a pointer to the item at index. An out-of-range index is a
// caller bug, not a runtime condition: it panics. The service layer bounds-
// checks indices arriving from the API before calling in.
func (s *Session) item(index int) *domain.VerificationItem {
	if index < 0 || index >= len(s.items) {
		panic(fmt.Sprintf("verification: item index %d out of range [0,%d)", index, len(s.items)))
	}
	return &s.items[index]
}

func (s *Session) touch() {
	s.updatedAt = time.Now().UTC()
}

// deriveStatus applies the count-driven rule after an actual-count change.
// An exact match auto-finalizes the item: when the physical count equals the
// invoice, no further human judgment is needed. Shortage and overage leave
// Verified untouched so the user can keep counting or confirm explicitly.
func deriveStatus(item *domain.VerificationItem) {
	switch {
	case item.ActualQty == item.ExpectedQty:
		item.Status = domain.StatusMatch
		item.Verified = true
	case item.ActualQty < item.ExpectedQty:
		item.Status = domain.StatusShortage
	default:
		item.Status = domain.StatusOverage
	}
	item.StatusSource = domain.SourceCount
}
