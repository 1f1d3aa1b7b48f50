package verification

import (
	"time"

	"github.com/google/uuid"

	"recivo/internal/domain"
)

// BuildReport freezes a session's final item list plus aggregates into an
// immutable receiving report ready for persistence. The session must be at
// the report phase (the transition guard already satisfied). The session is
// not mutated; the caller decides whether to reset it after a successful
// save, so a failed save can be retried without re-counting.
func BuildReport(s *Session) (*domain.ReceivingReport, error) {
	if s.Phase() != domain.PhaseReport {
		return nil, domain.ErrInvalidTransition
	}

	items := s.Items()
	sum := Summarize(items)

	reportID := uuid.New()
	reportItems := make([]domain.ReportItem, 0, len(items))
	for i, item := range items {
		reportItems = append(reportItems, domain.ReportItem{
			ID:          uuid.New(),
			ReportID:    reportID,
			Position:    i,
			Name:        item.Name,
			ExpectedQty: item.ExpectedQty,
			ActualQty:   item.ActualQty,
			UnitPrice:   item.UnitPrice,
			Status:      item.Status,
			Notes:       item.Notes,
		})
	}

	return &domain.ReceivingReport{
		ID:            reportID,
		VendorName:    s.VendorName(),
		InvoiceNumber: s.InvoiceNumber(),
		Items:         reportItems,
		TotalItems:    sum.Total,
		MatchedItems:  sum.Matched,
		IssueItems:    sum.Issues,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
