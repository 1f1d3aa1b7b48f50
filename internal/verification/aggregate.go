package verification

import "recivo/internal/domain"

// Summarize computes aggregate reconciliation counts over an item sequence.
// It is a pure function recomputed on demand; item lists are small enough
// that bulk recomputation beats incremental bookkeeping.
func Summarize(items []domain.VerificationItem) domain.VerificationSummary {
	sum := domain.VerificationSummary{Total: len(items)}
	for i := range items {
		if items[i].Verified {
			sum.Verified++
		}
		switch {
		case items[i].Status == domain.StatusMatch:
			sum.Matched++
		case items[i].Status.IsIssue():
			sum.Issues++
		}
	}
	return sum
}
