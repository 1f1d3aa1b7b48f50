package verification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recivo/internal/domain"
	"recivo/internal/verification"
)

func TestBuildReport_RequiresReportPhase(t *testing.T) {
	s := newVerifySession(t, 1)

	report, err := verification.BuildReport(s)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Nil(t, report)
}

func TestBuildReport_SnapshotsItemsInOrder(t *testing.T) {
	s := newVerifySession(t, 2, 1, 3)
	s.IncrementCount(0)
	s.IncrementCount(0)
	require.NoError(t, s.MarkAs(1, domain.StatusMissing))
	require.NoError(t, s.SetNotes(1, "never arrived"))
	require.NoError(t, s.AdvanceToReport())

	report, err := verification.BuildReport(s)
	require.NoError(t, err)

	assert.Equal(t, "Acme Foods", report.VendorName)
	assert.Equal(t, "INV-1001", report.InvoiceNumber)
	assert.Equal(t, 3, report.TotalItems)
	assert.Equal(t, 1, report.MatchedItems)
	assert.Equal(t, 1, report.IssueItems)
	assert.False(t, report.CreatedAt.IsZero())

	require.Len(t, report.Items, 3)
	for i, item := range report.Items {
		assert.Equal(t, i, item.Position)
		assert.Equal(t, report.ID, item.ReportID)
		assert.NotEqual(t, report.ID, item.ID)
	}
	assert.Equal(t, domain.StatusMatch, report.Items[0].Status)
	assert.Equal(t, domain.StatusMissing, report.Items[1].Status)
	assert.Equal(t, "never arrived", report.Items[1].Notes)
	assert.Equal(t, domain.StatusPending, report.Items[2].Status)
}

func TestBuildReport_Aggregates(t *testing.T) {
	s := newVerifySession(t, 1, 2, 5)
	s.IncrementCount(0)
	s.IncrementCount(1)
	s.IncrementCount(1)
	require.NoError(t, s.MarkAs(2, domain.StatusMissing))
	require.NoError(t, s.AdvanceToReport())

	report, err := verification.BuildReport(s)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalItems)
	assert.Equal(t, 2, report.MatchedItems)
	assert.Equal(t, 1, report.IssueItems)
}

func TestBuildReport_DoesNotMutateSession(t *testing.T) {
	s := newVerifySession(t, 1)
	s.IncrementCount(0)
	require.NoError(t, s.AdvanceToReport())
	gen := s.Generation()

	_, err := verification.BuildReport(s)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseReport, s.Phase())
	assert.Equal(t, gen, s.Generation())
	assert.Equal(t, 1, s.ItemCount())

	// Building twice yields independent reports over the same state.
	second, err := verification.BuildReport(s)
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalItems)
}
