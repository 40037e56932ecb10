package services

import (
	"context"
	"testing"

	"github.com/ntusports/reconcile-api/internal/config"
	"github.com/ntusports/reconcile-api/internal/csvio"
	"github.com/ntusports/reconcile-api/internal/jobs"
	"github.com/ntusports/reconcile-api/internal/models"
	"github.com/ntusports/reconcile-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	membersCSV = `StudentID,FullName,Team,IsSelectedOfficialTeam
S001,John Smith,Rugby,Yes
S002,Ann Lee,Netball,Yes
S003,Bob Reserve,Rugby,No
`
	paymentsCSV = `StudentID,FullName,Amount,PaymentDate
S001,John Smith,120,2024-03-01
,Zzyzx Quux,10,2024-02-02
`
	bookingsCSV = `BookingID,FullName,BookingStart,Hours,AmountPaid
B1,Acme Corp,2024-04-01 18:00,2,10
B2,Beta Ltd,2024-04-02 18:00,3,0
`
)

func newTestService(t *testing.T) (*ReconciliationService, *jobs.Worker) {
	t.Helper()
	cfg := &config.Config{
		AnnualFee:   120,
		HourlyRate:  5,
		FuzzyCutoff: 0.86,
	}
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	reportSvc := NewReportService()
	return NewReconciliationService(cfg, reportSvc, NewExportService(reportSvc), store, worker), worker
}

func inputs() (InputFile, InputFile, InputFile) {
	return InputFile{Name: "members.csv", Data: []byte(membersCSV)},
		InputFile{Name: "payments.csv", Data: []byte(paymentsCSV)},
		InputFile{Name: "bookings.csv", Data: []byte(bookingsCSV)}
}

func TestRunPublishesResult(t *testing.T) {
	svc, _ := newTestService(t)
	members, payments, bookings := inputs()

	rr, err := svc.Run(context.Background(), members, payments, bookings)
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, rr.Run.Status)
	assert.NotEmpty(t, rr.Run.ID)
	require.NotNil(t, rr.Run.CompletedAt)

	// Only the two selected members get accounts.
	require.Len(t, rr.Result.Accounts, 2)
	assert.Equal(t, models.AccountStatusPaid, rr.Result.Accounts[0].Status)
	assert.Equal(t, models.AccountStatusUnpaid, rr.Result.Accounts[1].Status)
	assert.Len(t, rr.Result.Unmatched, 1)
	assert.Len(t, rr.Result.BookingIssues, 1)

	latest, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, rr.Run.ID, latest.Run.ID)
}

func TestRunFailsOnBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	members, payments, bookings := inputs()
	payments.Data = []byte("FullName,PaymentDate\nJohn Smith,2024-03-01\n")

	_, err := svc.Run(context.Background(), members, payments, bookings)
	require.Error(t, err)

	var loadErr *csvio.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, csvio.SourcePayments, loadErr.Source)

	_, err = svc.Latest()
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestFailedRunKeepsPreviousResult(t *testing.T) {
	svc, _ := newTestService(t)
	members, payments, bookings := inputs()

	first, err := svc.Run(context.Background(), members, payments, bookings)
	require.NoError(t, err)

	bad := InputFile{Name: "members.csv", Data: []byte("garbage")}
	_, err = svc.Run(context.Background(), bad, payments, bookings)
	require.Error(t, err)

	latest, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, first.Run.ID, latest.Run.ID)
}

func TestLatestWithoutRuns(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Latest()
	assert.ErrorIs(t, err, ErrNoRun)
}
