package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
	"github.com/noah-isme/placement-cell-api/pkg/storage"
)

type fakeGlobalStats struct {
	stats models.GlobalStats
}

func (f *fakeGlobalStats) Global(context.Context) (models.GlobalStats, bool, error) {
	return f.stats, false, nil
}

func newTestExportService(t *testing.T, enabled bool) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	roster := newFakeRoster(testRoster())
	ledger := &fakeLedgerStore{rows: testLedger()}
	return NewExportService(ExportServiceParams{
		Companies: NewCompanyService(roster, ledger, nil),
		Students:  NewDashboardService(roster, ledger, nil, nil),
		Stats: &fakeGlobalStats{stats: models.GlobalStats{Funnel: []models.FunnelStage{
			{Stage: "Applied", Reached: 5, Passed: 5, PassRate: 100, UniqueStudentsReached: 4, UniqueStudentsPassed: 4},
			{Stage: "HR", Reached: 5, Passed: 2, PassRate: 40, UniqueStudentsReached: 4, UniqueStudentsPassed: 2},
		}}},
		Storage: store,
		Signer:  storage.NewSignedURLSigner("secret", time.Hour),
		Logger:  zap.NewNop(),
		Config:  ExportConfig{Enabled: enabled, APIPrefix: "/api/v1/"},
	})
}

func readExport(t *testing.T, svc *ExportService, url string) string {
	t.Helper()
	token := url[strings.LastIndex(url, "/")+1:]
	relPath, err := svc.Resolve(token)
	require.NoError(t, err)
	f, err := svc.Open(relPath)
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(body)
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc := newTestExportService(t, true)
	ctx := context.Background()

	res, err := svc.Generate(ctx, models.ReportRequest{Type: "Companies", Format: "CSV"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportTypeCompanies, res.Type)
	assert.Equal(t, models.ReportFormatCSV, res.Format)
	assert.True(t, strings.HasPrefix(res.URL, "/api/v1/exports/"), res.URL)
	assert.NotEmpty(t, res.ID)

	body := readExport(t, svc, res.URL)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Company ID,Company,Status,Campus,Origin,PR,Role,Package,Students", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "CMP01,Acme,Completed,"))

	res, err = svc.Generate(ctx, models.ReportRequest{Type: models.ReportTypeFunnel, Format: models.ReportFormatCSV})
	require.NoError(t, err)
	body = readExport(t, svc, res.URL)
	assert.Contains(t, body, "HR,5,2,40.00,4,2")

	res, err = svc.Generate(ctx, models.ReportRequest{Type: models.ReportTypeStudents, Format: models.ReportFormatCSV})
	require.NoError(t, err)
	body = readExport(t, svc, res.URL)
	assert.Contains(t, body, "2,R02,ANSON THOMAS,MCA A,Placed,Acme,Developer,6 LPA")
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc := newTestExportService(t, true)

	res, err := svc.Generate(context.Background(), models.ReportRequest{Type: models.ReportTypeStudents, Format: models.ReportFormatPDF})
	require.NoError(t, err)
	body := readExport(t, svc, res.URL)
	assert.True(t, strings.HasPrefix(body, "%PDF"))
}

func TestExportServiceValidationAndDisabled(t *testing.T) {
	svc := newTestExportService(t, true)
	_, err := svc.Generate(context.Background(), models.ReportRequest{Type: "grades", Format: models.ReportFormatCSV})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Resolve("not-a-token")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	disabled := newTestExportService(t, false)
	_, err = disabled.Generate(context.Background(), models.ReportRequest{Type: models.ReportTypeFunnel, Format: models.ReportFormatCSV})
	assert.True(t, appErrors.Is(err, appErrors.ErrExportsDisabled))
	_, err = disabled.Resolve("x")
	assert.True(t, appErrors.Is(err, appErrors.ErrExportsDisabled))
}
