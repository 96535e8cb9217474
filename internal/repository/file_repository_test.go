package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

type recordingObserver struct {
	mu     sync.Mutex
	labels []string
}

func (o *recordingObserver) ObserveSourceLoad(label string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.labels = append(o.labels, label)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRosterRepositoryLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.csv")
	writeFile(t, path, "\ufeffSl .no , Reg.no,Name\n1,R01, SOUJANYA M BHAT \n60,R60,Anson Thomas\n,R00,\n177.0,R177,Late Joiner\n")

	obs := &recordingObserver{}
	students, err := NewRosterRepository(path, obs).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Student{
		{SerialNo: 1, Name: "SOUJANYA M BHAT", RegNo: "R01", Class: placement.ClassMCAA},
		{SerialNo: 60, Name: "Anson Thomas", RegNo: "R60", Class: placement.ClassMCAB},
		{SerialNo: 177, Name: "Late Joiner", RegNo: "R177", Class: placement.ClassUnknown},
	}, students)
	assert.Equal(t, []string{"roster"}, obs.labels)
}

func TestRosterRepositoryLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewRosterRepository(filepath.Join(dir, "missing.csv"), nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrSourceUnavailable))

	path := filepath.Join(dir, "bad.csv")
	writeFile(t, path, "Sl .no,Reg.no\n1,R01\n")
	_, err = NewRosterRepository(path, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrMalformedSource))
}

func TestLedgerRepository_MissingFileIsEmpty(t *testing.T) {
	rows, err := NewLedgerRepository(filepath.Join(t.TempDir(), "ledger.csv"), nil, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLedgerRepository_AssignsRecordIDsAndWritesBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	writeFile(t, path, "company_id,company_name,status,student_names\nCMP01,Acme,Completed,\"Anson Thomas, Jaiby Joseph\"\n,,,\nCMP02,Globex,On-going,\n")

	repo := NewLedgerRepository(path, nil, nil)
	rows, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].RecordID)
	assert.Equal(t, 2, rows[1].RecordID)
	assert.Equal(t, "Anson Thomas, Jaiby Joseph", rows[0].StudentNames)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), strings.Join(LedgerColumns, ",")+"\n"))

	again, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestLedgerRepository_NumbersBlankIDsAfterMax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	writeFile(t, path, "record_id,company_id\n7,CMP01\n,CMP02\n3,CMP03\n")

	rows, err := NewLedgerRepository(path, nil, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{7, 8, 3}, []int{rows[0].RecordID, rows[1].RecordID, rows[2].RecordID})
}

func TestLedgerRepository_RenumbersDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	writeFile(t, path, "record_id,company_id\n2,CMP01\n2,CMP02\n5,CMP03\n,CMP04\n")
	repo := NewLedgerRepository(path, nil, nil)

	rows, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []int{2, 6, 5, 7}, []int{rows[0].RecordID, rows[1].RecordID, rows[2].RecordID, rows[3].RecordID})
	assert.Equal(t, "CMP02", rows[1].CompanyID)

	reloaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, reloaded, "renumbered ids are written back")
}

func TestLedgerRepository_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	repo := NewLedgerRepository(path, nil, nil)
	in := []models.PlacementRecord{{
		RecordID:          4,
		CompanyID:         "CMP04",
		CompanyName:       "Initech, Ltd",
		CampusType:        "On Campus",
		RecruiterCode:     "PR05",
		RecruiterName:     "ANSON THOMAS",
		PlacementOrigin:   "CPCG",
		Status:            "Completed",
		StudentsPlaced:    "2",
		Role:              "Developer",
		Package:           "4.5 LPA",
		StudentNames:      "A, B",
		ClassDistribution: "MCA A, MCA B",
	}}
	require.NoError(t, repo.Save(context.Background(), in))

	out, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMatrixRepositoryList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "CMP02.csv"), " Name of the Student ,Applied ,Selected\nA,1,0\n,,\n")
	writeFile(t, filepath.Join(dir, "CMP01.csv"), "Name of the Student,Applied\nB,1\n")
	writeFile(t, filepath.Join(dir, "CMP03.csv"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignore me")

	repo := NewMatrixRepository(dir, nil, nil)
	matrices, skipped, err := repo.List(context.Background(), map[string]string{"CMP02": "Globex"})
	require.NoError(t, err)
	require.Len(t, matrices, 2)
	assert.Equal(t, "CMP01", matrices[0].CompanyID)
	assert.Equal(t, "CMP01", matrices[0].CompanyName)
	assert.Equal(t, "Globex", matrices[1].CompanyName)
	assert.Equal(t, []string{"Name of the Student", "Applied", "Selected"}, matrices[1].Headers)
	assert.Len(t, matrices[1].Rows, 1)
	require.Len(t, skipped, 1)
	assert.Equal(t, "CMP03.csv", skipped[0].Source)
}

func TestMatrixRepositoryList_MissingDir(t *testing.T) {
	matrices, skipped, err := NewMatrixRepository(filepath.Join(t.TempDir(), "nope"), nil, nil).List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, matrices)
	assert.Empty(t, skipped)
}

func TestMatrixRepositoryGet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "CMP01.csv"), "Name of the Student,Applied\nB,1\n")
	repo := NewMatrixRepository(dir, nil, nil)

	m, err := repo.Get(context.Background(), "CMP01", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", m.CompanyName)

	_, err = repo.Get(context.Background(), "CMP09", "")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = repo.Get(context.Background(), "../etc/passwd", "")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAnalysisSheetRepositoryLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overall.csv")
	writeFile(t, path, strings.Join([]string{
		",,Company Name : Acme,",
		",,Number of Rounds : 1,",
		",,4,",
		"Name of the Student,Register Number,Applied,Selected",
		"A,R1,1,0",
	}, "\n")+"\n")

	sheet, err := NewAnalysisSheetRepository(path, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, sheet.Blocks, 1)
	assert.Equal(t, "Acme", sheet.Blocks[0].CompanyName)
	assert.Equal(t, 2, sheet.Blocks[0].StartCol)
	assert.Equal(t, 4, sheet.Blocks[0].EndCol)
	assert.Len(t, sheet.Rows, 1)
}
