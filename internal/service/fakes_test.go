package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

type stubCacheRepo struct {
	store    map[string][]byte
	deleted  []string
	getCalls int
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	s.getCalls++
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.store {
		if strings.HasPrefix(key, prefix) {
			delete(s.store, key)
		}
	}
	return nil
}

type fakeRoster struct {
	cache *placement.RosterCache
	err   error
}

func newFakeRoster(students []models.Student) *fakeRoster {
	cache := placement.NewRosterCache(nil)
	cache.Load(students)
	return &fakeRoster{cache: cache}
}

func (f *fakeRoster) Students(context.Context) ([]models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cache.Students(), nil
}

func (f *fakeRoster) Matcher(context.Context) (placement.Matcher, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cache, nil
}

type fakeLedgerStore struct {
	rows    []models.PlacementRecord
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeLedgerStore) Load(context.Context) ([]models.PlacementRecord, error) {
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]models.PlacementRecord(nil), f.rows...), nil
}

func (f *fakeLedgerStore) Save(_ context.Context, rows []models.PlacementRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.rows = append([]models.PlacementRecord(nil), rows...)
	return nil
}

type fakeMatrices struct {
	matrices []models.RoundMatrix
	skipped  []models.SkippedSource
	err      error
	names    map[string]string
}

func (f *fakeMatrices) List(_ context.Context, names map[string]string) ([]models.RoundMatrix, []models.SkippedSource, error) {
	f.names = names
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.matrices, f.skipped, nil
}

func (f *fakeMatrices) Get(_ context.Context, companyID, _ string) (models.RoundMatrix, error) {
	for _, m := range f.matrices {
		if m.CompanyID == companyID {
			return m, nil
		}
	}
	return models.RoundMatrix{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no round data for %s", companyID))
}

type fakeSheet struct {
	sheet models.AnalysisSheet
	err   error
}

func (f *fakeSheet) Load(context.Context) (models.AnalysisSheet, error) {
	return f.sheet, f.err
}

type fakeRosterLoader struct {
	students []models.Student
	calls    int
	err      error
}

func (f *fakeRosterLoader) Load(context.Context) ([]models.Student, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Student(nil), f.students...), nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f.users[strings.ToLower(username)]; ok {
		return u, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func testRoster() []models.Student {
	return []models.Student{
		{SerialNo: 1, Name: "SOUJANYA M BHAT", RegNo: "R01", Class: placement.ClassMCAA},
		{SerialNo: 2, Name: "ANSON THOMAS", RegNo: "R02", Class: placement.ClassMCAA},
		{SerialNo: 60, Name: "Jaiby Mariya Joseph", RegNo: "24MCAB060", Class: placement.ClassMCAB},
		{SerialNo: 61, Name: "SOUJANYA K BHAT", RegNo: "24MCAB061", Class: placement.ClassMCAB},
		{SerialNo: 120, Name: "Kishan", RegNo: "", Class: placement.ClassMScAIML},
	}
}

func testLedger() []models.PlacementRecord {
	return []models.PlacementRecord{
		{RecordID: 1, CompanyID: "CMP01", CompanyName: "Acme", CampusType: "On Campus", RecruiterCode: "PR01", PlacementOrigin: "CPCG", Status: "Completed", Role: "Developer", Package: "6 LPA", StudentNames: "anson thomas"},
		{RecordID: 2, CompanyID: "CMP02", CompanyName: "Globex", CampusType: "Off Campus", RecruiterCode: "PR05", PlacementOrigin: "Department", Status: "On-going", Role: "Analyst", Package: "4 LPA", StudentNames: "Jaiby Joseph"},
		{RecordID: 3, CompanyID: "CMP01", CompanyName: "Acme", CampusType: "On Campus", RecruiterCode: "PR01", PlacementOrigin: "CPCG", Status: "completed", Role: "Tester", Package: "4 LPA", StudentNames: "Soujanya M Bhat"},
		{RecordID: 4, CompanyID: "CMP03", CompanyName: "Initech", RecruiterCode: "PR05", Status: "ongoing"},
	}
}

func testMatrices() []models.RoundMatrix {
	return []models.RoundMatrix{
		{
			CompanyID:   "CMP01",
			CompanyName: "Acme",
			Source:      "CMP01.csv",
			Headers:     []string{"Name of the Student", "Applied", "Round1", "Selected"},
			Rows: [][]string{
				{"SOUJANYA M BHAT", "1", "1", "1"},
				{"ANSON THOMAS", "1", "1", "1"},
				{"KISHAN", "1", "0", "0"},
			},
		},
		{
			CompanyID:   "CMP02",
			CompanyName: "Globex",
			Source:      "CMP02.csv",
			Headers:     []string{"Name of the Student", "Applied", "HR"},
			Rows: [][]string{
				{"JAIBY MARIYA JOSEPH", "1", "0"},
				{"ANSON THOMAS", "1", "1"},
			},
		},
	}
}
