package placement

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

func TestBuildGlobalStats(t *testing.T) {
	cache := NewRosterCache(nil)
	cache.Load(sampleRoster())

	// CMP01 is listed first so stage order is Applied, Round1, Selected, HR.
	matrices := sampleMatrices()
	matrices[0], matrices[1] = matrices[1], matrices[0]

	stats := BuildGlobalStats(GlobalInput{
		Roster:   sampleRoster(),
		Ledger:   sampleLedger(),
		Matrices: matrices,
		Matcher:  cache,
	})

	assert.Equal(t, models.OverallStats{
		TotalStudents:             5,
		TotalApplied:              4,
		PlacedAnyStatus:           2,
		PlacedCompleted:           1,
		PlacementRate:             40,
		ApplicationRate:           80,
		SelectionRate:             50,
		AvgApplicationsPerStudent: 1.25,
	}, stats.Overall)

	wantFunnel := []models.FunnelStage{
		{Stage: "Applied", Reached: 5, Passed: 5, PassRate: 100, UniqueStudentsReached: 4, UniqueStudentsPassed: 4},
		{Stage: "Round1", Reached: 5, Passed: 4, PassRate: 80, UniqueStudentsReached: 4, UniqueStudentsPassed: 4},
		{Stage: "Selected", Reached: 2, Passed: 1, PassRate: 50, UniqueStudentsReached: 2, UniqueStudentsPassed: 1},
		{Stage: "HR", Reached: 2, Passed: 1, PassRate: 50, UniqueStudentsReached: 2, UniqueStudentsPassed: 1},
	}
	if diff := cmp.Diff(wantFunnel, stats.Funnel); diff != "" {
		t.Fatalf("funnel mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, stats.RoundPassRates, 4)
	assert.Equal(t, models.RoundPassRate{Round: "Round1", Passed: 4, Total: 5, PassRate: 80}, stats.RoundPassRates[1])

	require.Len(t, stats.CompanyStats, 2)
	assert.Equal(t, "CMP02", stats.CompanyStats[0].CompanyID)
	assert.Equal(t, 3, stats.CompanyStats[0].TotalApplied)
	assert.Equal(t, 33.33, stats.CompanyStats[0].PlacementRate)
	assert.Equal(t, []models.PlacedStudent{{Name: "Jaiby Mariya Joseph", RegNo: "24MCAB060", Role: "Analyst", Package: "4 LPA"}}, stats.CompanyStats[0].PlacedStudents)
	assert.Equal(t, "CMP01", stats.CompanyStats[1].CompanyID)
	assert.Equal(t, 1, stats.CompanyStats[1].TotalPlaced)

	wantClasses := []models.ClassApplicationStats{
		{Class: ClassMCAA, Applied: 2, Placed: 1, Applications: 3, PlacementRate: 50},
		{Class: ClassMCAB, Applied: 1, Placed: 1, Applications: 1, PlacementRate: 100},
		{Class: ClassMScAIML},
	}
	if diff := cmp.Diff(wantClasses, stats.ClassStats); diff != "" {
		t.Fatalf("class stats mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, stats.SkippedSources, 1)
	assert.Equal(t, "CMP03.csv", stats.SkippedSources[0].Source)
}

func TestBuildGlobalStats_PlacedStudentsLeaveThePipeline(t *testing.T) {
	cache := NewRosterCache(nil)
	cache.Load(sampleRoster())
	stats := BuildGlobalStats(GlobalInput{
		Roster:   sampleRoster(),
		Ledger:   sampleLedger(),
		Matrices: sampleMatrices(),
		Matcher:  cache,
	})

	activity := stats.StudentActivity
	assert.Equal(t, 2, activity.TotalActiveApplicants)
	require.Len(t, activity.MostActiveStudents, 2)
	assert.Equal(t, "SOUJANYA M BHAT", activity.MostActiveStudents[0].Name)
	assert.Equal(t, 2, activity.MostActiveStudents[0].Applications)
	assert.Equal(t, models.StudentActivity{Name: "OUTSIDER PERSON", Class: ClassUnknown, Applications: 1}, activity.MostActiveStudents[1])
	assert.Equal(t, "OUTSIDER PERSON", activity.LeastActiveStudents[0].Name)
	for _, s := range activity.MostActiveStudents {
		assert.NotEqual(t, "ANSON THOMAS", s.Name)
		assert.NotEqual(t, "Jaiby Mariya Joseph", s.Name)
	}

	assert.Equal(t, 2, activity.TotalNeverApplied)
	names := []string{}
	for _, s := range activity.NeverAppliedStudents {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"SOUJANYA K BHAT", "Kishan"}, names)
}

func TestBuildGlobalStats_PlacedButNeverAppliedIsNotNeverApplied(t *testing.T) {
	roster := []models.Student{{SerialNo: 1, Name: "MARIA BOBY", RegNo: "R09", Class: ClassMCAA}}
	ledger := []models.PlacementRecord{{RecordID: 1, CompanyID: "CMP01", Status: "On-Hold", StudentNames: "Maria Boby"}}

	stats := BuildGlobalStats(GlobalInput{Roster: roster, Ledger: ledger})
	assert.Zero(t, stats.StudentActivity.TotalNeverApplied)
	assert.Empty(t, stats.StudentActivity.NeverAppliedStudents)
	assert.Equal(t, 1, stats.Overall.PlacedAnyStatus)
	assert.Zero(t, stats.Overall.PlacedCompleted)
	assert.Zero(t, stats.Overall.SelectionRate)
}

func TestBuildGlobalStats_EmptyInput(t *testing.T) {
	stats := BuildGlobalStats(GlobalInput{})
	assert.Zero(t, stats.Overall.PlacementRate)
	assert.Empty(t, stats.Funnel)
	assert.Len(t, stats.ClassStats, len(ClassLabels))
	assert.NotNil(t, stats.StudentActivity.NeverAppliedStudents)
}

func TestBuildGlobalStats_ActivityListsAreCapped(t *testing.T) {
	var roster []models.Student
	rows := [][]string{}
	for i := 0; i < 60; i++ {
		name := "STUDENT " + string(rune('A'+i/26)) + string(rune('A'+i%26))
		roster = append(roster, models.Student{SerialNo: i + 1, Name: name, Class: ClassForSerial(i + 1)})
		if i < 25 {
			rows = append(rows, []string{name, "1"})
		}
	}
	matrix := models.RoundMatrix{CompanyID: "CMP01", Headers: []string{"Name of the Student", "Applied"}, Rows: rows}

	stats := BuildGlobalStats(GlobalInput{Roster: roster, Matrices: []models.RoundMatrix{matrix}})
	assert.Len(t, stats.StudentActivity.MostActiveStudents, 20)
	assert.Len(t, stats.StudentActivity.LeastActiveStudents, 20)
	assert.Equal(t, roster[0].Name, stats.StudentActivity.MostActiveStudents[0].Name, "ties keep first-seen order")
	assert.Equal(t, 35, stats.StudentActivity.TotalNeverApplied)
	assert.Len(t, stats.StudentActivity.NeverAppliedStudents, 35)
}
