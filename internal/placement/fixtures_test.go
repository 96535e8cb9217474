package placement

import "github.com/noah-isme/placement-cell-api/internal/models"

func sampleLedger() []models.PlacementRecord {
	return []models.PlacementRecord{
		{RecordID: 1, CompanyID: "CMP01", CompanyName: "Acme", Status: "Completed", Role: "Developer", Package: "6 LPA", StudentNames: "anson thomas"},
		{RecordID: 2, CompanyID: "CMP02", CompanyName: "Globex", Status: "On-going", Role: "Analyst", Package: "4 LPA", StudentNames: "Jaiby Joseph"},
	}
}

func sampleMatrices() []models.RoundMatrix {
	return []models.RoundMatrix{
		{
			CompanyID:   "CMP02",
			CompanyName: "Globex",
			Headers:     []string{"Name of the Student", "Applied", "Round1", "HR"},
			Rows: [][]string{
				{"Soujanya M Bhat", "1", "0", "0"},
				{"JAIBY MARIYA JOSEPH", "1", "1", "1"},
				{"Outsider Person", "1", "1", "0"},
			},
		},
		{
			CompanyID:   "CMP01",
			CompanyName: "Acme",
			Headers:     []string{"Name of the Student", "Applied", "Round1", "Selected"},
			Rows: [][]string{
				{"SOUJANYA M BHAT", "1", "1", "0"},
				{"ANSON THOMAS", "1", "1", "1"},
				{"KISHAN", "0", "0", "0"},
			},
		},
		{
			CompanyID: "CMP03",
			Source:    "CMP03.csv",
			Headers:   []string{"Reg No", "Applied"},
			Rows:      [][]string{{"R01", "1"}},
		},
	}
}
