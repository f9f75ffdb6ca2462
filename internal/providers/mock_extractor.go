// internal/providers/mock_extractor.go
package providers

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"loan-origination-workers/internal/models"
)

var (
	mockNames        = []string{"Rajesh Kumar", "Priya Sharma", "Amit Patel", "Sneha Reddy", "Vikram Singh"}
	mockEmployers    = []string{"TCS", "Infosys", "Wipro", "Accenture", "Cognizant", "HCL", "Tech Mahindra"}
	mockCities       = []string{"Mumbai", "Bangalore", "Delhi", "Hyderabad", "Chennai", "Pune"}
	mockDesignations = []string{"Senior Engineer", "Team Lead", "Manager", "Consultant"}
	mockBanks        = []string{"HDFC", "ICICI", "SBI", "Axis", "Kotak"}
)

// MockExtractor simulates document OCR with realistic dummy data. The
// value pools and ranges mirror what a real extraction vendor returns
// for Indian salary slips and bank statements.
type MockExtractor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockExtractor seeds the simulator. Pass a fixed seed in tests for
// reproducible output.
func NewMockExtractor(seed int64) *MockExtractor {
	return &MockExtractor{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockExtractor) Extract(_ context.Context, documents []string) (*models.OCRResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &models.OCRResult{
		Success: true,
		ExtractedData: &models.ExtractedData{
			Name:        mockNames[m.rng.Intn(len(mockNames))],
			IDNumber:    fmt.Sprintf("XXXX%dX", 1000+m.rng.Intn(9000)),
			DateOfBirth: fmt.Sprintf("%d-%02d-15", 1985+m.rng.Intn(15), 1+m.rng.Intn(12)),
			Address:     fmt.Sprintf("%d, %s - %d", 100+m.rng.Intn(900), mockCities[m.rng.Intn(len(mockCities))], 400001+m.rng.Intn(99999)),

			Employer:      mockEmployers[m.rng.Intn(len(mockEmployers))],
			Designation:   mockDesignations[m.rng.Intn(len(mockDesignations))],
			MonthlySalary: 40000 + m.rng.Intn(60000),
			EmployeeID:    fmt.Sprintf("EMP%d", 10000+m.rng.Intn(90000)),

			AccountNumber:      fmt.Sprintf("XXXX%d", 1000+m.rng.Intn(9000)),
			BankName:           mockBanks[m.rng.Intn(len(mockBanks))],
			AverageBalance:     50000 + m.rng.Intn(150000),
			RecentTransactions: 15 + m.rng.Intn(35),
		},
		Confidence:         0.85 + m.rng.Float64()*0.13,
		DocumentsProcessed: len(documents),
	}, nil
}
