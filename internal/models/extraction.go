// internal/models/extraction.go
package models

// OCRResult is the envelope produced by the document extraction stage.
type OCRResult struct {
	Success            bool           `json:"success"`
	ExtractedData      *ExtractedData `json:"extractedData"`
	Confidence         float64        `json:"confidence"`
	DocumentsProcessed int            `json:"documentsProcessed"`
}

// ExtractedData holds the structured fields parsed out of the applicant's
// ID document, salary slip, and bank statement. Immutable once produced.
type ExtractedData struct {
	// From ID document
	Name        string `json:"name"`
	IDNumber    string `json:"idNumber"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`

	// From salary slip
	Employer      string `json:"employer"`
	Designation   string `json:"designation"`
	MonthlySalary int    `json:"monthlySalary"`
	EmployeeID    string `json:"employeeId"`

	// From bank statement
	AccountNumber      string `json:"accountNumber"`
	BankName           string `json:"bankName"`
	AverageBalance     int    `json:"averageBalance"`
	RecentTransactions int    `json:"recentTransactions"`
}

type DocumentQuality struct {
	Quality  float64  `json:"quality"`
	Issues   []string `json:"issues"`
	Readable bool     `json:"readable"`
	Tampered bool     `json:"tampered"`
}

type TamperResult struct {
	Tampered   bool     `json:"tampered"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators"`
}
