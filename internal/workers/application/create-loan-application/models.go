// internal/workers/application/create-loan-application/models.go
package createloanapplication

type Input struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	LoanAmount int               `json:"loanAmount"`
	Documents  map[string]string `json:"documents"`
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	CreatedAt         string `json:"createdAt"` // ISO 8601
	Message           string `json:"message"`
}
