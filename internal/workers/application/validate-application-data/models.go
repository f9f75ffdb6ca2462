// internal/workers/application/validate-application-data/models.go
package validateapplicationdata

type Input struct {
	ApplicationID   string                 `json:"applicationId"`
	ApplicationData map[string]interface{} `json:"applicationData"`
}

type Output struct {
	ApplicationID    string            `json:"applicationId"`
	IsValid          bool              `json:"isValid"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
