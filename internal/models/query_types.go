// internal/models/query_types.go
package models

// ApplicationStats summarizes the store for the admin dashboard.
type ApplicationStats struct {
	Total        int `json:"total"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
	Pending      int `json:"pending"`
	AvgRiskScore int `json:"avgRiskScore"`
}

// ApplicationFilter narrows a list query. Zero value matches everything.
type ApplicationFilter struct {
	Status string `json:"status,omitempty"`
	Result string `json:"result,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}
