// internal/workers/application/query-applications/models.go
package queryapplications

import "loan-origination-workers/internal/models"

// Query types accepted by the worker.
const (
	QueryTypeGet    = "get"
	QueryTypeList   = "list"
	QueryTypeStats  = "stats"
	QueryTypeSearch = "search"
)

type Input struct {
	QueryType     string `json:"queryType"`
	ApplicationID string `json:"applicationId,omitempty"`
	Status        string `json:"status,omitempty"`
	Result        string `json:"result,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	SearchText    string `json:"searchText,omitempty"`
}

type Output struct {
	Application  *models.Application      `json:"application,omitempty"`
	Applications []*models.Application    `json:"applications,omitempty"`
	Stats        *models.ApplicationStats `json:"stats,omitempty"`
	SearchHits   []map[string]interface{} `json:"searchHits,omitempty"`
	TotalHits    int                      `json:"totalHits"`
}
