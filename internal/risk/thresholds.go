// internal/risk/thresholds.go
package risk

// Score band floors shared by category banding, loan recommendation, and
// the decision branch. Hoisted into one place so the three consumers can
// never drift apart.
const (
	LowRiskFloor    = 70
	MediumRiskFloor = 40
)

// Component weights of the final score.
const (
	incomeWeight    = 0.4
	stabilityWeight = 0.3
	kycWeight       = 0.2
	fraudWeight     = 0.1
)
