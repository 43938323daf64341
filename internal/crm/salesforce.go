package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

const (
	salesforceAPIVersion = "v59.0"

	LeadSource = "Experimentation Maturity Assessment"
	LeadStatus = "Open - Not Contacted"
)

// Lead is a completed assessment with identity, ready for the sales
// pipeline.
type Lead struct {
	Email   string
	Name    string
	Company string
	Scores  scoring.Result
}

// SalesforceLead is the Lead sObject body.
type SalesforceLead struct {
	FirstName            string `json:"FirstName,omitempty"`
	LastName             string `json:"LastName"`
	Company              string `json:"Company"`
	Email                string `json:"Email"`
	Description          string `json:"Description"`
	LeadSource           string `json:"LeadSource"`
	Rating               string `json:"Rating"`
	Status               string `json:"Status"`
	ExperimentationScore int    `json:"ExperimentationScore__c"`
	ProcessScore         int    `json:"ProcessScore__c"`
	StrategyScore        int    `json:"StrategyScore__c"`
	InsightScore         int    `json:"InsightScore__c"`
	CultureScore         int    `json:"CultureScore__c"`
}

// BuildLead maps an assessment onto the Salesforce Lead fields. The first
// word of the name becomes FirstName, the rest LastName ("Unknown" when
// missing). Company defaults to "Unknown" as well; both are required by
// Salesforce.
func BuildLead(l Lead) SalesforceLead {
	first, last := splitName(l.Name)
	company := strings.TrimSpace(l.Company)
	if company == "" {
		company = "Unknown"
	}
	cat := l.Scores.Categories

	var desc strings.Builder
	desc.WriteString("Experimentation Maturity Assessment Results:\n")
	fmt.Fprintf(&desc, "Overall Score: %d%%\n", l.Scores.Overall)
	for i, c := range questions.AllCategories() {
		fmt.Fprintf(&desc, "%s Score: %d%%", c.DisplayName(), cat[c])
		if i < len(questions.AllCategories())-1 {
			desc.WriteByte('\n')
		}
	}

	return SalesforceLead{
		FirstName:            first,
		LastName:             last,
		Company:              company,
		Email:                l.Email,
		Description:          desc.String(),
		LeadSource:           LeadSource,
		Rating:               string(scoring.RatingFor(l.Scores.Overall)),
		Status:               LeadStatus,
		ExperimentationScore: l.Scores.Overall,
		ProcessScore:         cat[questions.Process],
		StrategyScore:        cat[questions.Strategy],
		InsightScore:         cat[questions.Insight],
		CultureScore:         cat[questions.Culture],
	}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", "Unknown"
	case 1:
		return parts[0], "Unknown"
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// Salesforce creates Lead records through the REST API.
type Salesforce struct {
	http httpClient
}

// NewSalesforce creates a client for the org at instanceURL using a
// pre-issued OAuth access token.
func NewSalesforce(instanceURL, accessToken string, opts ...ClientOption) *Salesforce {
	return &Salesforce{
		http: newHTTPClient("Salesforce", strings.TrimRight(instanceURL, "/"), accessToken, opts),
	}
}

// Configured reports whether an instance and token are set.
func (s *Salesforce) Configured() bool {
	return s != nil && s.http.baseURL != "" && s.http.token != ""
}

type createResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// CreateLead inserts the lead and returns its record id.
func (s *Salesforce) CreateLead(ctx context.Context, l Lead) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	var res createResult
	path := "/services/data/" + salesforceAPIVersion + "/sobjects/Lead"
	if err := s.http.postJSON(ctx, path, BuildLead(l), &res); err != nil {
		return "", err
	}
	if !res.Success {
		return "", fmt.Errorf("salesforce: lead not created")
	}
	return res.ID, nil
}
