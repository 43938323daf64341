package crm

import (
	"context"
	"strconv"
	"strings"
)

const (
	mailerLiteBaseURL = "https://connect.mailerlite.com/api"

	// DefaultMailerLiteGroup is the assessment subscriber group.
	DefaultMailerLiteGroup = "180387872171361369"
)

// Subscriber is a mailing list signup.
type Subscriber struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Company     string `json:"company"`
	Score       *int   `json:"score"`
	PersonaName string `json:"personaName"`
}

// MailerLite adds assessment respondents to a MailerLite group.
type MailerLite struct {
	http    httpClient
	groupID string
}

// NewMailerLite creates a client. An empty apiKey yields a client whose
// Subscribe returns ErrNotConfigured; an empty groupID uses the default
// assessment group.
func NewMailerLite(apiKey, groupID string, opts ...ClientOption) *MailerLite {
	if groupID == "" {
		groupID = DefaultMailerLiteGroup
	}
	return &MailerLite{
		http:    newHTTPClient("MailerLite", mailerLiteBaseURL, apiKey, opts),
		groupID: groupID,
	}
}

// Configured reports whether an API key is set.
func (m *MailerLite) Configured() bool {
	return m != nil && m.http.token != ""
}

type mailerLiteRequest struct {
	Email  string            `json:"email"`
	Fields map[string]string `json:"fields"`
	Groups []string          `json:"groups"`
}

// Subscribe creates or updates the subscriber.
func (m *MailerLite) Subscribe(ctx context.Context, s Subscriber) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	score := ""
	if s.Score != nil {
		score = strconv.Itoa(*s.Score)
	}
	req := mailerLiteRequest{
		Email: strings.TrimSpace(s.Email),
		Fields: map[string]string{
			"name":       s.Name,
			"company":    s.Company,
			"quiz_score": score,
			"persona":    s.PersonaName,
		},
		Groups: []string{m.groupID},
	}
	return m.http.postJSON(ctx, "/subscribers", req, nil)
}
