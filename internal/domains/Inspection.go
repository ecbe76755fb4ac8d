package domains

import (
	"fmt"
	"time"
)

type InspectionStatus string

const (
	StatusIncomplete InspectionStatus = "incomplete"
	StatusComplete   InspectionStatus = "complete"
)

func (s InspectionStatus) Valid() bool {
	return s == StatusIncomplete || s == StatusComplete
}

type Inspection struct {
	ID             string              `json:"id"`
	TemplateID     string              `json:"template_id"`
	OrganizationID string              `json:"organization_id"`
	InspectorName  string              `json:"inspector_name"`
	Location       string              `json:"location"`
	Status         InspectionStatus    `json:"status"`
	Date           time.Time           `json:"date"`
	Responses      map[string]Response `json:"responses"`
}

func (i Inspection) GetID() string { return i.ID }

type InspectionCreate struct {
	TemplateID    string              `json:"template_id"`
	InspectorName string              `json:"inspector_name"`
	Location      string              `json:"location"`
	Responses     map[string]Response `json:"responses"`
}

type InspectionUpdate struct {
	InspectorName *string             `json:"inspector_name,omitempty"`
	Location      *string             `json:"location,omitempty"`
	Status        *InspectionStatus   `json:"status,omitempty"`
	Responses     map[string]Response `json:"responses,omitempty"`
}

// CheckResponses verifies that every response referring to a question still
// on the template carries that question's type. Responses for questions that
// were removed from the template are kept as they are.
func CheckResponses(t Template, responses map[string]Response) error {
	for id, r := range responses {
		q, ok := t.Question(id)
		if !ok {
			continue
		}
		if r.Type != q.Type {
			return fmt.Errorf("response for %q is %s, question is %s", id, r.Type, q.Type)
		}
	}
	return nil
}

// MissingRequired lists the ids of required questions without an answer.
func MissingRequired(t Template, responses map[string]Response) []string {
	var missing []string
	for _, q := range t.Questions {
		if !q.Required {
			continue
		}
		if r, ok := responses[q.ID]; !ok || r.Empty() {
			missing = append(missing, q.ID)
		}
	}
	return missing
}
