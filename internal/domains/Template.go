package domains

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multipleChoice"
	QuestionCheckbox       QuestionType = "checkbox"
	QuestionPhoto          QuestionType = "photo"
	QuestionSignature      QuestionType = "signature"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionMultipleChoice, QuestionCheckbox, QuestionPhoto, QuestionSignature:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type pick from an option list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionMultipleChoice || t == QuestionCheckbox
}

type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

type Template struct {
	ID             string     `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	OrganizationID string     `db:"organization_id" json:"organization_id"`
	Questions      []Question `db:"questions" json:"questions"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

func (t Template) GetID() string { return t.ID }

// Question returns the question with the given id, if the template still has it.
func (t Template) Question(id string) (Question, bool) {
	for _, q := range t.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

type TemplateCreate struct {
	Name           string     `json:"name"`
	OrganizationID string     `json:"organization_id"`
	Questions      []Question `json:"questions"`
}

// TemplateUpdate is a partial patch: nil fields are left untouched.
type TemplateUpdate struct {
	Name      *string    `json:"name,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

// NormalizeQuestions assigns ids to questions that have none and checks
// types, prompts and id uniqueness.
func NormalizeQuestions(questions []Question) ([]Question, error) {
	out := make([]Question, len(questions))
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if !q.Type.Valid() {
			return nil, fmt.Errorf("question %d: unknown type %q", i+1, q.Type)
		}
		if q.Question == "" {
			return nil, fmt.Errorf("question %d: prompt is required", i+1)
		}
		if q.Type.HasOptions() && len(q.Options) == 0 {
			return nil, fmt.Errorf("question %d: %s requires options", i+1, q.Type)
		}
		if !q.Type.HasOptions() {
			q.Options = nil
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("question %d: duplicate id %q", i+1, q.ID)
		}
		seen[q.ID] = struct{}{}
		out[i] = q
	}
	return out, nil
}
