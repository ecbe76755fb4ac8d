package domains

import (
	"encoding/json"
	"fmt"
)

// Response is the value recorded for one question. Exactly one payload field
// is meaningful, selected by Type:
//
//	text, multipleChoice -> Text
//	checkbox             -> Choices
//	photo                -> Photo (encoded image bytes)
//	signature            -> Signature (image data URL)
type Response struct {
	Type      QuestionType
	Text      string
	Choices   []string
	Photo     []byte
	Signature string
}

func TextResponse(s string) Response { return Response{Type: QuestionText, Text: s} }

func ChoiceResponse(s string) Response { return Response{Type: QuestionMultipleChoice, Text: s} }

func CheckboxResponse(choices ...string) Response {
	return Response{Type: QuestionCheckbox, Choices: choices}
}

func PhotoResponse(data []byte) Response { return Response{Type: QuestionPhoto, Photo: data} }

func SignatureResponse(dataURL string) Response {
	return Response{Type: QuestionSignature, Signature: dataURL}
}

// Empty reports whether the response carries no answer for its type.
func (r Response) Empty() bool {
	switch r.Type {
	case QuestionText, QuestionMultipleChoice:
		return r.Text == ""
	case QuestionCheckbox:
		return len(r.Choices) == 0
	case QuestionPhoto:
		return len(r.Photo) == 0
	case QuestionSignature:
		return r.Signature == ""
	}
	return true
}

type responseJSON struct {
	Type  QuestionType    `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	var value any
	switch r.Type {
	case QuestionText, QuestionMultipleChoice:
		value = r.Text
	case QuestionCheckbox:
		choices := r.Choices
		if choices == nil {
			choices = []string{}
		}
		value = choices
	case QuestionPhoto:
		value = r.Photo
	case QuestionSignature:
		value = r.Signature
	default:
		return nil, fmt.Errorf("response: unknown type %q", r.Type)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(responseJSON{Type: r.Type, Value: raw})
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var in responseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := Response{Type: in.Type}
	if len(in.Value) == 0 || string(in.Value) == "null" {
		if !in.Type.Valid() {
			return fmt.Errorf("response: unknown type %q", in.Type)
		}
		*r = out
		return nil
	}
	var err error
	switch in.Type {
	case QuestionText, QuestionMultipleChoice:
		err = json.Unmarshal(in.Value, &out.Text)
	case QuestionCheckbox:
		err = json.Unmarshal(in.Value, &out.Choices)
	case QuestionPhoto:
		err = json.Unmarshal(in.Value, &out.Photo)
	case QuestionSignature:
		err = json.Unmarshal(in.Value, &out.Signature)
	default:
		return fmt.Errorf("response: unknown type %q", in.Type)
	}
	if err != nil {
		return fmt.Errorf("response %s: %w", in.Type, err)
	}
	*r = out
	return nil
}
