package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

// ErrInvalidQuizPayload marks provider output that is not an acceptable quiz.
var ErrInvalidQuizPayload = errors.New("invalid quiz payload")

type quizPayload struct {
	Questions []types.Question `json:"questions" validate:"required,min=1,dive"`
}

// parseQuizPayload accepts either a bare JSON object or a single fenced code block
// holding one. Anything around the object is rejected; extra keys inside it
// (an explanation per question, a topic echo) are ignored.
func parseQuizPayload(text string) ([]types.Question, error) {
	body, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	var payload quizPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidQuizPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidQuizPayload)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidQuizPayload)
	}
	if err := Validator().Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuizPayload, describeValidation(err))
	}
	return payload.Questions, nil
}

func extractJSONObject(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidQuizPayload)
	}
	if strings.HasPrefix(s, "```") {
		if !strings.HasSuffix(s, "```") || len(s) < 6 {
			return nil, fmt.Errorf("%w: unterminated code fence", ErrInvalidQuizPayload)
		}
		inner := s[3 : len(s)-3]
		nl := strings.IndexByte(inner, '\n')
		if nl < 0 {
			return nil, fmt.Errorf("%w: malformed code fence", ErrInvalidQuizPayload)
		}
		lang := strings.TrimSpace(inner[:nl])
		if lang != "" && !strings.EqualFold(lang, "json") {
			return nil, fmt.Errorf("%w: unexpected fence language %q", ErrInvalidQuizPayload, lang)
		}
		s = strings.TrimSpace(inner[nl+1:])
		if strings.Contains(s, "```") {
			return nil, fmt.Errorf("%w: more than one code fence", ErrInvalidQuizPayload)
		}
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("%w: response is not a single JSON object", ErrInvalidQuizPayload)
	}
	return []byte(s), nil
}
