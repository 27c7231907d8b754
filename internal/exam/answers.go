package exam

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/pot-code/coursecert/internal/domain"
)

// ParseAnswers decode a raw JSON answers value, reporting the first element that is not an integer.
// Integral floats such as 2.0 are accepted.
func ParseAnswers(raw json.RawMessage) ([]int, error) {
	notArray := &domain.InvalidAnswersError{Reason: domain.AnswersNotArray, Index: -1}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, notArray
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, notArray
	}
	if len(items) == 0 {
		return nil, &domain.InvalidAnswersError{Reason: domain.AnswersEmpty, Index: -1}
	}

	answers := make([]int, len(items))
	for i, item := range items {
		v, ok := asInteger(item)
		if !ok {
			return nil, &domain.InvalidAnswersError{Reason: domain.AnswerNotInteger, Index: i, Value: item}
		}
		answers[i] = v
	}
	return answers, nil
}

// asInteger accepts any integral number. Magnitudes beyond int32 are clamped,
// ValidateAnswers then reports them as out of range or missing.
func asInteger(item interface{}) (int, bool) {
	n, ok := item.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return clamp(float64(i)), true
	}
	f, err := n.Float64()
	if err != nil && !math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return clamp(f), true
}

func clamp(f float64) int {
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
