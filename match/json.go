package match

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
	"github.com/tarmac-project/fetchmock"
)

// JSONPath compiles a jq expression that is evaluated against the decoded
// JSON request body. The matcher succeeds when the expression yields at least
// one value and every value is truthy (neither null nor false). A body that is
// not valid JSON never matches.
//
//	match.JSONPath(`.user.id == 42`)
//	match.JSONPath(`.items | length > 0`)
func JSONPath(expression string) (fetchmock.Matcher, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	return newPredicate("json "+expression, func(r *fetchmock.Request) (bool, error) {
		if len(r.Body) == 0 {
			return false, nil
		}
		var data any
		if err := json.Unmarshal(r.Body, &data); err != nil {
			return false, nil
		}

		iter := code.Run(data)
		matched := false
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, ok := v.(error); ok {
				return false, fmt.Errorf("jq error: %w", err)
			}
			if v == nil || v == false {
				return false, nil
			}
			matched = true
		}
		return matched, nil
	}), nil
}

// MustJSONPath is like JSONPath but panics on an invalid expression.
func MustJSONPath(expression string) fetchmock.Matcher {
	m, err := JSONPath(expression)
	if err != nil {
		panic(err)
	}
	return m
}

// JSONEqual matches when the body decodes to a value equal to v once both are
// normalized through encoding/json.
func JSONEqual(v any) fetchmock.Matcher {
	want, err := normalizeJSON(v)
	return newPredicate(fmt.Sprintf("json equal %s", want), func(r *fetchmock.Request) (bool, error) {
		if err != nil {
			return false, err
		}
		var got any
		if jsonErr := json.Unmarshal(r.Body, &got); jsonErr != nil {
			return false, nil
		}
		gotNorm, normErr := normalizeJSON(got)
		if normErr != nil {
			return false, normErr
		}
		return gotNorm == want, nil
	})
}

func normalizeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return "", err
	}
	out, err := json.Marshal(decoded)
	return string(out), err
}
