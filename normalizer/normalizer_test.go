package normalizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FencesDoNotChangeResult(t *testing.T) {
	payloads := []string{
		`{"problem_statement":"p","context":"c","suggested_responses":["a","b"],"reasoning":"r"}`,
		"{\n  \"solution\": {\n    \"code\": \"print(1)\",\n    \"thoughts\": []\n  }\n}",
		`{}`,
	}

	for _, payload := range payloads {
		want, err := Normalize(payload, ModeStructured)
		require.NoError(t, err)

		wrapped := []string{
			"```json\n" + payload + "\n```",
			"```\n" + payload + "\n```",
			"```JSON\n" + payload + "\n```",
			"  \n```json\n" + payload + "\n```\n  ",
			"```json " + payload + "```",
		}

		for _, w := range wrapped {
			got, err := Normalize(w, ModeStructured)
			require.NoError(t, err, w)
			assert.Equal(t, want, got, w)
		}
	}
}

func TestNormalize_Malformed(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"not json at all",
		`{"problem_statement": "unterminated`,
		"```json\n{\"a\": }\n```",
		`[1, 2, 3]`,
		`null`,
		`{"a": 1} trailing`,
	}

	for _, raw := range bad {
		got, err := Normalize(raw, ModeStructured)
		assert.Nil(t, got, raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrMalformedResponse, raw)

		var malformed *MalformedResponseError
		require.True(t, errors.As(err, &malformed), raw)
		assert.Equal(t, raw, malformed.Raw)
	}
}

func TestNormalize_Freeform(t *testing.T) {
	inputs := map[string]string{
		"  Hello there.\n":                "Hello there.",
		"{ unbalanced braces ]":           "{ unbalanced braces ]",
		"```json\n{\"a\": 1}\n```":        "```json\n{\"a\": 1}\n```",
		"Sure! Here's what I heard: {...": "Sure! Here's what I heard: {...",
	}

	for in, want := range inputs {
		got, err := Normalize(in, ModeFreeform)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNormalize_UnknownMode(t *testing.T) {
	_, err := Normalize("{}", Mode("yaml"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedResponse)
}

func TestStructured_IntoStruct(t *testing.T) {
	var out struct {
		Solution struct {
			Code string `json:"code"`
		} `json:"solution"`
	}

	err := Structured("```json\n{\"solution\": {\"code\": \"x := 1\"}}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, "x := 1", out.Solution.Code)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1}  `))
	assert.Equal(t, "plain", StripFences("plain"))
}
