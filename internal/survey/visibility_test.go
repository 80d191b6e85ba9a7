package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParentQuestionName(t *testing.T) {
	testCases := []struct {
		expr string
		want string
	}{
		{"{q1} = 'red'", "q1"},
		{"{q1} <> 'red'", "q1"},
		{"{q1} notempty", "q1"},
		{"{ q1 }", "q1"},
		{"{a} = 'x' or {b} = 'y'", "a"}, // only the first reference counts
		{"no references here", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, ParseParentQuestionName(tc.expr), "expr %q", tc.expr)
	}
}

func TestEvaluateVisibleIf(t *testing.T) {
	resp, err := ParseResponse(`{
		"color": "red",
		"tags": ["a", "b"],
		"count": 3,
		"done": true,
		"blank": ""
	}`)
	require.NoError(t, err)

	testCases := []struct {
		name string
		expr string
		want bool
	}{
		{"no condition", "", true},
		{"equals match", "{color} = 'red'", true},
		{"equals mismatch", "{color} = 'blue'", false},
		{"not equals", "{color} <> 'blue'", true},
		{"not equals on match", "{color} <> 'red'", false},
		{"not equals without answer", "{missing} <> 'x'", false},
		{"notempty answered", "{color} notempty", true},
		{"notempty missing", "{missing} notempty", false},
		{"notempty blank", "{blank} notempty", false},
		{"empty missing", "{missing} empty", true},
		{"empty answered", "{color} empty", false},
		{"bare reference", "{color}", true},
		{"array contains", "{tags} = 'b'", true},
		{"array without match", "{tags} = 'z'", false},
		{"number literal", "{count} = '3'", true},
		{"boolean literal", "{done} = 'true'", true},
		{"composite falls back to presence", "{color} = 'red' and {missing} = 'x'", true},
		{"composite on missing parent", "{missing} = 'x' or {color} = 'red'", false},
		{"unparsable without reference", "anything goes", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EvaluateVisibleIf(tc.expr, resp))
		})
	}
}
