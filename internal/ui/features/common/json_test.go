package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidJSON(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`{}`, true},
		{`[1,2,3]`, true},
		{`"text"`, true},
		{`42`, true},
		{`{"class": "Article"}`, true},
		{``, false},
		{`   `, false},
		{`{not valid json`, false},
		{`{"a": 1,}`, false},
		{`[1, 2`, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidJSON(tt.input))
		})
	}
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", Indent([]byte(`{"a":1}`)))
	assert.Equal(t, "not json", Indent([]byte("not json")))
	assert.Empty(t, Indent(nil))
}

func TestClassNames(t *testing.T) {
	names, err := ClassNames([]byte(`{"classes":[{"class":"Article"},{"class":""},{"class":"Author"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Article", "Author"}, names)

	names, err = ClassNames([]byte(`{"classes":null}`))
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = ClassNames([]byte(`{`))
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"A", "B"}, "B"))
	assert.False(t, Contains([]string{"A", "B"}, "C"))
	assert.False(t, Contains(nil, ""))
}
