package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		title        string
		input        string
		expectedKind ArgKind
		expectedName string
		expectedSep  string
		expectedVal  string
	}{
		{title: "Scheme", input: "https://example.com/a=b", expectedKind: HostArg},
		{title: "Bare port", input: ":8080", expectedKind: HostArg},
		{title: "Bare port with path", input: ":8080/users", expectedKind: HostArg},
		{title: "Path only", input: "/users", expectedKind: HostArg},
		{title: "Host", input: "example.com", expectedKind: HostArg},
		{title: "Host and port", input: "localhost:3000", expectedKind: HostArg},
		{title: "Host, port and path", input: "localhost:3000/users?x=1", expectedKind: HostArg},
		{title: "Host with query", input: "example.com/search?q=x", expectedKind: HostArg},
		{title: "IPv6", input: "[::1]:8080", expectedKind: HostArg},
		{title: "Equal pair", input: "name=alice", expectedKind: PairArg, expectedName: "name", expectedSep: "=", expectedVal: "alice"},
		{title: "Colon pair", input: "name:alice", expectedKind: PairArg, expectedName: "name", expectedSep: ":", expectedVal: "alice"},
		{title: "Raw JSON pair", input: "tags:=[1]", expectedKind: PairArg, expectedName: "tags", expectedSep: ":=", expectedVal: "[1]"},
		{title: "Value keeps separators", input: "url=http://x/?a=b", expectedKind: PairArg, expectedName: "url", expectedSep: "=", expectedVal: "http://x/?a=b"},
		{title: "Escaped colon", input: `a\:b=c`, expectedKind: PairArg, expectedName: "a:b", expectedSep: "=", expectedVal: "c"},
		{title: "Escaped backslash", input: `a\\b=c`, expectedKind: PairArg, expectedName: `a\b`, expectedSep: "=", expectedVal: "c"},
		{title: "Empty value", input: "a=", expectedKind: PairArg, expectedName: "a", expectedSep: "=", expectedVal: ""},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			arg, err := classify(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedKind, arg.Kind)
			assert.Equal(t, tt.input, arg.Raw)
			if tt.expectedKind == PairArg {
				assert.Equal(t, tt.expectedName, arg.Name)
				assert.Equal(t, tt.expectedSep, arg.Sep)
				assert.Equal(t, tt.expectedVal, arg.Value)
			}
		})
	}
}

func TestSplitKey(t *testing.T) {
	path, err := splitKey(`a.b\.c.d`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b.c", "d"}, path)

	path, err = splitKey(".a..b")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a", "", "b"}, path)

	for _, bad := range []string{`a\n`, `a\`} {
		_, err := splitKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestCheckNestedKey(t *testing.T) {
	for _, token := range []string{"a..b=1", ".a=1", "a.=1"} {
		arg, err := classify(token)
		require.NoError(t, err, token)
		assert.Error(t, checkNestedKey(arg), token)
	}

	arg, err := classify(`a.b\.c=1`)
	require.NoError(t, err)
	assert.NoError(t, checkNestedKey(arg))
}

func TestHeader_Set(t *testing.T) {
	var h Header
	h.Set("X-Foo", "1")
	h.Set("Accept", "*/*")
	h.Set("x-foo", "2")

	assert.Equal(t, []Field{{Name: "X-Foo", Value: "2"}, {Name: "Accept", Value: "*/*"}}, h.Fields())
	assert.Equal(t, "2", h.Get("X-FOO"))
	assert.Equal(t, "", h.Get("X-Bar"))
	assert.Equal(t, 2, h.Len())
}

func TestParams_Encode(t *testing.T) {
	p := NewParams()
	p.Set("b", "1 2")
	p.Set("a", "x&y")
	p.Set("b", "3")

	assert.Equal(t, "b=3&a=x%26y", p.Encode())
	assert.Equal(t, []string{"b", "a"}, p.Keys())
}

func TestParseQuery(t *testing.T) {
	p, err := parseQuery("flag&q=a%20b&n=1&&empty=")
	require.NoError(t, err)
	assert.Equal(t, []string{"flag", "q", "n", "empty"}, p.Keys())
	assert.Equal(t, "flag&q=a%20b&n=1&empty=", p.Encode())

	p.Set("n", "2")
	p.Set("flag", "on")
	assert.Equal(t, "flag=on&q=a%20b&n=2&empty=", p.Encode())

	value, ok := p.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "a b", value)

	_, err = parseQuery("a=%zz")
	assert.Error(t, err)
}
