package toolcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePythonCallRoundTrip(t *testing.T) {
	p := New()
	name, args, ok := p.parsePythonCall(`search(a=1, b="x", c=None)`)
	require.True(t, ok)
	assert.Equal(t, "search", name)
	assert.Equal(t, map[string]any{"a": float64(1), "b": "x", "c": nil}, args)
}

func TestParsePythonCallEmptyArgs(t *testing.T) {
	p := New()
	name, args, ok := p.parsePythonCall("list_boats()")
	require.True(t, ok)
	assert.Equal(t, "list_boats", name)
	assert.Empty(t, args)
	assert.NotNil(t, args)
}

func TestParsePythonCallPrintWrapper(t *testing.T) {
	p := New()
	name, args, ok := p.parsePythonCall(`print(search_legs(from_location="Nice"))`)
	require.True(t, ok)
	assert.Equal(t, "search_legs", name)
	assert.Equal(t, "Nice", args["from_location"])
}

func TestParsePythonCallDottedPrefix(t *testing.T) {
	p := New()
	name, _, ok := p.parsePythonCall(`tools.update_user_profile(bio="sailor")`)
	require.True(t, ok)
	assert.Equal(t, "update_user_profile", name)
}

func TestParsePythonCallRejectsPlaceNames(t *testing.T) {
	p := New()
	for _, input := range []string{
		"Norway(the Lofoten archipelago)",
		"ireland(west coast)",
		"Svalbard(remote, icy)",
	} {
		_, _, ok := p.parsePythonCall(input)
		assert.False(t, ok, "expected rejection of %q", input)
	}
}

func TestParsePythonCallRejectsCapitalizedWord(t *testing.T) {
	p := New()
	_, _, ok := p.parsePythonCall("Anchorage(a sheltered bay)")
	assert.False(t, ok)
}

func TestParsePythonCallRejectsProse(t *testing.T) {
	p := New()
	// call-shaped text embedded in a sentence must not match: the pattern is
	// anchored to the whole trimmed input
	_, _, ok := p.parsePythonCall(`I suggest search_legs(from="Nice") for this`)
	assert.False(t, ok)
}

func TestParsePythonCallCustomDenylist(t *testing.T) {
	p := New(WithProperNounDenylist("patagonia"))
	_, _, ok := p.parsePythonCall("patagonia(southern tip)")
	assert.False(t, ok)

	// the default entries are replaced, and snake_case names always pass
	name, _, ok := p.parsePythonCall("norway_weather(region='north')")
	require.True(t, ok)
	assert.Equal(t, "norway_weather", name)
}

func TestParsePythonDictLiterals(t *testing.T) {
	p := New()
	args := p.parsePythonDict(`{a: True, b: False, c: None, d: "True"}`)
	assert.Equal(t, true, args["a"])
	assert.Equal(t, false, args["b"])
	assert.Nil(t, args["c"])
	// literal replacement is whole-word and never reaches into strings
	assert.Equal(t, "True", args["d"])
}

func TestParsePythonDictEmpty(t *testing.T) {
	p := New()
	assert.Empty(t, p.parsePythonDict("{}"))
	assert.Empty(t, p.parsePythonDict("   "))
}

func TestParsePythonDictSingleQuotedFallback(t *testing.T) {
	p := New()
	args := p.parsePythonDict(`role='skipper', crew_size=4`)
	assert.Equal(t, "skipper", args["role"])
	assert.EqualValues(t, 4, args["crew_size"])
}

func TestParsePythonDictNestedUnquoted(t *testing.T) {
	p := New()
	args := p.parsePythonDict(`{profile: {full_name: 'Jane', age: 30}, active: True}`)
	assert.Equal(t, true, args["active"])
	nested, ok := args["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane", nested["full_name"])
	assert.EqualValues(t, 30, nested["age"])
}
