package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.True(t, opts.IgnoreHiddenElements)
	assert.False(t, opts.IgnoreInnerSectioningRoots)
	assert.True(t, opts.VerifyInvariants)
	assert.True(t, opts.VerifyValidHTML)
	assert.False(t, opts.SkipIgnoredSubtrees)

	for _, tag := range []string{"body", "BLOCKQUOTE", "details", "dialog", "fieldset", "figure", "td"} {
		assert.True(t, opts.SectioningRoot.MatchString(tag), tag)
	}
	for _, tag := range []string{"article", "aside", "nav", "Section"} {
		assert.True(t, opts.SectioningContent.MatchString(tag), tag)
	}
	assert.False(t, opts.SectioningContent.MatchString("sections"))
	assert.True(t, opts.Heading.MatchString("H6"))
	assert.False(t, opts.Heading.MatchString("h7"))
	assert.False(t, opts.Heading.MatchString("header"))
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(map[string]string{
		KeyIgnoreHidden:     "false",
		KeyIgnoreInnerRoots: "true",
		KeySkipIgnored:      " 1 ",
		KeyHeading:          "h[1-6]|hgroup",
	})
	require.NoError(t, err)
	assert.False(t, opts.IgnoreHiddenElements)
	assert.True(t, opts.IgnoreInnerSectioningRoots)
	assert.True(t, opts.SkipIgnoredSubtrees)
	assert.True(t, opts.VerifyInvariants, "untouched keys keep their default")
	assert.True(t, opts.Heading.MatchString("HGROUP"))
	assert.False(t, opts.Heading.MatchString("xhgroup"), "patterns are anchored")
}

func TestParseOptions_Errors(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
		want     string
	}{
		{"unknown key", map[string]string{"ignore-everything": "true"}, `unknown option "ignore-everything"`},
		{"bad bool", map[string]string{KeyVerifyHTML: "maybe"}, `"maybe" is not a boolean`},
		{"empty pattern", map[string]string{KeySectioningRoot: "  "}, "empty pattern"},
		{"bad pattern", map[string]string{KeySectioningContent: "sec(tion"}, KeySectioningContent},
		{"first key reported", map[string]string{"b-unknown": "x", "a-unknown": "x"}, `"a-unknown"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.settings)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOptions)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	for _, unset := range []func(*Options){
		func(o *Options) { o.SectioningRoot = nil },
		func(o *Options) { o.SectioningContent = nil },
		func(o *Options) { o.Heading = nil },
	} {
		opts := DefaultOptions()
		unset(&opts)
		assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)

		_, err := NewBuilder(opts, nil)
		assert.ErrorIs(t, err, ErrInvalidOptions)
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	assert.Len(t, keys, 8)
	assert.IsIncreasing(t, keys)
	// "true" is also a valid, if useless, tag pattern.
	for _, k := range keys {
		_, err := ParseOptions(map[string]string{k: "true"})
		assert.NoError(t, err, k)
	}
}
