package outline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Options controls node classification and engine behaviour. The zero value
// is not usable; start from DefaultOptions or ParseOptions.
type Options struct {
	// IgnoreHiddenElements drops elements carrying the hidden attribute
	// together with their whole subtree.
	IgnoreHiddenElements bool

	// IgnoreInnerSectioningRoots drops every sectioning root below the root
	// the walk started from. When false, inner roots get an outline of their
	// own which is then discarded.
	IgnoreInnerSectioningRoots bool

	// VerifyInvariants enables the internal consistency checks.
	VerifyInvariants bool

	// VerifyValidHTML rejects headings that contain sectioning or heading
	// elements.
	VerifyValidHTML bool

	// SkipIgnoredSubtrees stops the walk from descending into ignored nodes.
	SkipIgnoredSubtrees bool

	SectioningRoot    *regexp.Regexp
	SectioningContent *regexp.Regexp
	Heading           *regexp.Regexp
}

const (
	defaultSectioningRoot    = `(?i)^(blockquote|body|details|dialog|fieldset|figure|td)$`
	defaultSectioningContent = `(?i)^(article|aside|nav|section)$`
	defaultHeading           = `(?i)^h[1-6]$`
)

// Option keys accepted by ParseOptions.
const (
	KeyIgnoreHidden      = "ignore-hidden"
	KeyIgnoreInnerRoots  = "ignore-inner-roots"
	KeyVerifyInvariants  = "verify-invariants"
	KeyVerifyHTML        = "verify-html"
	KeySkipIgnored       = "skip-ignored"
	KeySectioningRoot    = "sectioning-root"
	KeySectioningContent = "sectioning-content"
	KeyHeading           = "heading"
)

// DefaultOptions returns the classification of the HTML outline algorithm.
func DefaultOptions() Options {
	return Options{
		IgnoreHiddenElements:       true,
		IgnoreInnerSectioningRoots: false,
		VerifyInvariants:           true,
		VerifyValidHTML:            true,
		SkipIgnoredSubtrees:        false,
		SectioningRoot:             regexp.MustCompile(defaultSectioningRoot),
		SectioningContent:          regexp.MustCompile(defaultSectioningContent),
		Heading:                    regexp.MustCompile(defaultHeading),
	}
}

// Keys lists every key ParseOptions understands, sorted.
func Keys() []string {
	keys := []string{
		KeyIgnoreHidden, KeyIgnoreInnerRoots, KeyVerifyInvariants, KeyVerifyHTML,
		KeySkipIgnored, KeySectioningRoot, KeySectioningContent, KeyHeading,
	}
	sort.Strings(keys)
	return keys
}

// ParseOptions applies string settings on top of DefaultOptions. Pattern
// values are matched case-insensitively against the whole tag name.
func ParseOptions(settings map[string]string) (Options, error) {
	opts := DefaultOptions()

	// Deterministic order so the first bad key reported is stable.
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(settings[key])
		var err error
		switch strings.ToLower(strings.TrimSpace(key)) {
		case KeyIgnoreHidden:
			opts.IgnoreHiddenElements, err = parseBool(key, value)
		case KeyIgnoreInnerRoots:
			opts.IgnoreInnerSectioningRoots, err = parseBool(key, value)
		case KeyVerifyInvariants:
			opts.VerifyInvariants, err = parseBool(key, value)
		case KeyVerifyHTML:
			opts.VerifyValidHTML, err = parseBool(key, value)
		case KeySkipIgnored:
			opts.SkipIgnoredSubtrees, err = parseBool(key, value)
		case KeySectioningRoot:
			opts.SectioningRoot, err = parsePattern(key, value)
		case KeySectioningContent:
			opts.SectioningContent, err = parsePattern(key, value)
		case KeyHeading:
			opts.Heading, err = parsePattern(key, value)
		default:
			return Options{}, newError(CodeInvalidOptions, fmt.Sprintf("unknown option %q", key))
		}
		if err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// Validate reports an invalid-options error for unusable options.
func (o Options) Validate() error {
	if o.SectioningRoot == nil {
		return newError(CodeInvalidOptions, "sectioning root pattern is required")
	}
	if o.SectioningContent == nil {
		return newError(CodeInvalidOptions, "sectioning content pattern is required")
	}
	if o.Heading == nil {
		return newError(CodeInvalidOptions, "heading pattern is required")
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, newError(CodeInvalidOptions, fmt.Sprintf("option %q: %q is not a boolean", key, value))
	}
	return b, nil
}

func parsePattern(key, value string) (*regexp.Regexp, error) {
	if value == "" {
		return nil, newError(CodeInvalidOptions, fmt.Sprintf("option %q: empty pattern", key))
	}
	rx, err := regexp.Compile(`(?i)^(?:` + value + `)$`)
	if err != nil {
		return nil, newError(CodeInvalidOptions, fmt.Sprintf("option %q: %v", key, err))
	}
	return rx, nil
}
