package transform

import (
	"regexp"
	"strings"
)

// StripOptions configures banner stripping. The zero value disables it.
type StripOptions struct {
	Enabled bool

	// Block strips every leading /* ... */ comment, including /*! ... */
	// comments, which are otherwise preserved.
	Block bool

	// Line also strips leading // comment lines.
	Line bool
}

// Active reports whether stripping changes content.
func (o StripOptions) Active() bool {
	return o.Enabled
}

// StripBanner removes a leading banner comment from src.
func StripBanner(src string, opts StripOptions) string {
	if !opts.Enabled {
		return src
	}
	return bannerPattern(opts).ReplaceAllLiteralString(src, "")
}

var bannerPatterns = map[[2]bool]*regexp.Regexp{}

func init() {
	for _, block := range []bool{false, true} {
		for _, line := range []bool{false, true} {
			bannerPatterns[[2]bool{block, line}] = compileBanner(block, line)
		}
	}
}

func bannerPattern(opts StripOptions) *regexp.Regexp {
	return bannerPatterns[[2]bool{opts.Block, opts.Line}]
}

func compileBanner(block, line bool) *regexp.Regexp {
	var alts []string
	if line {
		alts = append(alts, `(?:.*//.*\r?\n)*\s*`)
	}
	if block {
		alts = append(alts, `/\*[\s\S]*?\*/`)
	} else {
		alts = append(alts, `/\*[^!][\s\S]*?\*/`)
	}
	return regexp.MustCompile(`^\s*(?:` + strings.Join(alts, "|") + `)\s*`)
}
