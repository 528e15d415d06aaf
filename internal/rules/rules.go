package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/MawKKe/copy-tree-map/internal/runerr"
)

// Rule maps one input file extension to an output codec, container
// extension, and bitrate. Extensions carry no leading dot and are matched
// case-sensitively.
type Rule struct {
	InputExt  string
	Codec     string
	OutputExt string
	Bitrate   string
}

// String renders the rule in its CLI form, e.g. "flac:libmp3lame:mp3:128k".
func (r Rule) String() string {
	return strings.Join([]string{r.InputExt, r.Codec, r.OutputExt, r.Bitrate}, ":")
}

// rulePattern is the grammar of --ffmpeg rule strings:
// INPUT-EXT:OUTPUT-CODEC:OUTPUT-EXT:BITRATE with a bitrate like "128k".
var rulePattern = regexp.MustCompile(`^([A-Za-z0-9]+):([A-Za-z0-9]+):([A-Za-z0-9]+):([0-9]+k)$`)

// ParseRule parses a single colon-delimited rule string. A malformed rule
// is a configuration error; the run must not start.
func ParseRule(raw string) (Rule, error) {
	trimmed := strings.TrimSpace(raw)
	groups := rulePattern.FindStringSubmatch(trimmed)
	if groups == nil {
		return Rule{}, runerr.Wrap(runerr.ErrConfiguration, "rules", "parse",
			fmt.Sprintf("invalid rule %q (expected INPUT-EXT:OUTPUT-CODEC:OUTPUT-EXT:BITRATE, e.g. flac:libopus:ogg:192k)", raw), nil)
	}
	return Rule{
		InputExt:  groups[1],
		Codec:     groups[2],
		OutputExt: groups[3],
		Bitrate:   groups[4],
	}, nil
}

// ParseRules parses an ordered list of rule strings. Order is preserved:
// classification uses the first rule whose input extension matches.
func ParseRules(raw []string) ([]Rule, error) {
	parsed := make([]Rule, 0, len(raw))
	for _, entry := range raw {
		rule, err := ParseRule(entry)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, rule)
	}
	return parsed, nil
}

// ActionKind tags the per-file policy chosen for one input file.
type ActionKind int

const (
	// ActionCopy duplicates the file unchanged.
	ActionCopy ActionKind = iota
	// ActionTranscode re-encodes the file through the external engine.
	ActionTranscode
	// ActionDrop skips the file entirely.
	ActionDrop
)

// String returns the lower-case label used in logs and the report store.
func (k ActionKind) String() string {
	switch k {
	case ActionCopy:
		return "copy"
	case ActionTranscode:
		return "transcode"
	case ActionDrop:
		return "drop"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// FileAction is the classification result for one input file: the action
// kind, the relative destination path (empty for drops), and the matched
// rule (nil unless transcoding).
type FileAction struct {
	Kind ActionKind
	Dest string
	Rule *Rule
}

// Matcher classifies relative file paths. It is immutable after
// construction and safe for concurrent use.
type Matcher struct {
	ignore []string
	rules  []Rule
}

// NewMatcher builds a matcher from ignore globs and an ordered rule list.
// Glob syntax errors are configuration errors surfaced here, before any
// file is touched.
func NewMatcher(ignoreGlobs []string, ruleList []Rule) (*Matcher, error) {
	for _, pattern := range ignoreGlobs {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return nil, runerr.Wrap(runerr.ErrConfiguration, "rules", "ignore glob",
				fmt.Sprintf("invalid pattern %q", pattern), err)
		}
	}
	m := &Matcher{
		ignore: append([]string(nil), ignoreGlobs...),
		rules:  append([]Rule(nil), ruleList...),
	}
	return m, nil
}

// Rules returns the configured rule list in match order.
func (m *Matcher) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// Classify maps one relative file path to exactly one FileAction.
//
// Order of precedence: an ignore glob matching the basename drops the
// file; otherwise the first rule matching the file's extension transcodes
// it (same relative directory, same stem, extension replaced); otherwise
// the file is copied to the identical relative path. Pure and
// deterministic given its inputs.
func (m *Matcher) Classify(relPath string) FileAction {
	base := filepath.Base(relPath)
	for _, pattern := range m.ignore {
		// Patterns are validated in NewMatcher; Match cannot fail here.
		if ok, _ := filepath.Match(pattern, base); ok {
			return FileAction{Kind: ActionDrop}
		}
	}

	ext := filepath.Ext(relPath)
	if ext != "" {
		bare := strings.TrimPrefix(ext, ".")
		for i := range m.rules {
			if m.rules[i].InputExt == bare {
				rule := m.rules[i]
				dest := strings.TrimSuffix(relPath, ext) + "." + rule.OutputExt
				return FileAction{Kind: ActionTranscode, Dest: dest, Rule: &rule}
			}
		}
	}

	return FileAction{Kind: ActionCopy, Dest: relPath}
}
