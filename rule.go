package pdfredact

import (
	"sort"

	"github.com/pkg/errors"
)

// Rule finds redaction candidates in a document's logical text.
// Implementations must not retain or modify the text.
type Rule interface {
	Name() string
	GetMatches(text *Text) []RuleMatch
}

// RuleMatch is a candidate produced by a rule.
type RuleMatch struct {
	Rule        string
	Kind        string
	StartOffset int // Inclusive
	EndOffset   int // Inclusive
	Text        string
	Region      Region

	// IsClue marks a weak, contextual indicator that is not itself redactable.
	IsClue bool
}

// Bracket rule option keys.
const (
	OptionSquareBrackets = "enableSquareBrackets"
	OptionCurvedBrackets = "enableCurvedBrackets"
	OptionCurlyBrackets  = "enableCurlyBrackets"
)

// ParseBracketOptions builds a BracketConfig from rule options. Missing keys
// default to disabled. Unknown keys, or a set with none of the recognized
// keys, are rejected.
func ParseBracketOptions(options map[string]bool) (BracketConfig, error) {
	var cfg BracketConfig
	recognized := 0

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := options[key]
		switch key {
		case OptionSquareBrackets:
			cfg.Square = value
		case OptionCurvedBrackets:
			cfg.Curved = value
		case OptionCurlyBrackets:
			cfg.Curly = value
		default:
			return BracketConfig{}, errors.Errorf("unknown bracket option %q", key)
		}
		recognized++
	}

	if recognized == 0 {
		return BracketConfig{}, errors.New("no bracket options given")
	}

	return cfg, nil
}

// BracketRule reports every matched bracket pair as a direct candidate.
type BracketRule struct {
	config     BracketConfig
	concurrent bool
}

// NewBracketRule creates a rule for the kinds enabled in cfg.
func NewBracketRule(cfg BracketConfig) *BracketRule {
	return &BracketRule{config: cfg}
}

// NewConcurrentBracketRule creates a rule that scans each kind on its own goroutine.
func NewConcurrentBracketRule(cfg BracketConfig) *BracketRule {
	return &BracketRule{config: cfg, concurrent: true}
}

// Name implements Rule.
func (r *BracketRule) Name() string {
	return "brackets"
}

// Config returns the rule's bracket configuration.
func (r *BracketRule) Config() BracketConfig {
	return r.config
}

// GetMatches implements Rule.
func (r *BracketRule) GetMatches(text *Text) []RuleMatch {
	var matches MatchCollection
	if r.concurrent {
		matches = MatchBracketsConcurrent(text, r.config)
	} else {
		matches = MatchBrackets(text, r.config)
	}
	return toRuleMatches(r.Name(), text, matches)
}

// FindBrackets matches brackets and reconstructs each match's region.
func FindBrackets(text *Text, cfg BracketConfig) []RuleMatch {
	return NewBracketRule(cfg).GetMatches(text)
}

func toRuleMatches(rule string, text *Text, matches MatchCollection) []RuleMatch {
	if len(matches) == 0 {
		return nil
	}

	result := make([]RuleMatch, len(matches))
	for i, m := range matches {
		result[i] = RuleMatch{
			Rule:        rule,
			Kind:        m.Kind.String(),
			StartOffset: m.StartOffset,
			EndOffset:   m.EndOffset,
			Text:        text.Slice(m.StartOffset, m.EndOffset),
			Region:      BuildRegion(text, m),
		}
	}
	return result
}

// runRules collects the matches of every rule, ordered by start offset.
// On ties, matches keep rule registration order.
func runRules(rules []Rule, text *Text) []RuleMatch {
	var all []RuleMatch
	for _, rule := range rules {
		all = append(all, rule.GetMatches(text)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].StartOffset < all[j].StartOffset
	})
	return all
}
