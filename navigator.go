package pdfredact

import (
	"github.com/pkg/errors"
)

// ErrNoCurrentMatch is returned when redacting before Next or after the last match.
var ErrNoCurrentMatch = errors.New("no current match")

// ErrAlreadyRedacted is returned when the current match was redacted before.
var ErrAlreadyRedacted = errors.New("match already redacted")

// Redaction is an accepted match, ready to be burned into the page image.
type Redaction struct {
	Rule  string
	Text  string
	Zones Region
}

// Navigator walks the combined matches of several rules in document order,
// the way a "find next / redact / redact all" dialog does.
type Navigator struct {
	rules    []Rule
	matches  []RuleMatch
	redacted []bool
	pos      int // index of the current match, -1 before the first Next
}

// NewNavigator creates a navigator over the given rules.
func NewNavigator(rules ...Rule) *Navigator {
	return &Navigator{rules: rules, pos: -1}
}

// Load runs every rule against text and resets the navigation state.
// Matches are ordered by start offset; on ties, earlier rules come first.
// Overlapping matches from different rules are kept.
func (n *Navigator) Load(text *Text) {
	all := runRules(n.rules, text)

	n.matches = all
	n.redacted = make([]bool, len(all))
	n.pos = -1
}

// Matches returns every loaded match, clues included.
func (n *Navigator) Matches() []RuleMatch {
	return n.matches
}

// Next advances to the next redactable match, skipping clues.
func (n *Navigator) Next() (RuleMatch, bool) {
	for n.pos+1 < len(n.matches) {
		n.pos++
		if !n.matches[n.pos].IsClue {
			return n.matches[n.pos], true
		}
	}
	n.pos = len(n.matches)
	return RuleMatch{}, false
}

// Current returns the match Next last stopped at.
func (n *Navigator) Current() (RuleMatch, bool) {
	if n.pos < 0 || n.pos >= len(n.matches) {
		return RuleMatch{}, false
	}
	return n.matches[n.pos], true
}

// Redact accepts the current match.
func (n *Navigator) Redact() (Redaction, error) {
	m, ok := n.Current()
	if !ok {
		return Redaction{}, ErrNoCurrentMatch
	}
	if n.redacted[n.pos] {
		return Redaction{}, errors.Wrapf(ErrAlreadyRedacted, "offset %d", m.StartOffset)
	}
	n.redacted[n.pos] = true
	return toRedaction(m), nil
}

// Skip moves past the current match without redacting it.
func (n *Navigator) Skip() (RuleMatch, bool) {
	return n.Next()
}

// RedactAll accepts every remaining redactable match after the current one,
// including the current match if it hasn't been redacted.
func (n *Navigator) RedactAll() []Redaction {
	var out []Redaction
	from := max(n.pos, 0)
	for i := from; i < len(n.matches); i++ {
		if n.matches[i].IsClue || n.redacted[i] {
			continue
		}
		n.redacted[i] = true
		out = append(out, toRedaction(n.matches[i]))
	}
	n.pos = len(n.matches)
	return out
}

// Reset returns to before the first match. Redactions already made stay.
func (n *Navigator) Reset() {
	n.pos = -1
}

func toRedaction(m RuleMatch) Redaction {
	return Redaction{
		Rule:  m.Rule,
		Text:  m.Text,
		Zones: m.Region,
	}
}
