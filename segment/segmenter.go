package segment

import (
	"strings"

	"github.com/tsawler/pagesect/model"
)

// Rule maps a heading keyword to a target group. Matching is case-insensitive
// substring matching against the fragment text trimmed of surrounding
// whitespace. Rules are evaluated in slice order and the first match wins,
// so match priority is the order of the rule table, not anything implicit.
type Rule struct {
	// Keyword is the phrase that triggers this rule. It is compared
	// lowercased; an empty keyword disables the rule.
	Keyword string `yaml:"keyword"`

	// Group is the name of the group that receives matching fragments.
	Group string `yaml:"group"`

	// OneShot marks a rule whose matches are classified independently of the
	// running section: the fragment joins the rule's group but the currently
	// active section is left unchanged and does not receive the fragment.
	OneShot bool `yaml:"one_shot"`
}

// Config holds configuration for segmentation.
type Config struct {
	// Rules is the ordered heading vocabulary. First match wins.
	Rules []Rule `yaml:"rules"`
}

// Base group names used by the default vocabulary.
const (
	GroupMarker      = "marker"
	GroupStatus      = "status"
	GroupDescription = "description"
	GroupParameters  = "parameters"
)

// DefaultConfig returns the base status-report vocabulary: a restricted
// marker plus the three section headings.
func DefaultConfig() Config {
	return Config{
		Rules: []Rule{
			{Keyword: "restricted", Group: GroupMarker, OneShot: true},
			{Keyword: "programme/project status report", Group: GroupStatus},
			{Keyword: "description", Group: GroupDescription},
			{Keyword: "report parameters", Group: GroupParameters},
		},
	}
}

// Group is an ordered sequence of fragments sharing a logical label.
// Membership order equals the reading order in which fragments were
// classified.
type Group struct {
	// Name is the group's label from the rule table.
	Name string

	// Fragments are the group members in classification order.
	Fragments []model.Fragment
}

// Size returns the number of fragments in the group.
func (g *Group) Size() int {
	if g == nil {
		return 0
	}
	return len(g.Fragments)
}

// Bounds returns the union of the member bounding boxes. The second return
// value is false for an empty group.
func (g *Group) Bounds() (model.Rect, bool) {
	if g.Size() == 0 {
		return model.Rect{}, false
	}

	bounds := g.Fragments[0].Rect
	for _, f := range g.Fragments[1:] {
		bounds = bounds.Union(f.Rect)
	}
	return bounds, true
}

// Segmenter classifies ordered fragments into named groups via a single
// left-to-right pass, driven by heading-keyword detection. The input must
// already be in reading order (see the layout package); the pass assumes
// follower fragments appear after their heading.
//
// A heading keyword that reappears later in the sequence re-activates its
// group, and subsequent followers resume appending to it. The segmenter does
// not deduplicate or close sections, so documents that repeat heading phrases
// (a table of contents, say) will interleave their groups.
type Segmenter struct {
	config Config

	// keywords holds the rule keywords lowercased once at construction.
	keywords []string
}

// NewSegmenter creates a new segmenter with the default vocabulary.
func NewSegmenter() *Segmenter {
	return NewSegmenterWithConfig(DefaultConfig())
}

// NewSegmenterWithConfig creates a segmenter with a custom vocabulary.
// Rules with an empty keyword never match.
func NewSegmenterWithConfig(config Config) *Segmenter {
	keywords := make([]string, len(config.Rules))
	for i, rule := range config.Rules {
		keywords[i] = strings.ToLower(rule.Keyword)
	}
	return &Segmenter{
		config:   config,
		keywords: keywords,
	}
}

// noGroup marks the absence of an active (or target) group.
const noGroup = -1

// Segment classifies each fragment into a group and returns the resulting
// segmentation. Groups appear in rule-table order regardless of content, so
// an empty input yields the full set of empty groups. Fragments are only
// copied into groups, never mutated.
func (s *Segmenter) Segment(fragments []model.Fragment) *Segmentation {
	groups, groupIndex := s.emptyGroups()

	seg := &Segmentation{Groups: groups, Input: len(fragments)}

	// The active section is threaded through the pass as an explicit
	// accumulator; classify itself holds no state.
	active := noGroup
	for _, frag := range fragments {
		var target int
		active, target = s.classify(active, frag, groupIndex)
		if target == noGroup {
			seg.Dropped = append(seg.Dropped, frag)
			continue
		}
		seg.Groups[target].Fragments = append(seg.Groups[target].Fragments, frag)
	}

	return seg
}

// classify is the pure per-fragment step: given the active group and a
// fragment, it returns the next active group and the target group for the
// fragment (noGroup to drop it). Rules are tried in table order.
func (s *Segmenter) classify(active int, frag model.Fragment, groupIndex map[string]int) (next, target int) {
	text := strings.ToLower(frag.TrimmedText())

	for i, rule := range s.config.Rules {
		if s.keywords[i] == "" || !strings.Contains(text, s.keywords[i]) {
			continue
		}
		gi := groupIndex[rule.Group]
		if rule.OneShot {
			// Independent classification: the running section is untouched.
			return active, gi
		}
		return gi, gi
	}

	// Follower line, or an orphan when no section is active yet.
	return active, active
}

// emptyGroups builds the output groups in rule-table order (first appearance
// of each distinct group name) plus a name-to-index lookup.
func (s *Segmenter) emptyGroups() ([]Group, map[string]int) {
	var groups []Group
	index := make(map[string]int)

	for _, rule := range s.config.Rules {
		if _, seen := index[rule.Group]; seen {
			continue
		}
		index[rule.Group] = len(groups)
		groups = append(groups, Group{Name: rule.Group})
	}

	return groups, index
}
