// Package segment partitions reading-ordered text fragments into labeled
// groups driven by heading-keyword detection.
//
// A [Segmenter] runs a single left-to-right pass over the ordered fragments.
// Fragments matching a heading keyword open their group and join it as its
// first member; subsequent non-matching fragments follow into whichever
// group is currently open. Fragments seen before any heading join no group.
// One-shot rules (the "restricted" marker in the default vocabulary)
// classify their matches without disturbing the open section.
//
//	seg := segment.NewSegmenter().Segment(ordered)
//	status := seg.Group(segment.GroupStatus)
//
// The heading vocabulary is an ordered rule table, evaluated first match
// wins. Custom vocabularies can be built in code or loaded from YAML with
// [LoadConfig].
package segment
