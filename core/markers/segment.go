package markers

// Match is a fully-observed marker occurrence. Start and End are byte
// offsets in the logical concatenated stream, independent of how the
// stream was chunked into fragments.
type Match struct {
	Start   int64
	End     int64
	Text    string
	Payload string
}

// Segment is one element of the ordered scanner output: either a plain
// text run or a completed marker match.
type Segment struct {
	Text  string
	Match *Match
}

// IsMatch reports whether the segment carries a marker match.
func (s Segment) IsMatch() bool {
	return s.Match != nil
}
