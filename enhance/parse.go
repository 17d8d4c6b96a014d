package enhance

import (
	"regexp"
	"strings"
)

// Result is the structured enhancement of one transcript. Any field may
// be empty when the response lacked the matching section.
type Result struct {
	// Text is the polished transcript.
	Text string

	// Tags are topic labels, each beginning with "#".
	Tags []string

	// Thoughts is the reflection note.
	Thoughts string
}

// Markers are the literal labels that open each response section.
type Markers struct {
	Text     string
	Tags     string
	Thoughts string
}

// DefaultMarkers returns the section labels the fixed system prompt asks
// the model to produce.
func DefaultMarkers() Markers {
	return Markers{
		Text:     "优化后的文本：",
		Tags:     "相关标签：",
		Thoughts: "延伸思考：",
	}
}

// tagPattern matches a "#" followed by word characters, Unicode-aware.
var tagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Parse splits content on blank-line boundaries and assigns each section
// by its opening marker. Classification and stripping use the same marker
// literal; sections matching no marker are ignored. Parsing is a pure
// function: identical input yields identical results.
func Parse(content string, m Markers) Result {
	var res Result
	for _, section := range strings.Split(content, "\n\n") {
		section = strings.TrimSpace(section)
		switch {
		case strings.HasPrefix(section, m.Text):
			res.Text = stripMarker(section, m.Text)
		case strings.HasPrefix(section, m.Tags):
			res.Tags = tagPattern.FindAllString(stripMarker(section, m.Tags), -1)
		case strings.HasPrefix(section, m.Thoughts):
			res.Thoughts = stripMarker(section, m.Thoughts)
		}
	}
	return res
}

func stripMarker(section, marker string) string {
	rest := strings.TrimPrefix(section, marker)
	rest = strings.TrimPrefix(rest, "\n")
	return strings.TrimSpace(rest)
}
