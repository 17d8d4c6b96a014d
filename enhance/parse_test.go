package enhance

import (
	"reflect"
	"testing"
)

func TestParseAllSections(t *testing.T) {
	content := "优化后的文本：\n今天讨论了新项目的排期安排。\n\n相关标签：\n#项目 #排期 #工作\n\n延伸思考：\n可以把排期拆成两周一个里程碑。"

	got := Parse(content, DefaultMarkers())
	want := Result{
		Text:     "今天讨论了新项目的排期安排。",
		Tags:     []string{"#项目", "#排期", "#工作"},
		Thoughts: "可以把排期拆成两周一个里程碑。",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParseIsPure(t *testing.T) {
	content := "优化后的文本：\n文本。\n\n相关标签：\n#tag\n\n延伸思考：\n想法。"

	first := Parse(content, DefaultMarkers())
	second := Parse(content, DefaultMarkers())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Parse() differs: %+v vs %+v", first, second)
	}
}

func TestParseTextOnly(t *testing.T) {
	got := Parse("优化后的文本：\nfoo", DefaultMarkers())

	if got.Text != "foo" {
		t.Errorf("Text = %q, want %q", got.Text, "foo")
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", got.Tags)
	}
	if got.Thoughts != "" {
		t.Errorf("Thoughts = %q, want empty", got.Thoughts)
	}
}

func TestParseMissingSectionsLeaveFieldsEmpty(t *testing.T) {
	content := "相关标签：\n#only #tags"

	got := Parse(content, DefaultMarkers())
	if got.Text != "" || got.Thoughts != "" {
		t.Errorf("Parse() = %+v, want only tags populated", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"#only", "#tags"}) {
		t.Errorf("Tags = %v, want [#only #tags]", got.Tags)
	}
}

func TestParseIgnoresUnknownSections(t *testing.T) {
	content := "前言：\n无关内容。\n\n优化后的文本：\n正文。"

	got := Parse(content, DefaultMarkers())
	if got.Text != "正文。" {
		t.Errorf("Text = %q, want %q", got.Text, "正文。")
	}
}

func TestParseMarkerOnSameLine(t *testing.T) {
	content := "优化后的文本：正文内容。\n\n延伸思考：直接跟在标记后面。"

	got := Parse(content, DefaultMarkers())
	if got.Text != "正文内容。" {
		t.Errorf("Text = %q, want %q", got.Text, "正文内容。")
	}
	if got.Thoughts != "直接跟在标记后面。" {
		t.Errorf("Thoughts = %q, want %q", got.Thoughts, "直接跟在标记后面。")
	}
}

func TestParseNoMarkersAtAll(t *testing.T) {
	got := Parse("just some prose\n\nwith two paragraphs", DefaultMarkers())
	if !reflect.DeepEqual(got, Result{}) {
		t.Errorf("Parse() = %+v, want zero result", got)
	}
}

func TestTagExtraction(t *testing.T) {
	tests := []struct {
		name    string
		section string
		want    []string
	}{
		{"ascii", "相关标签：\n#work #golang", []string{"#work", "#golang"}},
		{"unicode", "相关标签：\n#工作 #生活_记录 #2024", []string{"#工作", "#生活_记录", "#2024"}},
		{"noise between tags", "相关标签：\n#a, some prose #b。#c", []string{"#a", "#b", "#c"}},
		{"bare hash ignored", "相关标签：\n# #real", []string{"#real"}},
		{"no tags", "相关标签：\n没有标签", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.section, DefaultMarkers())
			if !reflect.DeepEqual(got.Tags, tt.want) {
				t.Errorf("Tags = %v, want %v", got.Tags, tt.want)
			}
		})
	}
}

func TestParseCustomMarkers(t *testing.T) {
	m := Markers{Text: "Text:", Tags: "Tags:", Thoughts: "Thoughts:"}
	content := "Text:\nhello\n\nTags:\n#x\n\nThoughts:\nhmm"

	got := Parse(content, m)
	want := Result{Text: "hello", Tags: []string{"#x"}, Thoughts: "hmm"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}
