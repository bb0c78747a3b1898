package util

import "testing"

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"clarity":      "Clarity",
		"bodyLanguage": "BodyLanguage",
		"Already":      "Already",
		"éclat":        "Éclat",
	}
	for in, want := range cases {
		if got := Capitalize(in); got != want {
			t.Fatalf("Capitalize(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestHumanizeTag(t *testing.T) {
	if got := HumanizeTag("technical_problemSolving"); got != "Technical ProblemSolving" {
		t.Fatalf("HumanizeTag: got=%q", got)
	}
	if got := HumanizeTag("general"); got != "General" {
		t.Fatalf("HumanizeTag without separator: got=%q", got)
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("42"); !ok || id != 42 {
		t.Fatalf("ParseID(42): got=%d ok=%v", id, ok)
	}
	for _, bad := range []string{"", "0", "-1", "abc", "4.2"} {
		if _, ok := ParseID(bad); ok {
			t.Fatalf("ParseID(%q): expected failure", bad)
		}
	}
}
