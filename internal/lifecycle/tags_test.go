package lifecycle

import (
	"reflect"
	"testing"
)

func TestNormalizeTag(t *testing.T) {
	cases := map[string]string{
		"  Deep Work ": "deep work",
		"GO":           "go",
		"":             "",
		"  ":           "",
	}
	for in, want := range cases {
		if got := NormalizeTag(in); got != want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags("Go, writing,  GO , , Writing, music")
	want := []string{"go", "writing", "music"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags = %v, want %v", got, want)
	}

	if got := ParseTags(""); got != nil {
		t.Errorf("ParseTags(\"\") = %v, want nil", got)
	}
}

func TestTagSet(t *testing.T) {
	set := TagSet("Go, writing")
	if !set["go"] || !set["writing"] || len(set) != 2 {
		t.Errorf("TagSet = %v, want {go, writing}", set)
	}
}
