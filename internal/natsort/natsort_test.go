package natsort

import (
	"slices"
	"testing"
)

func TestPageNumbersSortNumerically(t *testing.T) {
	names := []string{"page_100.png", "page_10.png", "page_2.png", "page_1.png"}
	Sort(names)
	want := []string{"page_1.png", "page_2.png", "page_10.png", "page_100.png"}
	if !slices.Equal(names, want) {
		t.Fatalf("Sort = %v, want %v", names, want)
	}
	if !Less("page_2.png", "page_10.png") || !Less("page_10.png", "page_100.png") {
		t.Fatal("expected numeric ordering")
	}
}

func TestCaseFolding(t *testing.T) {
	if Compare("Page_3.PNG", "page_3.png") == 0 {
		t.Fatal("distinct raw names must not compare equal")
	}
	if !Less("Page_2.png", "page_10.png") {
		t.Fatal("case must not affect numeric ordering")
	}
	if !Less("alpha_9", "BETA_1") {
		t.Fatal("expected case-insensitive text ordering")
	}
}

func TestKeyParts(t *testing.T) {
	key := KeyOf("Slide007b")
	if len(key.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %+v", key.Parts)
	}
	if key.Parts[0].Digits || key.Parts[0].Text != "slide" {
		t.Fatalf("unexpected first part %+v", key.Parts[0])
	}
	if !key.Parts[1].Digits || key.Parts[1].Text != "7" || key.Parts[1].Width != 3 {
		t.Fatalf("unexpected digit part %+v", key.Parts[1])
	}
}

func TestTotalOrderEdgeCases(t *testing.T) {
	ordered := []string{
		"",
		"1",
		"01",
		"2",
		"99999999999999999999999",
		"100000000000000000000000",
		"a",
		"a1",
		"a1b",
		"a2",
		"b",
	}
	for i := 0; i+1 < len(ordered); i++ {
		if !Less(ordered[i], ordered[i+1]) {
			t.Fatalf("expected %q < %q", ordered[i], ordered[i+1])
		}
		if Less(ordered[i+1], ordered[i]) {
			t.Fatalf("ordering not antisymmetric for %q / %q", ordered[i], ordered[i+1])
		}
	}
	if Compare("x", "x") != 0 {
		t.Fatal("equal names must compare equal")
	}
}

func TestSortPathsUsesDirectories(t *testing.T) {
	paths := []string{"imgs/part10/page_1.png", "imgs/part2/page_2.png", "imgs/part2/page_10.png"}
	SortPaths(paths)
	want := []string{"imgs/part2/page_2.png", "imgs/part2/page_10.png", "imgs/part10/page_1.png"}
	if !slices.Equal(paths, want) {
		t.Fatalf("SortPaths = %v, want %v", paths, want)
	}
}
