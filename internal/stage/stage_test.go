package stage

import "testing"

func TestReportNilProgress(t *testing.T) {
	Report(nil, 10, "ignored")
}

func TestReportForwardsUpdate(t *testing.T) {
	var got []Update
	Report(func(u Update) { got = append(got, u) }, 42, "page 3")
	if len(got) != 1 || got[0].Percent != 42 || got[0].Message != "page 3" {
		t.Fatalf("unexpected updates: %+v", got)
	}
}

func TestHealthConstructors(t *testing.T) {
	if h := Ready("render"); !h.Ready || h.Name != "render" {
		t.Fatalf("Ready = %+v", h)
	}
	if h := NotReady("render", "soffice missing"); h.Ready || h.Detail != "soffice missing" {
		t.Fatalf("NotReady = %+v", h)
	}
}
