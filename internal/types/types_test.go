package types

import (
	"errors"
	"testing"
)

func TestParseMedalKind(t *testing.T) {
	for _, k := range MedalKinds {
		got, err := ParseMedalKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseMedalKind(%q) = %q, %v", k, got, err)
		}
	}
	for _, bad := range []string{"", "gold", "Platinum"} {
		if _, err := ParseMedalKind(bad); !errors.Is(err, ErrInvalidMedalKind) {
			t.Errorf("ParseMedalKind(%q): expected ErrInvalidMedalKind, got %v", bad, err)
		}
	}
}

func TestMedalCountGet(t *testing.T) {
	m := MedalCount{Gold: 3, Silver: 2, Bronze: 1}
	if m.Get(Gold) != 3 || m.Get(Silver) != 2 || m.Get(Bronze) != 1 {
		t.Errorf("Get returned wrong counts for %+v", m)
	}
	if m.Get("Copper") != 0 {
		t.Error("unknown kind should be 0")
	}
	if m.Total() != 6 {
		t.Errorf("Total = %d, want 6", m.Total())
	}
}

func TestRecordFields(t *testing.T) {
	rec := NewRecord(KindAnniversary, "https://en.wikipedia.org/wiki/Wikipedia:Selected_anniversaries/April")
	rec.Set("event", "Something")
	rec.Set("date", "April 1")
	rec.Set("count", 2)

	if got := rec.Keys(); len(got) != 3 || got[0] != "count" || got[2] != "event" {
		t.Errorf("Keys = %v", got)
	}
	if rec.GetString("count") != "" {
		t.Error("GetString on non-string should be empty")
	}

	clone := rec.Clone()
	clone.Delete("event")
	if !rec.Has("event") || clone.Has("event") {
		t.Error("clone should not share field map")
	}

	flat := rec.ToFlatMap()
	if flat["count"] != "2" || flat["_kind"] != KindAnniversary {
		t.Errorf("ToFlatMap = %v", flat)
	}
	if m := rec.ToMap(); m["_source"] != rec.Source {
		t.Errorf("ToMap source = %v", m["_source"])
	}
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("https://en.wikipedia.org/wiki/Norway")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Domain() != "en.wikipedia.org" || req.Method != "GET" {
		t.Errorf("unexpected request %+v", req)
	}

	for _, bad := range []string{"ftp://x.org", "/wiki/Norway", "https://", "://bad"} {
		if _, err := NewRequest(bad); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("NewRequest(%q): expected ErrInvalidURL, got %v", bad, err)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	fe := &FetchError{URL: "https://x.org", StatusCode: 404, Err: ErrEmptyResponse}
	if !errors.Is(fe, ErrEmptyResponse) {
		t.Error("FetchError should unwrap")
	}
	se := &StorageError{Backend: "csv", Err: fe}
	var target *FetchError
	if !errors.As(se, &target) || target.StatusCode != 404 {
		t.Error("StorageError should unwrap to FetchError")
	}
}
