package domain

import "testing"

func TestBlogPost_PrepareForSave(t *testing.T) {
	p := &BlogPost{Title: "Héllo", Intro: "日本語"}
	p.PrepareForSave()

	if p.Color != ColorRed {
		t.Errorf("Color = %q, want %q", p.Color, ColorRed)
	}
	if p.TitleLength != 5 {
		t.Errorf("TitleLength = %d, want 5", p.TitleLength)
	}
	if p.IntroLength != 3 {
		t.Errorf("IntroLength = %d, want 3", p.IntroLength)
	}
}

func TestPostColor_IsValid(t *testing.T) {
	for _, c := range PostColors() {
		if !c.IsValid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if PostColor("black").IsValid() {
		t.Error("black should not be valid")
	}
}

func TestProfile_String(t *testing.T) {
	p := NewProfile(&User{ID: 3, Username: "alice"})
	p.ID = 7
	if got := p.String(); got != "alice's profile id: 7" {
		t.Errorf("String() = %q", got)
	}
	if !p.IsActive || p.IsStaff {
		t.Error("new profile should be active and not staff")
	}

	p.Record("login", "2024-01-01")
	snap := p.HistorySnapshot()
	snap["other"] = 1
	if _, ok := p.History["other"]; ok {
		t.Error("snapshot should not alias history")
	}
}
