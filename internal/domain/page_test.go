package domain

import "testing"

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name         string
		requested    int
		size, total  int
		wantNumber   int
		wantOffset   int
		wantNumPages int
	}{
		{"First page", 1, 8, 20, 1, 0, 3},
		{"Middle page", 2, 8, 20, 2, 8, 3},
		{"Last page", 3, 8, 20, 3, 16, 3},
		{"Past the end clamps to last", 9, 8, 20, 3, 16, 3},
		{"Negative clamps to last", -1, 8, 20, 3, 16, 3},
		{"Empty set has one page", 1, 8, 0, 1, 0, 1},
		{"Exact multiple", 2, 8, 16, 2, 8, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, off, pages := ResolvePage(tt.requested, tt.size, tt.total)
			if n != tt.wantNumber || off != tt.wantOffset || pages != tt.wantNumPages {
				t.Errorf("ResolvePage(%d,%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
					tt.requested, tt.size, tt.total, n, off, pages,
					tt.wantNumber, tt.wantOffset, tt.wantNumPages)
			}
		})
	}
}

func TestPage_HasNext(t *testing.T) {
	tests := []struct {
		name     string
		page     Page[int]
		wantNext bool
		wantNum  int
	}{
		{"Sentinel page", EmptyPage[int](8), false, 0},
		{"First of three", Page[int]{Number: 1, NumPages: 3}, true, 2},
		{"Last of three", Page[int]{Number: 3, NumPages: 3}, false, 0},
		{"Single page", Page[int]{Number: 1, NumPages: 1}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.HasNext(); got != tt.wantNext {
				t.Errorf("HasNext() = %v, want %v", got, tt.wantNext)
			}
			if got := tt.page.NextPageNumber(); got != tt.wantNum {
				t.Errorf("NextPageNumber() = %d, want %d", got, tt.wantNum)
			}
		})
	}
}

func TestEmptyPage(t *testing.T) {
	p := EmptyPage[string](8)
	if !p.IsEmpty() || p.Items == nil {
		t.Error("sentinel page should hold an empty, non-nil slice")
	}
	if p.HasPrevious() {
		t.Error("sentinel page has no previous page")
	}
}
