package validation

import (
	"testing"

	"go-manga-reader/internal/layout"
)

func TestValidatePageURL(t *testing.T) {
	v := NewURLValidator()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https URL", "https://example.com/page1.png", false},
		{"http URL", "http://example.com/page1.png", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"ftp scheme", "ftp://example.com/page1.png", true},
		{"no host", "https://", true},
		{"relative path", "/pages/1.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePageURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePageURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePageURL_HostAllowlist(t *testing.T) {
	v := NewURLValidatorWithOptions([]string{"https"}, []string{"cdn.example.com"})

	if err := v.ValidatePageURL("https://cdn.example.com/p.png"); err != nil {
		t.Errorf("allowed host rejected: %v", err)
	}
	if err := v.ValidatePageURL("https://other.example.com/p.png"); err == nil {
		t.Error("disallowed host accepted")
	}
}

func TestClampBBox(t *testing.T) {
	tests := []struct {
		name   string
		box    layout.BBox
		want   layout.BBox
		wantOK bool
	}{
		{
			name:   "inside the page",
			box:    layout.BBox{X1: 10, Y1: 10, X2: 50, Y2: 50},
			want:   layout.BBox{X1: 10, Y1: 10, X2: 50, Y2: 50},
			wantOK: true,
		},
		{
			name:   "overhangs the right edge",
			box:    layout.BBox{X1: 90, Y1: 10, X2: 150, Y2: 50},
			want:   layout.BBox{X1: 90, Y1: 10, X2: 100, Y2: 50},
			wantOK: true,
		},
		{
			name:   "negative origin",
			box:    layout.BBox{X1: -20, Y1: -20, X2: 30, Y2: 30},
			want:   layout.BBox{X1: 0, Y1: 0, X2: 30, Y2: 30},
			wantOK: true,
		},
		{
			name:   "entirely off the page",
			box:    layout.BBox{X1: 200, Y1: 200, X2: 300, Y2: 300},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClampBBox(tt.box, 100, 100)
			if ok != tt.wantOK {
				t.Fatalf("ClampBBox() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ClampBBox() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidBBox(t *testing.T) {
	if !ValidBBox(layout.BBox{X1: 0, Y1: 0, X2: 10, Y2: 10}) {
		t.Error("positive-area box reported invalid")
	}
	if ValidBBox(layout.BBox{X1: 10, Y1: 0, X2: 10, Y2: 10}) {
		t.Error("zero-width box reported valid")
	}
	if ValidBBox(layout.BBox{X1: 20, Y1: 0, X2: 10, Y2: 10}) {
		t.Error("inverted box reported valid")
	}
}
