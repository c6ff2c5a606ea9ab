package upload

import "testing"

func newTestValidator() *Validator {
	return NewValidator([]string{"png", "jpg", "jpeg", "gif"})
}

func TestAllowed(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"png is allowed", "photo.png", true},
		{"jpg is allowed", "holiday.jpg", true},
		{"jpeg is allowed", "scan.jpeg", true},
		{"gif is allowed", "loop.gif", true},
		{"uppercase extension is allowed", "PHOTO.PNG", true},
		{"executable is rejected", "evil.exe", false},
		{"no extension is rejected", "README", false},
		{"empty filename is rejected", "", false},
		{"trailing dot is rejected", "photo.", false},
		{"pdf is rejected", "doc.pdf", false},
		{"double extension uses the last one", "photo.png.exe", false},
		{"disguised extension still allowed", "archive.tar.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Allowed(tt.filename); got != tt.want {
				t.Errorf("Allowed(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

// A non-image extension in the allow-set must still fail closed: the
// content-type gate rejects anything whose registered type is not image/*.
func TestAllowed_NonImageExtensionFailsClosed(t *testing.T) {
	v := NewValidator([]string{"png", "txt"})

	if v.Allowed("notes.txt") {
		t.Error("Allowed() must reject extensions without an image content type")
	}
	if !v.Allowed("photo.png") {
		t.Error("Allowed() should still accept the image extension")
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.PNG", "png"},
		{"archive.tar.gz", "gz"},
		{"README", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Ext(tt.filename); got != tt.want {
			t.Errorf("Ext(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
