package language

import "testing"

func TestDetect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want Tag
	}{
		{"empty", "", English},
		{"plain english", "What programs do you offer", English},
		{"single tagalog marker", "bakit", English},
		{"single bisaya marker", "pila", English},
		{"tagalog question", "magkano ang tuition?", Tagalog},
		{"tagalog upper case", "SAAN ANG SCHOOL", Tagalog},
		{"bisaya greeting", "Kumusta", Bisaya},
		{"bisaya question", "unsa ang mga kurso ug pila ang bayad", Bisaya},
		{"bisaya wins over tagalog", "asa man ang mga sino saan paano pila", Bisaya},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetect_ThresholdRequiresDistinctMarkers(t *testing.T) {
	t.Parallel()
	// "pila" repeated is still one distinct marker.
	if got := Detect("pila pila pila"); got != English {
		t.Errorf("Detect() = %q, want %q", got, English)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	for _, tag := range All {
		got, ok := Parse(" " + string(tag) + " ")
		if !ok || got != tag {
			t.Errorf("Parse(%q) = %q, %v", tag, got, ok)
		}
	}
	if _, ok := Parse("klingon"); ok {
		t.Error("Parse() accepted an unknown language")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	if English.DisplayName() != "English" {
		t.Errorf("English.DisplayName() = %q", English.DisplayName())
	}
	if Bisaya.DisplayName() != "Bisaya/Cebuano" {
		t.Errorf("Bisaya.DisplayName() = %q", Bisaya.DisplayName())
	}
	if Tagalog.DisplayName() != "Tagalog" {
		t.Errorf("Tagalog.DisplayName() = %q", Tagalog.DisplayName())
	}
}
