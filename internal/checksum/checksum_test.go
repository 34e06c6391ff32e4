package checksum

import "testing"

func TestURLHash(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "known url",
			url:  "https://example.org/mods/example-1.0.0.zip",
			want: "1fe9b289",
		},
		{
			name: "empty url",
			url:  "",
			want: "e3b0c442",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URLHash(tt.url); got != tt.want {
				t.Errorf("URLHash(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestURLHashLength(t *testing.T) {
	h := URLHash("https://example.org/anything.zip")
	if len(h) != urlHashLength {
		t.Errorf("len(URLHash(...)) = %d, want %d", len(h), urlHashLength)
	}
}

func TestURLHashStable(t *testing.T) {
	url := "https://example.org/mods/example-1.0.0.zip"
	a := URLHash(url)
	b := URLHash(url)
	if a != b {
		t.Errorf("URLHash is not stable across calls: %v != %v", a, b)
	}
}

func TestURLHashDistinctForDistinctURLs(t *testing.T) {
	a := URLHash("https://example.org/mods/one.zip")
	b := URLHash("https://example.org/mods/two.zip")
	if a == b {
		t.Errorf("expected distinct hashes for distinct URLs, got %v for both", a)
	}
}
