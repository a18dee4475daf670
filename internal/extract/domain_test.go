package extract

import "testing"

func TestSplitDomain(t *testing.T) {
	tests := []struct {
		target string
		want   Domain
	}{
		{"http://example.com", Domain{"example", "com"}},
		{"https://www.example.com/path?q=1", Domain{"example", "com"}},
		{"http://shop.example.co.uk:8080/", Domain{"example", "co.uk"}},
		{"EXAMPLE.ORG", Domain{"example", "org"}},
		{"http://user:pw@deep.sub.example.net", Domain{"example", "net"}},
		{"http://example.com./", Domain{"example", "com"}},
		{"http://foo.blogspot.com", Domain{"blogspot", "com"}},
		{"https://user.github.io/repo", Domain{"github", "io"}},
		{"http://10.0.0.1:8080", Domain{Name: "10.0.0.1"}},
		{"http://localhost", Domain{Name: "localhost"}},
		{"http://com", Domain{Suffix: "com"}},
		{"", Domain{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := SplitDomain(tt.target); got != tt.want {
				t.Errorf("SplitDomain(%q) = %+v, want %+v", tt.target, got, tt.want)
			}
		})
	}
}

func TestHTTPSUpgrades(t *testing.T) {
	got := Domain{"example", "co.uk"}.HTTPSUpgrades()
	want := []string{"https://www.example.co.uk", "https://example.co.uk"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
