package content

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "Hello World", want: "hello-world"},
		{name: "punctuation run", title: "AI, robots & you!", want: "ai-robots-you"},
		{name: "leading and trailing junk", title: "  --The Future?  ", want: "the-future"},
		{name: "diacritics folded", title: "Café Société", want: "cafe-societe"},
		{name: "digits kept", title: "Top 10 Trends for 2030", want: "top-10-trends-for-2030"},
		{name: "already slug", title: "already-a-slug", want: "already-a-slug"},
		{name: "empty", title: "", want: ""},
		{name: "only punctuation", title: "?!&", want: ""},
		{name: "consecutive separators", title: "one -- two__three", want: "one-two-three"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.title); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	titles := []string{
		"Hello World",
		"AI, robots & you!",
		"Café Société",
		"Top 10 Trends for 2030",
	}
	for _, title := range titles {
		once := Normalize(title)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", title, twice, once)
		}
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	t.Parallel()

	const title = "The Internet of (Very) Big Things"
	first := Normalize(title)
	for i := 0; i < 10; i++ {
		if got := Normalize(title); got != first {
			t.Fatalf("Normalize(%q) varied across calls: %q != %q", title, got, first)
		}
	}
}
