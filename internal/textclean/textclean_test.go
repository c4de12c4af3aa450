package textclean

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanMarkup(t *testing.T) {
	raw := `<HTML><head><style>.x{color:red}</style><script>track()</script></head>
<body>
<nav>Home | Jobs</nav>
<header>Site header</header>
<div><h1>Senior Go Engineer</h1>
<p>  Build   services.  </p>
<ul><li>Go</li><li>Kubernetes</li></ul>
</div>
<form>Subscribe</form>
<aside>Related jobs</aside>
<footer>Copyright</footer>
</body></HTML>`

	got := Clean(raw)
	want := "Senior Go Engineer\nBuild   services.\nGo\nKubernetes"
	if got != want {
		t.Fatalf("Clean() = %q, want %q", got, want)
	}

	for _, chrome := range []string{"Home", "Site header", "Subscribe", "Related", "Copyright", "track", "color"} {
		if strings.Contains(got, chrome) {
			t.Fatalf("chrome %q leaked into %q", chrome, got)
		}
	}
}

func TestCleanPlainText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "mixed endings", raw: "  Title  \r\n\n\n   Company\t\n\n  Remote  \n", want: "Title\nCompany\nRemote"},
		{name: "carriage returns only", raw: "Senior Go Engineer\r\r\rAcme\r   \rRemote", want: "Senior Go Engineer\nAcme\nRemote"},
		{name: "crlf", raw: "Senior Go Engineer\r\n\r\nAcme  \r\n\tRemote\r\n", want: "Senior Go Engineer\nAcme\nRemote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.raw); got != tt.want {
				t.Fatalf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"<div><p>One</p><p>Two</p></div>",
		"plain\n\n  text  \n",
		strings.Repeat("line with words\n", 50),
		"",
	}

	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Fatalf("Clean is not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestCleanCapsLengthWithoutBlankLines(t *testing.T) {
	raw := strings.Repeat("ÄÖÜ requirement line\n\n", 3000)

	got := Clean(raw)
	if n := utf8.RuneCountInString(got); n != MaxLength {
		t.Fatalf("expected %d characters, got %d", MaxLength, n)
	}
	for _, line := range strings.Split(got, "\n") {
		if strings.TrimSpace(line) == "" {
			t.Fatalf("found blank line in output")
		}
	}
}

func TestLooksCleanEnough(t *testing.T) {
	longLine := strings.Repeat("x", 60)
	nineLines := strings.Repeat(longLine+"\n", 9)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "long and structured", text: nineLines, want: true},
		{name: "carriage return lines", text: strings.Repeat(longLine+"\r", 9), want: true},
		{name: "crlf lines", text: strings.Repeat(longLine+"\r\n", 9), want: true},
		{name: "long single line", text: strings.Repeat("x", 1000), want: false},
		{name: "many short lines", text: strings.Repeat("a\n", 20), want: false},
		{name: "empty", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksCleanEnough(tt.text); got != tt.want {
				t.Fatalf("LooksCleanEnough() = %v, want %v", got, tt.want)
			}
		})
	}
}
