package closematch

import "testing"

func TestSuggest(t *testing.T) {
	cases := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"lenght", []string{"length", "width", "height"}, "length"},
		{"prnit", []string{"print", "len", "range"}, "print"},
		{"totally_unrelated", []string{"print", "len", "range"}, ""},
		{"foo", []string{"foo"}, ""}, // exact match is not its own suggestion
	}
	for _, c := range cases {
		if got := Suggest(c.name, c.candidates); got != c.want {
			t.Errorf("Suggest(%q, %v) = %q, want %q", c.name, c.candidates, got, c.want)
		}
	}
}
