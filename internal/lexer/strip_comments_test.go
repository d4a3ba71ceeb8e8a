package lexer

import "testing"

func TestStripComments(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"line comment", "MATCH (n) -- find everything\nRETURN n", "MATCH (n) \nRETURN n"},
		{"block comment", "MATCH (n) /* a label filter */ RETURN n", "MATCH (n)  RETURN n"},
		{"preserves newlines in block comment", "MATCH (n)\n/* line1\nline2 */\nRETURN n", "MATCH (n)\n\n\nRETURN n"},
		{"quoted single not stripped", "RETURN '--not a comment'", "RETURN '--not a comment'"},
		{"quoted double not stripped", `RETURN "/* not a comment */"`, `RETURN "/* not a comment */"`},
		{"backtick identifier not stripped", "RETURN `a--b`", "RETURN `a--b`"},
		{"escaped quote inside string", `RETURN 'it\'s -- fine'`, `RETURN 'it\'s -- fine'`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripComments(tc.in); got != tc.want {
				t.Errorf("StripComments(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
