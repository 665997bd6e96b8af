package progress

import "testing"

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    ChallengeKind
		wantErr bool
	}{
		{"", KindLetter, false},
		{"letter", KindLetter, false},
		{"yes_no", KindYesNo, false},
		{"functional", KindFunctional, false},
		{"LETTER", "", true},
		{"quiz", "", true},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseKind(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseKind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
