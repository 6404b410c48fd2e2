package picker

import "testing"

func TestDecodeOutcome(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Outcome
	}{
		{
			name: "empty output means abort",
			raw:  "",
			want: Outcome{Kind: Aborted},
		},
		{
			name: "whitespace only means abort",
			raw:  "\n\n",
			want: Outcome{Kind: Aborted},
		},
		{
			name: "unlabelled selection line means abort",
			raw:  "\nfoo",
			want: Outcome{Kind: Aborted},
		},
		{
			name: "next page key",
			raw:  "ctrl-n\n",
			want: Outcome{Kind: KeyNext},
		},
		{
			name: "prev page key",
			raw:  "ctrl-p\n",
			want: Outcome{Kind: KeyPrev},
		},
		{
			name: "paging key wins over selection line",
			raw:  "ctrl-n\n[3] Some Title\n",
			want: Outcome{Kind: KeyNext},
		},
		{
			name: "selection",
			raw:  "\n[2] Example Title",
			want: Outcome{Kind: Selected, Index: 2},
		},
		{
			name: "selection with trailing newline",
			raw:  "\n[0] First\n",
			want: Outcome{Kind: Selected, Index: 0},
		},
		{
			name: "multi digit index",
			raw:  "\n[17] Deep Cut",
			want: Outcome{Kind: Selected, Index: 17},
		},
		{
			name: "garbled index means abort",
			raw:  "\n[x] Broken",
			want: Outcome{Kind: Aborted},
		},
		{
			name: "missing closing bracket means abort",
			raw:  "\n[2 Broken",
			want: Outcome{Kind: Aborted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeOutcome(tt.raw, PrevPageKey, NextPageKey)
			if got != tt.want {
				t.Errorf("DecodeOutcome(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Label(4, "A Title"); got != "[4] A Title" {
		t.Errorf("Label() = %q", got)
	}
	// Label and the decoder must round-trip.
	out := DecodeOutcome("\n"+Label(9, "Round Trip"), PrevPageKey, NextPageKey)
	if out.Kind != Selected || out.Index != 9 {
		t.Errorf("round trip decoded to %+v", out)
	}
}
