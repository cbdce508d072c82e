package tile

import (
	"testing"

	"github.com/paulmach/orb/maptile"
)

func TestExpand(t *testing.T) {
	tile := maptile.Tile{X: 3, Y: 5, Z: 4}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{
			name: "slippy y",
			tmpl: "https://tiles.example.com/{zoom}/{x}/{y}.png",
			want: "https://tiles.example.com/4/3/5.png",
		},
		{
			name: "tms y",
			tmpl: "https://tiles.example.com/{zoom}/{x}/{-y}.png",
			want: "https://tiles.example.com/4/3/10.png",
		},
		{
			name: "half-pow y",
			tmpl: "https://tiles.example.com/{zoom}/{x}/{!y}.png",
			want: "https://tiles.example.com/4/3/2.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expand(tt.tmpl, 4, tile); got != tt.want {
				t.Errorf("expand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandHalfPowZoomZero(t *testing.T) {
	got := expand("{zoom}/{x}/{!y}", 0, maptile.Tile{X: 0, Y: 0, Z: 0})
	if got != "0/0/-1" {
		t.Errorf("expand() = %q, want %q", got, "0/0/-1")
	}
}

func TestSplitSwitch(t *testing.T) {
	tmpl, alts := splitSwitch("https://{switch:a,b,c}.tiles.example.com/{zoom}/{x}/{y}.png")
	if tmpl != "https://a.tiles.example.com/{zoom}/{x}/{y}.png" {
		t.Errorf("template = %q, want first alternative substituted", tmpl)
	}
	if len(alts) != 3 || alts[0] != "a" || alts[1] != "b" || alts[2] != "c" {
		t.Errorf("alternatives = %v, want [a b c]", alts)
	}
}

func TestSplitSwitchNoToken(t *testing.T) {
	in := "https://tiles.example.com/{zoom}/{x}/{y}.png"
	tmpl, alts := splitSwitch(in)
	if tmpl != in {
		t.Errorf("template = %q, want unchanged", tmpl)
	}
	if alts != nil {
		t.Errorf("alternatives = %v, want nil", alts)
	}
}
