package joints

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		set  JointSet
		want string
	}{
		{
			name: "wrist triangle",
			set: JointSet{
				Group:  GroupWristTriangle,
				Points: []Point{{X: 0.4, Y: 0.6}, {X: 0.123, Y: 0.679}, Sentinel},
			},
			want: "0.4,0.6|0.123,0.679|-1,-1",
		},
		{
			name: "single point",
			set:  JointSet{Points: []Point{{X: 1, Y: 0}}},
			want: "1,0",
		},
		{
			name: "empty set",
			set:  JointSet{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.set); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
			if got := tt.set.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("decodes ordered points", func(t *testing.T) {
		got, err := Decode("0.4,0.6|0.123,0.679|-1,-1")
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		want := []Point{{X: 0.4, Y: 0.6}, {X: 0.123, Y: 0.679}, Sentinel}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("tolerates spaces after separators", func(t *testing.T) {
		got, err := Decode("0.5,0.5|0.25,0.75|-1.0, -1.0")
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if len(got) != 3 || got[2] != Sentinel {
			t.Errorf("Decode() = %+v, want sentinel last", got)
		}
	})

	t.Run("empty string decodes to no points", func(t *testing.T) {
		got, err := Decode("")
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len(Decode(\"\")) = %d, want 0", len(got))
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		inputs := []string{
			"0.1",
			"0.1,0.2,0.3",
			"0.1,0.2|",
			"abc,0.2",
			"0.1,xyz",
			"0.1;0.2",
		}
		for _, in := range inputs {
			if _, err := Decode(in); !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformed", in, err)
			}
		}
	})
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	frame := HandFrame{}
	for i, name := range LandmarkOrder() {
		frame[name] = Joint{
			Position:   Point{X: 0.0137 * float64(i+1), Y: 1 - 0.0411*float64(i)},
			Confidence: 0.25 + 0.05*float64(i%8),
		}
	}

	for _, group := range Groups() {
		t.Run(group.String(), func(t *testing.T) {
			set := Normalize(frame, group, DefaultOptions())

			decoded, err := DecodeSet(Encode(set), group)
			if err != nil {
				t.Fatalf("DecodeSet() error = %v", err)
			}
			if diff := cmp.Diff(set, decoded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeSet_LengthCheck(t *testing.T) {
	_, err := DecodeSet("0.1,0.2|0.3,0.4", GroupWristTriangle)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("DecodeSet() error = %v, want ErrMalformed", err)
	}
}
