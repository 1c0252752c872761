package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	t.Run("prints points and lost joints", func(t *testing.T) {
		out, err := execute(t, "", "decode", "0.5,0.25|-1,-1|0.1, 0.9")
		if err != nil {
			t.Fatalf("decode error = %v", err)
		}
		want := "0 0.5,0.25\n1 lost\n2 0.1,0.9\n"
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("projects into a viewport", func(t *testing.T) {
		out, err := execute(t, "", "decode", "0.25,0.5", "--width", "800", "--height", "600")
		if err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if out != "0 600,300\n" {
			t.Errorf("output = %q, want mirrored 600,300", out)
		}
	})

	t.Run("wrist anchor", func(t *testing.T) {
		out, err := execute(t, "", "decode", "0.5,0.5|0.25,0.75|0.75,0.75",
			"--width", "100", "--height", "100", "--anchor")
		if err != nil {
			t.Fatalf("decode error = %v", err)
		}
		want := "position 60,50\nfacing 50,75\n"
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("lost wrist anchor", func(t *testing.T) {
		out, err := execute(t, "", "decode",
			"--width", "100", "--height", "100", "--anchor", "--", "-1,-1|0.25,0.75|0.75,0.75")
		if err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if out != "lost\n" {
			t.Errorf("output = %q, want lost", out)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		if _, err := execute(t, "", "decode", "0.5|0.5,0.5"); err == nil {
			t.Error("expected error for malformed string")
		}
	})

	t.Run("anchor needs viewport", func(t *testing.T) {
		if _, err := execute(t, "", "decode", "0.5,0.5|0.5,0.5|0.5,0.5", "--anchor"); err == nil {
			t.Error("expected error without a viewport")
		}
	})
}

func TestNormalizeCommand(t *testing.T) {
	frame := `{
		"wrist": {"position": {"x": 0.12345, "y": 0.6789}, "confidence": 0.9},
		"indexMCP": {"position": {"x": 0.4, "y": 0.5}, "confidence": 0.3},
		"littleMCP": {"position": {"x": 0.0005, "y": 0.2}, "confidence": 0.31}
	}`

	t.Run("wrist triangle", func(t *testing.T) {
		out, err := execute(t, frame, "normalize", "--group", "wrist")
		if err != nil {
			t.Fatalf("normalize error = %v", err)
		}
		want := "0.123,0.679|-1,-1|0.001,0.2\n"
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("fingertips all lost", func(t *testing.T) {
		out, err := execute(t, frame, "normalize", "--group", "2")
		if err != nil {
			t.Fatalf("normalize error = %v", err)
		}
		want := "-1,-1|-1,-1|-1,-1|-1,-1|-1,-1\n"
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("custom cutoff", func(t *testing.T) {
		out, err := execute(t, frame, "normalize", "--cutoff", "0.95")
		if err != nil {
			t.Fatalf("normalize error = %v", err)
		}
		if out != "-1,-1|-1,-1|-1,-1\n" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("rejects unknown joints and groups", func(t *testing.T) {
		if _, err := execute(t, `{"elbow": {"confidence": 1}}`, "normalize"); err == nil {
			t.Error("expected error for unknown joint")
		}
		if _, err := execute(t, frame, "normalize", "--group", "palm"); err == nil {
			t.Error("expected error for unknown group")
		}
		if _, err := execute(t, "not json", "normalize"); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})

	t.Run("rejects out of range options", func(t *testing.T) {
		for _, args := range [][]string{
			{"normalize", "--precision", "400"},
			{"normalize", "--precision", "-1"},
			{"normalize", "--cutoff", "1.5"},
			{"normalize", "--cutoff", "-0.1"},
		} {
			out, err := execute(t, frame, args...)
			if err == nil {
				t.Errorf("%v: expected error, got output %q", args, out)
			}
		}
	})
}

func TestSettingsURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080/api/settings"},
		{"0.0.0.0:9000", "http://localhost:9000/api/settings"},
		{"127.0.0.1:7000", "http://127.0.0.1:7000/api/settings"},
		{"bogus", "http://localhost:8080/api/settings"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := settingsURL(tt.addr); got != tt.want {
				t.Errorf("settingsURL(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}
