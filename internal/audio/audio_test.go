package audio

import (
	"reflect"
	"testing"
)

func TestParseVoices(t *testing.T) {
	out := "Alex                en_US    # Most people recognize me by my voice.\n" +
		"Amélie              fr_CA    # Bonjour, je m'appelle Amélie.\n" +
		"Eddy (German (Germany)) de_DE    # Hallo! Ich heiße Eddy.\n" +
		"Samantha            en-US    # Hello, my name is Samantha.\n" +
		"\n" +
		"garbage line without locale\n"

	got := parseVoices(out)
	want := []Voice{
		{Name: "Alex", Locale: "en_US"},
		{Name: "Amélie", Locale: "fr_CA"},
		{Name: "Eddy (German (Germany))", Locale: "de_DE"},
		{Name: "Samantha", Locale: "en-US"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseVoices:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestParseVoicesEmptyOutput(t *testing.T) {
	if got := parseVoices(""); len(got) != 0 {
		t.Errorf("parseVoices(\"\") = %+v, want empty", got)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"Voice `Nope' not found.\nusage: say ...", "Voice `Nope' not found."},
		{"  trimmed  ", "trimmed"},
		{"", "exit status 1"},
	}
	for _, tc := range tests {
		if got := firstLine([]byte(tc.out), errExit1{}); got != tc.want {
			t.Errorf("firstLine(%q) = %q, want %q", tc.out, got, tc.want)
		}
	}
}

type errExit1 struct{}

func (errExit1) Error() string { return "exit status 1" }
