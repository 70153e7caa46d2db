package catalog

import (
	"reflect"
	"testing"
)

func TestNormalizeStripsDiacriticsAndCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Azúcar", "azucar"},
		{"CERVEZA", "cerveza"},
		{"Días Fríos", "dias frios"},
		{"ñoño", "nono"},
		{"", ""},
		{"sin-acentos 123", "sin-acentos 123"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	got := Tokenize("2 cajas de Leche y un té")
	want := []string{"cajas", "leche"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	if got := Tokenize("  y de la  "); len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
}
