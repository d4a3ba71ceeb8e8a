package cteutil

import (
	"reflect"
	"testing"
)

func TestGenerateEmpty(t *testing.T) {
	if got := Generate(nil, 1); got != "with_cte_1" {
		t.Errorf("Generate(nil, 1) = %q, want with_cte_1", got)
	}
}

func TestGenerateSortsAliases(t *testing.T) {
	got := Generate([]string{"b", "a"}, 3)
	want := "with_a_b_cte_3"
	if got != want {
		t.Errorf("Generate = %q, want %q", got, want)
	}
}

func TestExtractAliasesRoundTrip(t *testing.T) {
	aliases := []string{"cnt", "a"}
	name := Generate(aliases, 7)
	got := ExtractAliases(name)
	want := []string{"a", "cnt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAliases(%q) = %v, want %v", name, got, want)
	}
}

func TestIsGeneratedName(t *testing.T) {
	cases := map[string]bool{
		"with_a_b_cte_3": true,
		"with_cte_1":     true,
		"users":          false,
		"with_broken":    false,
	}
	for name, want := range cases {
		if got := IsGeneratedName(name); got != want {
			t.Errorf("IsGeneratedName(%q) = %v, want %v", name, got, want)
		}
	}
}
