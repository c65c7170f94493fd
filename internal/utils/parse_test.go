package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[paradigm]
derive_variants = true
prefix_pairs = [["a", "i"], ["ma", "na"]]

[http]
allowed_origins = ["http://localhost:3000"]
addr = "127.0.0.1:9000"
max = 12
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	raw, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatalf("ParseTOMLWithRecovery returned error: %v", err)
	}

	paradigm, ok := ExtractSection(raw, "paradigm")
	if !ok {
		t.Fatal("paradigm section missing")
	}
	if v, ok := ExtractBool(paradigm, "derive_variants"); !ok || !v {
		t.Error("derive_variants not extracted")
	}
	pairs, ok := ExtractStringPairs(paradigm, "prefix_pairs")
	if want := [][2]string{{"a", "i"}, {"ma", "na"}}; !ok || !reflect.DeepEqual(pairs, want) {
		t.Errorf("prefix_pairs = %v, %v", pairs, ok)
	}

	http, _ := ExtractSection(raw, "http")
	if s, ok := ExtractString(http, "addr"); !ok || s != "127.0.0.1:9000" {
		t.Errorf("addr = %q, %v", s, ok)
	}
	if origins, ok := ExtractStringSlice(http, "allowed_origins"); !ok || len(origins) != 1 {
		t.Errorf("allowed_origins = %v, %v", origins, ok)
	}
	if n, ok := ExtractInt64(http, "max"); !ok || n != 12 {
		t.Errorf("max = %d, %v", n, ok)
	}
	if _, ok := ExtractString(http, "max"); ok {
		t.Error("ExtractString accepted an integer")
	}
}

func TestExtractMalformed(t *testing.T) {
	data := map[string]any{
		"mixed": []any{"a", int64(1)},
		"short": []any{[]any{"a"}},
		"flat":  []any{"a", "b"},
	}
	if _, ok := ExtractStringSlice(data, "mixed"); ok {
		t.Error("mixed slice accepted")
	}
	if _, ok := ExtractStringPairs(data, "short"); ok {
		t.Error("one-element pair accepted")
	}
	if _, ok := ExtractStringPairs(data, "flat"); ok {
		t.Error("flat list accepted as pairs")
	}
	if _, ok := ExtractSection(data, "missing"); ok {
		t.Error("missing section reported present")
	}
}

func TestParseTOMLWithRecoveryInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nmax = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseTOMLWithRecovery(path); err == nil {
		t.Error("expected parse error")
	}
}
