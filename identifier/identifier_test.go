package identifier

import (
	"errors"
	"testing"
)

func TestValidate_Safe(t *testing.T) {
	safe := []string{
		"case-42",
		"urn:edrn:labcas:scan.svs",
		"Dataset_1.v2",
		"abc (copy)",
		"A B C",
	}
	for _, id := range safe {
		if err := Validate(id); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", id, err)
		}
	}
}

func TestValidate_Missing(t *testing.T) {
	err := Validate("")
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("Validate(\"\") = %v, want ErrMissing", err)
	}
}

func TestValidate_Unsafe(t *testing.T) {
	unsafe := []string{
		"bad id/../x",
		"../../etc/passwd",
		"a/b",
		`a\b`,
		`id"with"quotes`,
		"id'quote",
		"id;drop",
		"id?q=*",
		"id&fq=*",
		"id*",
		"tab\tid",
		"newline\nid",
		"nul\x00id",
		"résumé",
	}
	for _, id := range unsafe {
		err := Validate(id)
		if !errors.Is(err, ErrUnsafe) {
			t.Errorf("Validate(%q) = %v, want ErrUnsafe", id, err)
		}
	}
}
