package zkp

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStatementType(t *testing.T) {
	cases := map[string]StatementType{
		"discrete_log":        StatementDiscreteLog,
		"pedersen_commitment": StatementPedersenCommitment,
		"range_proof":         StatementRangeProof,
		"range":               StatementRangeProof,
		"SET_MEMBERSHIP":      StatementSetMembership,
		" equality ":          StatementEquality,
		"custom":              StatementCustom,
	}
	for name, want := range cases {
		got, err := ParseStatementType(name)
		if err != nil || got != want {
			t.Fatalf("ParseStatementType(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	for _, name := range []string{"", "schnorr", "discrete-log", "statement(7)"} {
		if _, err := ParseStatementType(name); !errors.Is(err, ErrStatementUnsupported) {
			t.Fatalf("ParseStatementType(%q) err = %v, want ErrStatementUnsupported", name, err)
		}
	}
}

func TestStatementTypeJSONRoundTrip(t *testing.T) {
	for typ := StatementDiscreteLog; typ <= StatementCustom; typ++ {
		data, err := json.Marshal(typ)
		if err != nil {
			t.Fatalf("marshal %v: %v", typ, err)
		}
		var back StatementType
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != typ {
			t.Fatalf("round trip %v -> %s -> %v", typ, data, back)
		}
	}
	var typ StatementType
	if err := json.Unmarshal([]byte(`"bogus"`), &typ); !errors.Is(err, ErrStatementUnsupported) {
		t.Fatalf("err = %v, want ErrStatementUnsupported", err)
	}
}

func TestStatementJSONOmitsPrivateInputs(t *testing.T) {
	st := Statement{
		Type:          StatementDiscreteLog,
		PublicInputs:  map[string]string{"message": "m"},
		PrivateInputs: map[string]string{"secret": "supersecretscalar"},
	}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if bytes.Contains(data, []byte("supersecretscalar")) {
		t.Fatalf("private input leaked: %s", data)
	}
}

func TestBindingBytesDeterministic(t *testing.T) {
	a := Statement{
		Type:         StatementRangeProof,
		Description:  "range",
		PublicInputs: map[string]string{"min": "0", "max": "100", "unit": "years"},
	}
	b := Statement{
		Type:         StatementRangeProof,
		Description:  "range",
		PublicInputs: map[string]string{"unit": "years", "max": "100", "min": "0"},
	}
	if !bytes.Equal(a.bindingBytes(), b.bindingBytes()) {
		t.Fatal("binding bytes depend on map insertion order")
	}

	c := a
	c.PublicInputs = map[string]string{"min": "0", "max": "100", "unit": "days"}
	if bytes.Equal(a.bindingBytes(), c.bindingBytes()) {
		t.Fatal("binding bytes ignore a public input change")
	}
}

func TestBindingBytesFieldInjection(t *testing.T) {
	// "a=1;b=" and "a=1;b" + "=" style splices must not collide thanks to
	// length prefixes
	a := Statement{Type: StatementCustom, PublicInputs: map[string]string{"x": "1;y=1:2"}}
	b := Statement{Type: StatementCustom, PublicInputs: map[string]string{"x": "1", "y": "2"}}
	if bytes.Equal(a.bindingBytes(), b.bindingBytes()) {
		t.Fatal("field splicing collides")
	}
}

func TestParseScalar(t *testing.T) {
	cases := map[string]string{
		"42":      "42",
		" 42 ":    "42",
		"0x2a":    "42",
		"0X2A":    "42",
		"-17":     "-17",
		"0xdead":  "57005",
		"1000000": "1000000",
	}
	for raw, want := range cases {
		v, err := parseScalar(raw)
		if err != nil {
			t.Fatalf("parseScalar(%q): %v", raw, err)
		}
		if v.String() != want {
			t.Fatalf("parseScalar(%q) = %s, want %s", raw, v, want)
		}
	}
	for _, raw := range []string{"", "  ", "0x", "12z", "ten"} {
		if _, err := parseScalar(raw); !errors.Is(err, ErrMissingInput) {
			t.Fatalf("parseScalar(%q) err = %v, want ErrMissingInput", raw, err)
		}
	}
}

func TestParseScalarSet(t *testing.T) {
	set, err := parseScalarSet(" 1, 2 ,0x3,, ")
	if err != nil {
		t.Fatalf("parseScalarSet: %v", err)
	}
	if len(set) != 3 || set[0].Int64() != 1 || set[1].Int64() != 2 || set[2].Int64() != 3 {
		t.Fatalf("set = %v", set)
	}
	if _, err := parseScalarSet(" , "); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("empty set err = %v, want ErrMissingInput", err)
	}
	if _, err := parseScalarSet("1,two"); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("bad element err = %v, want ErrMissingInput", err)
	}
}
