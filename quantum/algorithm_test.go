package quantum

import (
	"errors"
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	cases := []struct {
		name string
		want Algorithm
	}{
		{"kyber", Kyber},
		{"Kyber", Kyber},
		{"saber", SABER},
		{"dilithium", Dilithium},
		{"ntru", NTRU},
		{"falcon", Falcon},
		{"sphincs+", SPHINCSPlus},
		{"sphincs_plus", SPHINCSPlus},
	}
	for _, c := range cases {
		got, err := ParseAlgorithm(c.name)
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q) error: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("ParseAlgorithm(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestParseAlgorithmStrict(t *testing.T) {
	if _, err := ParseAlgorithm("mceliece"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestAlgorithmOrDefault(t *testing.T) {
	if got := AlgorithmOrDefault("no-such-algorithm"); got != Kyber {
		t.Fatalf("unknown algorithm should default to Kyber, got %v", got)
	}
	if got := AlgorithmOrDefault("falcon"); got != Falcon {
		t.Fatalf("known algorithm should parse, got %v", got)
	}
}

func TestAlgorithmFamilies(t *testing.T) {
	lwe := []Algorithm{Kyber, SABER, Dilithium}
	for _, a := range lwe {
		if a.Family() != FamilyLWE {
			t.Fatalf("%v should be LWE-family", a)
		}
	}
	for _, a := range []Algorithm{NTRU, Falcon} {
		if a.Family() != FamilyNTRU {
			t.Fatalf("%v should be NTRU-family", a)
		}
	}
	if SPHINCSPlus.Family() != FamilyHash {
		t.Fatalf("SPHINCS+ should be hash-family")
	}
}

func TestNormalizeKeySize(t *testing.T) {
	for _, s := range []int{512, 768, 1024} {
		if NormalizeKeySize(s) != s {
			t.Fatalf("supported size %d should pass through", s)
		}
	}
	for _, s := range []int{0, 256, 2048, -1} {
		if NormalizeKeySize(s) != DefaultKeySize {
			t.Fatalf("size %d should fall back to %d", s, DefaultKeySize)
		}
	}
}

func TestParamsForCoversLatticeAlgorithms(t *testing.T) {
	for _, a := range []Algorithm{Kyber, SABER, Dilithium, NTRU, Falcon} {
		for _, size := range KeySizes {
			p := ParamsFor(a, size)
			if p == nil {
				t.Fatalf("%v/%d: nil params", a, size)
			}
			if p.N <= 0 || p.Q.Sign() <= 0 || p.Sigma <= 0 || p.K <= 0 {
				t.Fatalf("%v/%d: degenerate params %+v", a, size, p)
			}
		}
	}
	if ParamsFor(SPHINCSPlus, 768) != nil {
		t.Fatalf("hash-based algorithm should carry no lattice params")
	}
}

func TestParseSecurityLevel(t *testing.T) {
	for name, want := range map[string]SecurityLevel{
		"standard":   LevelStandard,
		"military":   LevelMilitary,
		"top-secret": LevelTopSecret,
		"top_secret": LevelTopSecret,
	} {
		got, err := ParseSecurityLevel(name)
		if err != nil {
			t.Fatalf("ParseSecurityLevel(%q) error: %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseSecurityLevel(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseSecurityLevel("cosmic"); err == nil {
		t.Fatalf("unknown level should be rejected")
	}
}
