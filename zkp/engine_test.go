package zkp

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) ProofGenerated(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) ProofVerified(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) outcomes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, ev := range n.events {
		out[i] = ev.Outcome
	}
	return out
}

func testEngine(t *testing.T, cfg Config) (*Engine, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	if cfg.Notifier == nil {
		cfg.Notifier = notifier
	}
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e, notifier
}

func discreteLogStatement(secret string) Statement {
	return Statement{
		Type:          StatementDiscreteLog,
		Description:   "knowledge of a discrete log",
		Relation:      "y = g^x",
		PublicInputs:  map[string]string{"message": "auth-challenge"},
		PrivateInputs: map[string]string{"secret": secret},
	}
}

func TestEngineGenerateVerifyAllTypes(t *testing.T) {
	e, _ := testEngine(t, Config{})

	statements := []Statement{
		discreteLogStatement("31415926535897932384626433832795"),
		{
			Type:          StatementCustom,
			Description:   "custom discrete-log claim",
			PrivateInputs: map[string]string{"secret": "0xdeadbeefcafe"},
		},
		{
			Type:          StatementPedersenCommitment,
			Description:   "knowledge of a commitment opening",
			PrivateInputs: map[string]string{"value": "2718281828459045"},
		},
		{
			Type:          StatementRangeProof,
			Description:   "age in range",
			PublicInputs:  map[string]string{"min": "18", "max": "120"},
			PrivateInputs: map[string]string{"value": "42"},
		},
		{
			Type:          StatementSetMembership,
			Description:   "tier membership",
			PublicInputs:  map[string]string{"set": "100, 200, 300, 400"},
			PrivateInputs: map[string]string{"value": "300"},
		},
		{
			Type:          StatementEquality,
			Description:   "equal committed balances",
			PrivateInputs: map[string]string{"value": "500000"},
		},
	}

	for _, st := range statements {
		t.Run(st.Type.String(), func(t *testing.T) {
			p, err := e.GenerateProof(context.Background(), Request{Statement: st})
			if err != nil {
				t.Fatalf("GenerateProof: %v", err)
			}
			if p.ID == "" {
				t.Fatal("proof has no id")
			}
			if p.Type != st.Type {
				t.Fatalf("proof type = %s, want %s", p.Type, st.Type)
			}
			if n := p.subProofCount(); n != 1 {
				t.Fatalf("%d sub-proofs populated, want 1", n)
			}
			if !p.ExpiresAt.After(p.Timestamp) {
				t.Fatal("expiresAt does not follow timestamp")
			}
			if p.Statement.PrivateInputs != nil {
				t.Fatal("proof statement retains private inputs")
			}
			if cached, ok := e.CachedProof(p.ID); !ok || cached != p {
				t.Fatal("generated proof not cached")
			}

			res, err := e.VerifyProof(context.Background(), p)
			if err != nil {
				t.Fatalf("VerifyProof: %v", err)
			}
			if !res.IsValid {
				t.Fatalf("proof rejected: %s", res.Error)
			}
			if res.ProofID != p.ID {
				t.Fatalf("result proof id = %q, want %q", res.ProofID, p.ID)
			}
		})
	}
}

func TestEngineDefaultTTL(t *testing.T) {
	e, _ := testEngine(t, Config{})
	p, err := e.GenerateProof(context.Background(), Request{Statement: discreteLogStatement("7")})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	ttl := p.ExpiresAt.Sub(p.Timestamp)
	if ttl != DefaultTTL {
		t.Fatalf("ttl = %v, want %v", ttl, DefaultTTL)
	}
}

func TestEngineExpiryPrecedesCrypto(t *testing.T) {
	e, notifier := testEngine(t, Config{})
	p, err := e.GenerateProof(context.Background(), Request{Statement: discreteLogStatement("12345")})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}

	p.ExpiresAt = time.Now().Add(-time.Minute)
	// corrupt the sub-proof: if the verifier did any cryptographic or
	// structural work it would error, but expiry must win silently
	p.Schnorr.Challenge = nil

	res, err := e.VerifyProof(context.Background(), p)
	if err != nil {
		t.Fatalf("VerifyProof returned an error for an expired proof: %v", err)
	}
	if res.IsValid {
		t.Fatal("expired proof verified")
	}
	if res.Error != "expired" {
		t.Fatalf("result error = %q, want %q", res.Error, "expired")
	}
	outcomes := notifier.outcomes()
	if len(outcomes) == 0 || outcomes[len(outcomes)-1] != "expired" {
		t.Fatalf("outcomes = %v, want trailing %q", outcomes, "expired")
	}
}

func TestEngineRejectionIsResultNotError(t *testing.T) {
	e, _ := testEngine(t, Config{})
	p, err := e.GenerateProof(context.Background(), Request{Statement: discreteLogStatement("55555")})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	p.Schnorr.Response = new(big.Int).Xor(p.Schnorr.Response, big.NewInt(1))

	res, err := e.VerifyProof(context.Background(), p)
	if err != nil {
		t.Fatalf("cryptographic rejection surfaced as an error: %v", err)
	}
	if res.IsValid {
		t.Fatal("tampered proof verified")
	}
	if res.Error == "" {
		t.Fatal("rejection carries no reason")
	}
}

func TestEngineRejectsRewrittenStatement(t *testing.T) {
	e, _ := testEngine(t, Config{})
	ctx := context.Background()

	p, err := e.GenerateProof(ctx, Request{Statement: Statement{
		Type:          StatementSetMembership,
		Description:   "approved code",
		PublicInputs:  map[string]string{"set": "41,42,43"},
		PrivateInputs: map[string]string{"value": "42"},
	}})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}

	// the embedded statement now claims a different set than the one proven
	p.Statement.PublicInputs["set"] = "1,2,3"
	res, err := e.VerifyProof(ctx, p)
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if res.IsValid {
		t.Fatal("proof verified against a rewritten statement")
	}

	// any public field of the statement is bound, not just the inputs
	p2, err := e.GenerateProof(ctx, Request{Statement: discreteLogStatement("271828")})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	p2.Statement.Description = "knowledge of somebody else's discrete log"
	res, err = e.VerifyProof(ctx, p2)
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if res.IsValid {
		t.Fatal("proof verified against a rewritten description")
	}
}

func TestEngineStructuralFailures(t *testing.T) {
	e, _ := testEngine(t, Config{})
	ctx := context.Background()

	if _, err := e.GenerateProof(ctx, Request{Statement: Statement{Type: StatementType(99)}}); !errors.Is(err, ErrStatementUnsupported) {
		t.Fatalf("unknown type err = %v, want ErrStatementUnsupported", err)
	}
	if _, err := e.GenerateProof(ctx, Request{Statement: Statement{Type: StatementDiscreteLog}}); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("missing secret err = %v, want ErrMissingInput", err)
	}
	st := Statement{
		Type:          StatementRangeProof,
		PublicInputs:  map[string]string{"min": "0"},
		PrivateInputs: map[string]string{"value": "5"},
	}
	if _, err := e.GenerateProof(ctx, Request{Statement: st}); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("missing max err = %v, want ErrMissingInput", err)
	}
	if _, err := e.VerifyProof(ctx, nil); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("nil proof err = %v, want ErrMissingInput", err)
	}
}

func TestEngineMembershipRefusalCachesNothing(t *testing.T) {
	e, notifier := testEngine(t, Config{})
	st := Statement{
		Type:          StatementSetMembership,
		PublicInputs:  map[string]string{"set": "1,2,3"},
		PrivateInputs: map[string]string{"value": "9"},
	}
	if _, err := e.GenerateProof(context.Background(), Request{Statement: st}); !errors.Is(err, ErrValueNotInSet) {
		t.Fatalf("err = %v, want ErrValueNotInSet", err)
	}
	if got := e.CacheStats().Entries; got != 0 {
		t.Fatalf("refusal cached %d proofs", got)
	}
	if got := notifier.outcomes(); len(got) != 0 {
		t.Fatalf("refusal notified: %v", got)
	}
}

func TestEngineProofExpiresFromCache(t *testing.T) {
	e, _ := testEngine(t, Config{})
	p, err := e.GenerateProof(context.Background(),
		Request{Statement: discreteLogStatement("31337"), TTL: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	if _, ok := e.CachedProof(p.ID); !ok {
		t.Fatal("fresh proof missing from the cache")
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := e.CachedProof(p.ID); ok {
		t.Fatal("expired proof still served from the cache")
	}
	if got := e.CacheStats().Evictions; got == 0 {
		t.Fatal("no eviction recorded")
	}
}

func TestEngineAsyncGeneration(t *testing.T) {
	e, _ := testEngine(t, Config{Workers: 3})
	ctx := context.Background()

	channels := make([]<-chan AsyncResult, 0, 4)
	for i := 0; i < 4; i++ {
		ch, err := e.GenerateProofAsync(ctx, Request{Statement: discreteLogStatement("1000003")})
		if err != nil {
			t.Fatalf("GenerateProofAsync: %v", err)
		}
		channels = append(channels, ch)
	}
	for i, ch := range channels {
		res := <-ch
		if res.Err != nil {
			t.Fatalf("async job %d: %v", i, res.Err)
		}
		out, err := e.VerifyProof(ctx, res.Proof)
		if err != nil || !out.IsValid {
			t.Fatalf("async job %d verification = %v, %v", i, out.IsValid, err)
		}
	}
	stats := e.PoolStats()
	if stats.Submitted != 4 || stats.Succeeded != 4 || stats.Failed != 0 {
		t.Fatalf("pool stats = %+v", stats)
	}
}

func TestEngineAsyncAfterCloseFails(t *testing.T) {
	e, _ := testEngine(t, Config{})
	e.Close()
	if _, err := e.GenerateProofAsync(context.Background(), Request{Statement: discreteLogStatement("2")}); !errors.Is(err, ErrCapabilityUnavailable) {
		t.Fatalf("err = %v, want ErrCapabilityUnavailable", err)
	}
	e.Close() // second close must not block
}

func TestEngineContextCancellation(t *testing.T) {
	e, _ := testEngine(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.GenerateProof(ctx, Request{Statement: discreteLogStatement("3")}); !errors.Is(err, context.Canceled) {
		t.Fatalf("generate err = %v, want context.Canceled", err)
	}
	p, err := e.GenerateProof(context.Background(), Request{Statement: discreteLogStatement("3")})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	if _, err := e.VerifyProof(ctx, p); !errors.Is(err, context.Canceled) {
		t.Fatalf("verify err = %v, want context.Canceled", err)
	}
}

func TestEngineUnknownCurve(t *testing.T) {
	if _, err := NewEngine(Config{Curve: -1}); !errors.Is(err, ErrCapabilityUnavailable) {
		t.Fatalf("err = %v, want ErrCapabilityUnavailable", err)
	}
}
