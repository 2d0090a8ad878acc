package bench

import (
	"context"
	"testing"

	"zkqshield/zkp"
)

func newBenchEngine(b *testing.B) *zkp.Engine {
	b.Helper()
	e, err := zkp.NewEngine(zkp.Config{})
	if err != nil {
		b.Fatalf("NewEngine: %v", err)
	}
	b.Cleanup(e.Close)
	return e
}

func benchGenerate(b *testing.B, st zkp.Statement) {
	e := newBenchEngine(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, err := e.GenerateProof(ctx, zkp.Request{Statement: st})
		if err != nil {
			b.Fatalf("GenerateProof: %v", err)
		}
		e.RemoveProof(p.ID)
	}
}

func benchVerify(b *testing.B, st zkp.Statement) {
	e := newBenchEngine(b)
	ctx := context.Background()
	p, err := e.GenerateProof(ctx, zkp.Request{Statement: st})
	if err != nil {
		b.Fatalf("GenerateProof: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := e.VerifyProof(ctx, p)
		if err != nil {
			b.Fatalf("VerifyProof: %v", err)
		}
		if !res.IsValid {
			b.Fatalf("proof rejected: %s", res.Error)
		}
	}
}

func schnorrStatement() zkp.Statement {
	return zkp.Statement{
		Type:          zkp.StatementDiscreteLog,
		PublicInputs:  map[string]string{"message": "bench"},
		PrivateInputs: map[string]string{"secret": "982451653982451653982451653"},
	}
}

func rangeStatement() zkp.Statement {
	return zkp.Statement{
		Type:          zkp.StatementRangeProof,
		PublicInputs:  map[string]string{"min": "0", "max": "4096"},
		PrivateInputs: map[string]string{"value": "1500"},
	}
}

func membershipStatement() zkp.Statement {
	return zkp.Statement{
		Type:          zkp.StatementSetMembership,
		PublicInputs:  map[string]string{"set": "100,200,300,400,500,600,700,800"},
		PrivateInputs: map[string]string{"value": "300"},
	}
}

func BenchmarkGenerateSchnorr(b *testing.B)    { benchGenerate(b, schnorrStatement()) }
func BenchmarkVerifySchnorr(b *testing.B)      { benchVerify(b, schnorrStatement()) }
func BenchmarkGenerateRange(b *testing.B)      { benchGenerate(b, rangeStatement()) }
func BenchmarkVerifyRange(b *testing.B)        { benchVerify(b, rangeStatement()) }
func BenchmarkGenerateMembership(b *testing.B) { benchGenerate(b, membershipStatement()) }
func BenchmarkVerifyMembership(b *testing.B)   { benchVerify(b, membershipStatement()) }

func BenchmarkExportJSON(b *testing.B) {
	e := newBenchEngine(b)
	p, err := e.GenerateProof(context.Background(), zkp.Request{Statement: rangeStatement()})
	if err != nil {
		b.Fatalf("GenerateProof: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.ExportProof(p, zkp.EncodingJSON); err != nil {
			b.Fatalf("ExportProof: %v", err)
		}
	}
}
