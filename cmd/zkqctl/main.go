package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zkqshield/curve"
	"zkqshield/hybrid"
	"zkqshield/quantum"
	"zkqshield/zkp"
)

func usage() {
	fmt.Println(`usage: zkqctl <keygen|prove|verify|export|import> [options]

Subcommands:
  keygen   Generate a hybrid Ed25519+quantum keypair and write ./zkq_keys/keypair.json
           Flags:
             -alg      <kyber|saber|dilithium|ntru|falcon|sphincs+>  quantum algorithm (default: dilithium)
             -size     <int>     quantum key size, normalized to 512/768/1024 (default: 768)
             -level    <standard|military|top-secret>  security level (default: standard)
             -digest             use the legacy digest scheme instead of a lattice signer
             -fallback           degrade to classical-only when the quantum half fails
             -out      <dir>     output directory (default: ./zkq_keys)

  prove    Generate a zero-knowledge proof and write it to disk
           Flags:
             -type     <discrete_log|pedersen_commitment|range_proof|set_membership|equality|custom>
             -curve    <secp256k1|p-384|p-521>  group (default: secp256k1)
             -secret   <scalar>  witness for discrete_log/custom (decimal or 0x hex)
             -value    <scalar>  witness for pedersen/range/membership/equality
             -message  <string>  optional public message bound into discrete_log proofs
             -min/-max <scalar>  public bounds for range_proof (half-open [min,max))
             -set      <list>    comma-separated public set for set_membership
             -ttl      <dur>     proof lifetime (default: 24h)
             -desc     <string>  statement description
             -enc      <json|base64|hex>  export encoding (default: json)
             -out      <file>    output path (default: ./zkq_proofs/proof.<enc>)

  verify   Import a proof file and verify it
           Flags:
             -in       <file>    proof file (required)
             -curve    <name>    group the proof was generated over (default: secp256k1)
             -enc      <json|base64|hex>  file encoding (default: json)

  export   Re-encode a JSON proof file into another encoding
           Flags:
             -in/-out  <file>    input (json) and output paths
             -enc      <json|base64|hex>  target encoding (default: base64)

  import   Decode a proof file and print its header
           Flags:
             -in       <file>    proof file (required)
             -enc      <json|base64|hex>  file encoding (default: json)`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "keygen":
		runKeygen(os.Args[2:])
	case "prove":
		runProve(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "import":
		runImport(os.Args[2:])
	default:
		usage()
	}
}

func newEngine(curveName string) *zkp.Engine {
	id, err := curve.ParseID(curveName)
	if err != nil {
		log.Fatalf("curve: %v", err)
	}
	e, err := zkp.NewEngine(zkp.Config{Curve: id})
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	return e
}

func runKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	algName := fs.String("alg", "dilithium", "quantum algorithm")
	size := fs.Int("size", 768, "quantum key size")
	levelName := fs.String("level", "standard", "security level")
	digest := fs.Bool("digest", false, "use the legacy digest scheme")
	fallback := fs.Bool("fallback", false, "degrade to classical-only on quantum failure")
	outDir := fs.String("out", "zkq_keys", "output directory")
	fs.Parse(args)

	alg, err := quantum.ParseAlgorithm(*algName)
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	level, err := quantum.ParseSecurityLevel(*levelName)
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	mgr, err := hybrid.NewManager(hybrid.Config{
		Algorithm:           alg,
		KeySize:             *size,
		SecurityLevel:       level,
		DigestSignatures:    *digest,
		FallbackToClassical: *fallback,
	}, nil)
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	defer mgr.Close()

	kp, err := mgr.GenerateKeyPair(context.Background())
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	if ok, err := mgr.VerifyBinding(kp); err != nil || !ok {
		log.Fatalf("keygen: binding self-check failed (ok=%v err=%v)", ok, err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("keygen: mkdir: %v", err)
	}
	path := filepath.Join(*outDir, "keypair.json")
	data, err := json.MarshalIndent(kp, "", "  ")
	if err != nil {
		log.Fatalf("keygen: marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Fatalf("keygen: write: %v", err)
	}
	fmt.Printf("keygen: id=%s scheme=%s alg=%s size=%d quantum_resistant=%v\n",
		kp.ID, kp.Scheme, kp.Algorithm, kp.KeySize, kp.QuantumResistant)
	fmt.Println("keypair written to", path)
}

func statementFromFlags(typeName, desc, secret, value, message, min, max, set string) (zkp.Statement, error) {
	st := zkp.Statement{Description: desc}
	typ, err := zkp.ParseStatementType(typeName)
	if err != nil {
		return st, err
	}
	st.Type = typ
	st.PublicInputs = map[string]string{}
	st.PrivateInputs = map[string]string{}

	switch typ {
	case zkp.StatementDiscreteLog, zkp.StatementCustom:
		if secret == "" {
			return st, fmt.Errorf("-secret is required for %s", typ)
		}
		st.PrivateInputs["secret"] = secret
		if message != "" {
			st.PublicInputs["message"] = message
		}
	case zkp.StatementPedersenCommitment, zkp.StatementEquality:
		if value == "" {
			return st, fmt.Errorf("-value is required for %s", typ)
		}
		st.PrivateInputs["value"] = value
	case zkp.StatementRangeProof:
		if value == "" || min == "" || max == "" {
			return st, fmt.Errorf("-value, -min and -max are required for %s", typ)
		}
		st.PrivateInputs["value"] = value
		st.PublicInputs["min"] = min
		st.PublicInputs["max"] = max
	case zkp.StatementSetMembership:
		if value == "" || set == "" {
			return st, fmt.Errorf("-value and -set are required for %s", typ)
		}
		st.PrivateInputs["value"] = value
		st.PublicInputs["set"] = set
	}
	return st, nil
}

func runProve(args []string) {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	typeName := fs.String("type", "discrete_log", "statement type")
	curveName := fs.String("curve", "secp256k1", "curve group")
	secret := fs.String("secret", "", "discrete-log witness scalar")
	value := fs.String("value", "", "committed witness scalar")
	message := fs.String("message", "", "public message bound into the proof")
	min := fs.String("min", "", "range lower bound (inclusive)")
	max := fs.String("max", "", "range upper bound (exclusive)")
	set := fs.String("set", "", "comma-separated membership set")
	ttl := fs.Duration("ttl", 0, "proof lifetime (0 = engine default)")
	desc := fs.String("desc", "", "statement description")
	encName := fs.String("enc", "json", "export encoding")
	outPath := fs.String("out", "", "output path (default ./zkq_proofs/proof.<enc>)")
	fs.Parse(args)

	enc, err := zkp.ParseEncoding(*encName)
	if err != nil {
		log.Fatalf("prove: %v", err)
	}
	st, err := statementFromFlags(*typeName, *desc, *secret, *value, *message, *min, *max, *set)
	if err != nil {
		log.Fatalf("prove: %v", err)
	}

	e := newEngine(*curveName)
	defer e.Close()

	start := time.Now()
	p, err := e.GenerateProof(context.Background(), zkp.Request{Statement: st, TTL: *ttl})
	if err != nil {
		log.Fatalf("prove: %v", err)
	}
	data, err := e.ExportProof(p, enc)
	if err != nil {
		log.Fatalf("prove: export: %v", err)
	}

	path := *outPath
	if path == "" {
		if err := os.MkdirAll("zkq_proofs", 0o755); err != nil {
			log.Fatalf("prove: mkdir: %v", err)
		}
		path = filepath.Join("zkq_proofs", "proof."+enc.String())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("prove: write: %v", err)
	}
	fmt.Printf("prove: id=%s type=%s algorithm=%s bytes=%d elapsed=%s\n",
		p.ID, p.Type, p.Algorithm, len(data), time.Since(start).Round(time.Microsecond))
	fmt.Printf("prove: expires_at=%s\n", p.ExpiresAt.Format(time.RFC3339))
	fmt.Println("proof written to", path)
}

func loadProof(e *zkp.Engine, path, encName string) *zkp.Proof {
	enc, err := zkp.ParseEncoding(encName)
	if err != nil {
		log.Fatalf("load proof: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("load proof: %v", err)
	}
	p, err := e.ImportProof(data, enc)
	if err != nil {
		log.Fatalf("load proof: %v", err)
	}
	return p
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	inPath := fs.String("in", "", "proof file")
	curveName := fs.String("curve", "secp256k1", "curve group")
	encName := fs.String("enc", "json", "file encoding")
	fs.Parse(args)
	if *inPath == "" {
		log.Fatal("verify: -in is required")
	}

	e := newEngine(*curveName)
	defer e.Close()

	p := loadProof(e, *inPath, *encName)
	start := time.Now()
	res, err := e.VerifyProof(context.Background(), p)
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	if !res.IsValid {
		fmt.Printf("verify: REJECTED id=%s reason=%q elapsed=%s\n",
			res.ProofID, res.Error, time.Since(start).Round(time.Microsecond))
		os.Exit(1)
	}
	fmt.Printf("verify: OK id=%s type=%s elapsed=%s\n",
		res.ProofID, p.Type, time.Since(start).Round(time.Microsecond))
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	inPath := fs.String("in", "", "input proof file (json)")
	outPath := fs.String("out", "", "output path")
	curveName := fs.String("curve", "secp256k1", "curve group")
	encName := fs.String("enc", "base64", "target encoding")
	fs.Parse(args)
	if *inPath == "" {
		log.Fatal("export: -in is required")
	}
	enc, err := zkp.ParseEncoding(*encName)
	if err != nil {
		log.Fatalf("export: %v", err)
	}

	e := newEngine(*curveName)
	defer e.Close()

	p := loadProof(e, *inPath, "json")
	data, err := e.ExportProof(p, enc)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	path := *outPath
	if path == "" {
		path = strings.TrimSuffix(*inPath, filepath.Ext(*inPath)) + "." + enc.String()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("export: write: %v", err)
	}
	fmt.Printf("export: id=%s encoding=%s bytes=%d\n", p.ID, enc, len(data))
	fmt.Println("proof written to", path)
}

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	inPath := fs.String("in", "", "proof file")
	curveName := fs.String("curve", "secp256k1", "curve group")
	encName := fs.String("enc", "json", "file encoding")
	fs.Parse(args)
	if *inPath == "" {
		log.Fatal("import: -in is required")
	}

	e := newEngine(*curveName)
	defer e.Close()

	p := loadProof(e, *inPath, *encName)
	fmt.Printf("import: id=%s type=%s algorithm=%s curve=%s key_length=%d\n",
		p.ID, p.Type, p.Algorithm, p.Curve, p.KeyLength)
	fmt.Printf("import: security_level=%s generated=%s expires=%s\n",
		p.SecurityLevel, p.Timestamp.Format(time.RFC3339), p.ExpiresAt.Format(time.RFC3339))
	if p.Expired(time.Now()) {
		fmt.Println("import: proof is EXPIRED")
	}
}
