package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"zkqshield/curve"
	"zkqshield/prof"
	"zkqshield/quantum"
	"zkqshield/zkp"
)

const (
	defaultRuns   = 25
	defaultCurves = "secp256k1"
	defaultLevels = "standard"
	defaultOutDir = "Bench_Reports"
)

// row is one grid point: a statement type benchmarked on one curve at one
// security level.
type row struct {
	Curve      string
	Level      string
	Type       string
	Runs       int
	GenMean    time.Duration
	GenMin     time.Duration
	GenMax     time.Duration
	VerifyMean time.Duration
	VerifyMin  time.Duration
	VerifyMax  time.Duration
	ProofBytes int
}

func splitList(spec string) []string {
	var out []string
	for _, part := range strings.Split(spec, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTypes(spec string) ([]zkp.StatementType, error) {
	if strings.EqualFold(strings.TrimSpace(spec), "all") {
		return []zkp.StatementType{
			zkp.StatementDiscreteLog,
			zkp.StatementPedersenCommitment,
			zkp.StatementRangeProof,
			zkp.StatementSetMembership,
			zkp.StatementEquality,
			zkp.StatementCustom,
		}, nil
	}
	var out []zkp.StatementType
	for _, name := range splitList(spec) {
		typ, err := zkp.ParseStatementType(name)
		if err != nil {
			return nil, err
		}
		out = append(out, typ)
	}
	return out, nil
}

// benchStatement returns the canonical witness used for each statement type.
// The witnesses are fixed; all randomness in a run comes from the protocol
// nonces.
func benchStatement(typ zkp.StatementType) zkp.Statement {
	st := zkp.Statement{Type: typ, Description: "proofbench"}
	switch typ {
	case zkp.StatementDiscreteLog, zkp.StatementCustom:
		st.PrivateInputs = map[string]string{"secret": "982451653982451653982451653"}
		st.PublicInputs = map[string]string{"message": "proofbench"}
	case zkp.StatementPedersenCommitment, zkp.StatementEquality:
		st.PrivateInputs = map[string]string{"value": "6553765537"}
	case zkp.StatementRangeProof:
		st.PrivateInputs = map[string]string{"value": "1500"}
		st.PublicInputs = map[string]string{"min": "0", "max": "4096"}
	case zkp.StatementSetMembership:
		st.PrivateInputs = map[string]string{"value": "300"}
		st.PublicInputs = map[string]string{"set": "100,200,300,400,500,600,700,800"}
	}
	return st
}

func durStats(durs []time.Duration) (mean, min, max time.Duration) {
	if len(durs) == 0 {
		return 0, 0, 0
	}
	min, max = durs[0], durs[0]
	var total time.Duration
	for _, d := range durs {
		total += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return total / time.Duration(len(durs)), min, max
}

func benchPoint(e *zkp.Engine, typ zkp.StatementType, runs int) (genDurs, verDurs []time.Duration, proofBytes int, err error) {
	ctx := context.Background()
	st := benchStatement(typ)
	for i := 0; i < runs; i++ {
		start := time.Now()
		p, err := e.GenerateProof(ctx, zkp.Request{Statement: st})
		if err != nil {
			return nil, nil, 0, fmt.Errorf("generate: %w", err)
		}
		genDurs = append(genDurs, time.Since(start))

		start = time.Now()
		res, err := e.VerifyProof(ctx, p)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("verify: %w", err)
		}
		verDurs = append(verDurs, time.Since(start))
		if !res.IsValid {
			return nil, nil, 0, fmt.Errorf("verify rejected %s: %s", p.ID, res.Error)
		}

		if proofBytes == 0 {
			data, err := e.ExportProof(p, zkp.EncodingJSON)
			if err != nil {
				return nil, nil, 0, fmt.Errorf("export: %w", err)
			}
			proofBytes = len(data)
		}
		e.RemoveProof(p.ID)
	}
	return genDurs, verDurs, proofBytes, nil
}

func toBarItems(vals []float64) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

// newBenchChart plots one value column of the result grid: X axis is the
// statement type, one bar series per curve/level combination.
func newBenchChart(title, unit string, rows []row, types []string, value func(row) float64) *charts.Bar {
	bySeries := make(map[string]map[string]float64)
	var seriesNames []string
	for _, r := range rows {
		name := r.Curve + "/" + r.Level
		if _, ok := bySeries[name]; !ok {
			bySeries[name] = make(map[string]float64)
			seriesNames = append(seriesNames, name)
		}
		bySeries[name][r.Type] = value(r)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: unit}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(types)
	for _, name := range seriesNames {
		vals := make([]float64, len(types))
		for i, typ := range types {
			vals[i] = bySeries[name][typ]
		}
		bar.AddSeries(name, toBarItems(vals))
	}
	bar.SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func writeCSV(path string, rows []row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	header := []string{
		"curve", "level", "type", "runs",
		"gen_mean_us", "gen_min_us", "gen_max_us",
		"verify_mean_us", "verify_min_us", "verify_max_us",
		"proof_bytes",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	us := func(d time.Duration) string {
		return strconv.FormatInt(d.Microseconds(), 10)
	}
	for _, r := range rows {
		rec := []string{
			r.Curve, r.Level, r.Type, strconv.Itoa(r.Runs),
			us(r.GenMean), us(r.GenMin), us(r.GenMax),
			us(r.VerifyMean), us(r.VerifyMin), us(r.VerifyMax),
			strconv.Itoa(r.ProofBytes),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	runs := flag.Int("runs", defaultRuns, "proof generate/verify rounds per grid point")
	typeSpec := flag.String("types", "all", "comma-separated statement types, or 'all'")
	curveSpec := flag.String("curves", defaultCurves, "comma-separated curve names")
	levelSpec := flag.String("levels", defaultLevels, "comma-separated security levels")
	outDir := flag.String("out", defaultOutDir, "output directory for reports")
	flag.Parse()

	types, err := parseTypes(*typeSpec)
	if err != nil {
		log.Fatalf("types: %v", err)
	}
	curveNames := splitList(*curveSpec)
	levelNames := splitList(*levelSpec)
	if len(curveNames) == 0 || len(levelNames) == 0 {
		log.Fatal("at least one curve and one level are required")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	prof.SnapshotAndReset() // drop anything recorded before the sweep

	var rows []row
	total := len(curveNames) * len(levelNames) * len(types)
	point := 0
	for _, curveName := range curveNames {
		id, err := curve.ParseID(curveName)
		if err != nil {
			log.Fatalf("curve: %v", err)
		}
		for _, levelName := range levelNames {
			level, err := quantum.ParseSecurityLevel(levelName)
			if err != nil {
				log.Fatalf("level: %v", err)
			}
			e, err := zkp.NewEngine(zkp.Config{Curve: id, SecurityLevel: level})
			if err != nil {
				log.Fatalf("engine: %v", err)
			}
			for _, typ := range types {
				point++
				log.Printf("[proofbench] point %d/%d curve=%s level=%s type=%s runs=%d",
					point, total, curveName, levelName, typ, *runs)
				genDurs, verDurs, bytes, err := benchPoint(e, typ, *runs)
				if err != nil {
					e.Close()
					log.Fatalf("bench %s/%s/%s: %v", curveName, levelName, typ, err)
				}
				r := row{Curve: curveName, Level: levelName, Type: typ.String(), Runs: *runs, ProofBytes: bytes}
				r.GenMean, r.GenMin, r.GenMax = durStats(genDurs)
				r.VerifyMean, r.VerifyMin, r.VerifyMax = durStats(verDurs)
				rows = append(rows, r)
			}
			e.Close()
		}
	}

	typeNames := make([]string, len(types))
	for i, typ := range types {
		typeNames[i] = typ.String()
	}

	ts := time.Now().Format("20060102_150405")
	csvPath := filepath.Join(*outDir, fmt.Sprintf("proofbench_%s.csv", ts))
	if err := writeCSV(csvPath, rows); err != nil {
		log.Fatalf("write csv: %v", err)
	}

	page := components.NewPage()
	page.AddCharts(
		newBenchChart("proof generation (mean)", "µs", rows, typeNames,
			func(r row) float64 { return float64(r.GenMean.Microseconds()) }),
		newBenchChart("proof verification (mean)", "µs", rows, typeNames,
			func(r row) float64 { return float64(r.VerifyMean.Microseconds()) }),
		newBenchChart("exported proof size", "bytes (json)", rows, typeNames,
			func(r row) float64 { return float64(r.ProofBytes) }),
	)
	htmlPath := filepath.Join(*outDir, fmt.Sprintf("proofbench_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}

	fmt.Println("Benchmark CSV:", csvPath)
	fmt.Println("Chart page:", htmlPath)

	fmt.Println("\nEngine-internal totals:")
	for _, st := range prof.TotalsAndReset() {
		fmt.Printf("  %-24s calls=%-6d total=%-12s mean=%s\n",
			st.Label, st.Count, st.Total.Round(time.Microsecond), st.Mean().Round(time.Microsecond))
	}
}
