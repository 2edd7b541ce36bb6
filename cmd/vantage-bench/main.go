// vantage-bench is a benchmark and stress test for the vantage index. It
// builds a multi-dimensional index from random points and measures the
// performance of batch insertion, repacking, and both query shapes.
package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"vantage"
	"vantage/internal/codec"
	"vantage/internal/engine/memstore"
)

const (
	dimensions  = 8
	tupleCount  = 200_000
	batchSize   = 2_000
	probeCount  = 50
	knnK        = 10
	rangeRadius = 0.75
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Millisecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Millisecond))
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func randomPoint(rnd *rand.Rand) []float64 {
	p := make([]float64, dimensions)
	for i := range p {
		p[i] = rnd.Float64()
	}
	return p
}

func main() {
	fmt.Println("vantage Benchmark and Stress Test")
	fmt.Println("==================================")
	fmt.Printf("Dimensions: %d, tuples: %d, batch size: %d\n", dimensions, tupleCount, batchSize)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	rnd := rand.New(rand.NewPCG(1, 2))

	idx, err := vantage.Open(vantage.Options[[]float64, string]{
		BranchingFactor:  64,
		MaxTuplesPerPage: 128,
		RepackingMode:    vantage.RepackingIncrementalLN,
		Distance:         euclidean,
		Store:            memstore.New(),
		KeyCodec:         codec.Float64Vector{Dim: dimensions},
		ValueCodec:       codec.String{},
		Logger:           logger,
	})
	if err != nil {
		fmt.Printf("Failed to open index: %v\n", err)
		os.Exit(1)
	}

	var results []BenchResult

	runBench := func(name string, fn func() BenchResult) {
		fmt.Printf("  %-40s ", name+"...")
		result := fn()
		fmt.Printf("%v\n", result.Duration.Round(time.Millisecond))
		results = append(results, result)
	}

	points := make([][]float64, 0, tupleCount)
	fmt.Println("Generating random points...")
	genStart := time.Now()
	for i := 0; i < tupleCount; i++ {
		points = append(points, randomPoint(rnd))
	}
	results = append(results, BenchResult{Name: "Generate random points", Duration: time.Since(genStart), Extra: fmt.Sprintf("%d points", tupleCount)})

	fmt.Println("\nBatch insertion:")
	runBench("Insert all tuples", func() BenchResult { return benchInsert(idx, points) })

	fmt.Println("\nMaintenance:")
	runBench("Full repack", func() BenchResult { return benchRepack(idx) })

	fmt.Println("\nSearch operations:")
	runBench(fmt.Sprintf("kNN search (k=%d)", knnK), func() BenchResult { return benchKnn(idx, rnd) })
	runBench(fmt.Sprintf("Range search (r=%.2f)", rangeRadius), func() BenchResult { return benchRange(idx, rnd) })

	fmt.Println("\nIteration:")
	runBench("Full iteration", func() BenchResult { return benchIterate(idx) })

	fmt.Println("\n" + "====")
	fmt.Println("SUMMARY")
	fmt.Println("====")
	for _, r := range results {
		fmt.Println(r)
	}

	stats, err := idx.TreeStats()
	if err == nil {
		fmt.Printf("\nTuples: %d, leaves: %d, inner nodes: %d\n", stats.TupleCount, stats.LeafCount, stats.InnerCount)
		fmt.Printf("Mean leaf radius: %.4f, stddev: %.4f\n", stats.MeanLeafRadius, stats.StddevLeafRadius)
	}
	fmt.Printf("Distance metric calls: %d\n", idx.DistanceMetricExecutionCount())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Println()
	fmt.Printf("Peak heap allocation: %d MB\n", m.HeapSys/(1024*1024))
	fmt.Printf("Total allocations: %d MB\n", m.TotalAlloc/(1024*1024))
}

func benchInsert(idx *vantage.Index[[]float64, string], points [][]float64) BenchResult {
	ops := 0
	start := time.Now()

	acc := vantage.NewBatchAccumulator[[]float64, string]()
	for i, p := range points {
		acc.Add(vantage.Tuple[[]float64, string]{ID: vantage.NewID(), Key: p, Value: fmt.Sprintf("%d", i)})
		if (i+1)%batchSize == 0 {
			if err := idx.AddBatch(acc.Drain()); err != nil {
				return BenchResult{Name: "Insert all tuples", Duration: time.Since(start), Extra: fmt.Sprintf("ERROR: %v", err)}
			}
			ops += batchSize
		}
	}
	if batch := acc.Drain(); batch.Size() > 0 {
		if err := idx.AddBatch(batch); err != nil {
			return BenchResult{Name: "Insert all tuples", Duration: time.Since(start), Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		ops += batch.Size()
	}

	return BenchResult{Name: "Insert all tuples", Duration: time.Since(start), Ops: ops}
}

func benchRepack(idx *vantage.Index[[]float64, string]) BenchResult {
	start := time.Now()
	if err := idx.RepackTree(); err != nil {
		return BenchResult{Name: "Full repack", Duration: time.Since(start), Extra: fmt.Sprintf("ERROR: %v", err)}
	}
	return BenchResult{Name: "Full repack", Duration: time.Since(start)}
}

func benchKnn(idx *vantage.Index[[]float64, string], rnd *rand.Rand) BenchResult {
	ops := 0
	start := time.Now()
	for i := 0; i < probeCount; i++ {
		if _, err := idx.KnnSearch(randomPoint(rnd), knnK); err == nil {
			ops++
		}
	}
	return BenchResult{Name: fmt.Sprintf("kNN search (k=%d)", knnK), Duration: time.Since(start), Ops: ops}
}

func benchRange(idx *vantage.Index[[]float64, string], rnd *rand.Rand) BenchResult {
	ops := 0
	matches := 0
	start := time.Now()
	for i := 0; i < probeCount; i++ {
		results, err := idx.RangeSearch(randomPoint(rnd), rangeRadius)
		if err == nil {
			ops++
			matches += len(results)
		}
	}
	return BenchResult{Name: fmt.Sprintf("Range search (r=%.2f)", rangeRadius), Duration: time.Since(start), Ops: ops, Extra: fmt.Sprintf("%d total matches", matches)}
}

func benchIterate(idx *vantage.Index[[]float64, string]) BenchResult {
	ops := 0
	tuples := 0
	start := time.Now()

	it := idx.Iterator(false)
	for {
		page, ok, err := it.Next()
		if err != nil || !ok {
			break
		}
		ops++
		tuples += page.Len()
	}

	return BenchResult{Name: "Full iteration", Duration: time.Since(start), Ops: ops, Extra: fmt.Sprintf("%d tuples visited", tuples)}
}
