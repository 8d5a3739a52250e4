// Package main provides the Quarry demo CLI.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/quarrylab/quarry"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Quarry %s\n", version)
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "bench" {
		bench()
		return
	}

	fmt.Println("Quarry - Tile-Based Dense Linear Algebra for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  bench      Factor and solve a random SPD system")
}

// bench times a Cholesky solve of a random diagonally dominant system.
func bench() {
	const n, nrhs = 1024, 8
	cfg := quarry.DefaultConfig()

	rng := rand.New(rand.NewSource(1))
	a := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := rng.Float64()
			a[i*n+j] = v
			a[j*n+i] = v
		}
		a[i*n+i] += float64(n)
	}
	b := make([]float64, n*nrhs)
	for i := range b {
		b[i] = rng.Float64()
	}

	start := time.Now()
	if err := quarry.Posv(quarry.Lower, n, nrhs, a, n, b, nrhs, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "posv: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("posv n=%d nrhs=%d workers=%d: %v\n", n, nrhs, cfg.Workers, time.Since(start))
}
