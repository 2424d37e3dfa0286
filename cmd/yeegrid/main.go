package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/lukaszgryglicki/yeegrid/internal/compile"
)

func main() {
	compile.Debug = os.Getenv("DEBUG") != ""
	compile.PNG = os.Getenv("PNG") != ""
	if dir := os.Getenv("PNG_DIR"); dir != "" {
		compile.PNGDir = dir
	}
	if w := os.Getenv("WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			fmt.Printf("Error: WORKERS: %v\n", err)
			os.Exit(1)
		}
		compile.Workers = n
	}
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "sims/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := compile.Run(cfg, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
