package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ChristopherRabotin/cvtsim"
	"github.com/ChristopherRabotin/cvtsim/dataio"
	"github.com/ChristopherRabotin/cvtsim/plots"
	kitlog "github.com/go-kit/kit/log"
)

// This code reads a scenario, loads the bench curves, runs the simulation or a dispersion sweep, and exports.

const defaultScenario = "~~unset~~"

var (
	scenario    string
	verbose     bool
	ascii       bool
	numCPUs     int
	dispersions int
	σMass       float64
	σAeroA      float64
	σAeroB      float64
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file (or set "+cvtsim.ScenarioEnv+")")
	flag.BoolVar(&verbose, "verbose", false, "log the simulation in logfmt")
	flag.BoolVar(&ascii, "ascii", true, "print the speed chart in the terminal")
	flag.IntVar(&numCPUs, "cpus", -1, "number of CPUs to use for dispersions (set to 0 for max CPUs)")
	flag.IntVar(&dispersions, "dispersions", 0, "number of Monte Carlo runs (0 runs the nominal vehicle only)")
	flag.Float64Var(&σMass, "sigma-mass", 5, "mass standard deviation in kg for dispersions")
	flag.Float64Var(&σAeroA, "sigma-a", 0, "quadratic aero coefficient standard deviation for dispersions")
	flag.Float64Var(&σAeroB, "sigma-b", 0, "linear aero coefficient standard deviation for dispersions")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		scenario = os.Getenv(cvtsim.ScenarioEnv)
		if scenario == "" {
			log.Fatal("no scenario provided")
		}
	}
	sc, err := cvtsim.LoadScenario(scenario)
	if err != nil {
		log.Fatalf("could not load scenario: %s", err)
	}
	if verbose {
		log.Printf("[conf] vehicle: %s", sc.Vehicle)
		log.Printf("[conf] engine data: %s", sc.Engine)
		log.Printf("[conf] cvt data: %s", sc.CVT)
	}
	engine, err := dataio.LoadEngineCurve(sc.Engine)
	if err != nil {
		log.Fatalf("could not load engine curve: %s", err)
	}
	cvt, err := dataio.LoadCVTCurve(sc.CVT)
	if err != nil {
		log.Fatalf("could not load cvt curve: %s", err)
	}

	logger := kitlog.NewNopLogger()
	if verbose {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	}

	rslt, err := cvtsim.Simulate(sc.Vehicle, engine, cvt, logger)
	if err != nil {
		log.Fatalf("simulation failed: %s", err)
	}
	fmt.Println(summary(rslt))
	if ascii {
		fmt.Println(plots.ASCII(rslt, 70, 12))
	}

	if !sc.Export.IsUseless() {
		files, err := dataio.Export(sc.Export, rslt)
		if err != nil {
			log.Fatalf("export failed: %s", err)
		}
		if sc.Export.PNG {
			pngs, err := plots.Save(sc.Export, rslt)
			if err != nil {
				log.Fatalf("plotting failed: %s", err)
			}
			files = append(files, pngs...)
		}
		for _, f := range files {
			log.Printf("[info] saved %s", f)
		}
	}

	if dispersions > 0 {
		variants, err := cvtsim.Disperse(sc.Vehicle, cvtsim.Dispersion{Mass: σMass, AeroQuadratic: σAeroA, AeroLinear: σAeroB}, dispersions)
		if err != nil {
			log.Fatalf("could not disperse: %s", err)
		}
		results := cvtsim.Sweep(variants, engine, cvt, numCPUs, logger)
		fmt.Println(sweepSummary(results))
	}
}
