// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/rvcore/emulator"
	"github.com/ezrec/rvcore/io"
	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var ErrDefine = errors.New(f("expected NAME=VALUE"))

// defineList collects repeated -D NAME=VALUE flags.
type defineList map[string]string

func (dl defineList) String() string {
	var parts []string
	for key, value := range dl {
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, ",")
}

func (dl defineList) Set(text string) error {
	key, value, ok := strings.Cut(text, "=")
	if !ok || len(key) == 0 {
		return errors.Join(ErrDefine, errors.New(f("'%v'", text)))
	}
	dl[key] = value
	return nil
}

func main() {
	var compile string
	var image string
	var expected string
	var output string
	var cycles int
	var scenarios string
	var scenario string
	var export string
	var verbose bool
	defines := defineList{}

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&image, "i", "", "Instruction memory image to run")
	flag.StringVar(&expected, "e", "", "Expected register file to check")
	flag.StringVar(&output, "o", "", "Save the assembled image, do not execute")
	flag.IntVar(&cycles, "n", emulator.RUN_CYCLES, "Clock edges to run")
	flag.StringVar(&scenarios, "s", "", "Fixture directory of scenarios to run")
	flag.StringVar(&scenario, "t", "", "Run only this scenario")
	flag.StringVar(&export, "x", "", "Export the selected scenarios to this directory")
	flag.Var(defines, "D", "Predefine NAME=VALUE for the assembler (repeatable)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(scenarios) != 0 {
		runFixtures(scenarios, scenario, export, verbose)
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	// Assemble a new instruction image.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		emu.Equate = defines
		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(image) != 0 {
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		defer inf.Close()

		words, err := io.ReadImage(inf)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		emu.SetImage(words)
	}

	if len(output) != 0 {
		ouf := os.Stdout
		if output != "-" {
			var err error
			ouf, err = os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()
		}

		err := io.WriteImage(ouf, emu.Image, emu.Program.Listing())
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	if len(emu.Image) == 0 {
		log.Fatalf("%v: %v", os.Args[0], f("no image; use -c, -i or -s"))
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run(cycles)
	if err != nil {
		log.Fatal(err)
	}

	if len(expected) != 0 {
		inf, err := os.Open(expected)
		if err != nil {
			log.Fatalf("%v: %v", expected, err)
		}
		defer inf.Close()

		exp, err := io.ReadExpected(inf)
		if err != nil {
			log.Fatalf("%v: %v", expected, err)
		}

		err = emu.Check(&exp)
		if err != nil {
			log.Fatalf("%v: %v", expected, err)
		}
	}

	fmt.Print(emu.Cpu.String())
}

// runFixtures runs every scenario of a fixture directory, or just one.
func runFixtures(dir string, only string, export string, verbose bool) {
	fx := &io.Fixtures{FS: os.DirFS(dir)}

	names := []string{only}
	if len(only) == 0 {
		var err error
		names, err = fx.Scenarios()
		if err != nil {
			log.Fatalf("%v: %v", dir, err)
		}
	}

	if len(export) != 0 {
		err := os.MkdirAll(export, 0755)
		if err != nil {
			log.Fatalf("%v: %v", export, err)
		}
		err = fx.Marshal(io.DirFS(export), names...)
		if err != nil {
			log.Fatalf("%v: %v", export, err)
		}
		return
	}

	failed := 0
	for _, name := range names {
		emu := emulator.NewEmulator()
		emu.Verbose = verbose

		err := emu.RunScenario(fx, name)
		if err != nil {
			log.Print(err)
			failed++
			continue
		}

		fmt.Println(f("%v: ok (%d ticks, power %d)", name, emu.Ticks(), emu.Power()))
	}

	if failed != 0 {
		log.Fatalf("%v: %v", dir, f("%d of %d scenarios failed", failed, len(names)))
	}
}
