// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/sap8/cpu"
	"github.com/ezrec/sap8/emulator"
	"github.com/ezrec/sap8/io"
)

func main() {
	var compile string
	var image string
	var punch string
	var limit int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble and run")
	flag.StringVar(&image, "b", "", "Raw memory image to load and run ('-' for stdin)")
	flag.StringVar(&punch, "o", "", "Write the output register to this file")
	flag.IntVar(&limit, "t", 10000, "Cycle limit before giving up")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	c := emulator.NewComputer(nil)
	c.Verbose = verbose

	var src io.Source

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose, Set: c.Set}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		img := prog.Image()
		src = &io.Rom{Data: img[:]}

	case image == "-":
		src = &io.Tape{Input: os.Stdin}

	case len(image) != 0:
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		defer inf.Close()
		src = &io.Tape{Input: inf}

	default:
		log.Fatalf("%v: no program given (need -c or -b)", os.Args[0])
	}

	if err := c.LoadImage(src); err != nil {
		log.Fatalf("%v: load: %v", os.Args[0], err)
	}

	if err := c.Run(limit); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("output: %#02x\n", c.Output())
	fmt.Printf("flags:  carry=%v zero=%v halt=%v\n",
		c.CarryFlag(), c.ZeroFlag(), c.HaltFlag())
	fmt.Printf("cycles: %v\n", c.Cycles)

	if len(punch) != 0 {
		ouf, err := os.Create(punch)
		if err != nil {
			log.Fatalf("%v: %v", punch, err)
		}
		defer ouf.Close()

		tape := &io.Tape{Output: ouf}
		if err := tape.Send(c.Output()); err != nil {
			log.Fatalf("%v: %v", punch, err)
		}
	}
}
