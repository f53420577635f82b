// main.go - Main entry point for the Chip-8 Engine

/*
 ██████╗██╗  ██╗██╗██████╗        █████╗     ███████╗███╗   ██╗ ██████╗ ██╗███╗   ██╗███████╗
██╔════╝██║  ██║██║██╔══██╗      ██╔══██╗    ██╔════╝████╗  ██║██╔════╝ ██║████╗  ██║██╔════╝
██║     ███████║██║██████╔╝█████╗╚█████╔╝    █████╗  ██╔██╗ ██║██║  ███╗██║██╔██╗ ██║█████╗
██║     ██╔══██║██║██╔═══╝ ╚════╝██╔══██╗    ██╔══╝  ██║╚██╗██║██║   ██║██║██║╚██╗██║██╔══╝
╚██████╗██║  ██║██║██║           ╚█████╔╝    ███████╗██║ ╚████║╚██████╔╝██║██║ ╚████║███████╗
 ╚═════╝╚═╝  ╚═╝╚═╝╚═╝            ╚════╝     ╚══════╝╚═╝  ╚═══╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝╚══════╝

(c) 2026 Zayn Otley
https://github.com/IntuitionAmiga/Chip8Engine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;60;240;108m ██████╗██╗  ██╗██╗██████╗        █████╗     ███████╗███╗   ██╗ ██████╗ ██╗███╗   ██╗███████╗\033[0m\n\033[38;2;90;240;120m██╔════╝██║  ██║██║██╔══██╗      ██╔══██╗    ██╔════╝████╗  ██║██╔════╝ ██║████╗  ██║██╔════╝\033[0m\n\033[38;2;120;240;132m██║     ███████║██║██████╔╝█████╗╚█████╔╝    █████╗  ██╔██╗ ██║██║  ███╗██║██╔██╗ ██║█████╗\033[0m\n\033[38;2;150;240;144m██║     ██╔══██║██║██╔═══╝ ╚════╝██╔══██╗    ██╔══╝  ██║╚██╗██║██║   ██║██║██║╚██╗██║██╔══╝\033[0m\n\033[38;2;180;240;156m╚██████╗██║  ██║██║██║           ╚█████╔╝    ███████╗██║ ╚████║╚██████╔╝██║██║ ╚████║███████╗\033[0m\n\033[38;2;210;240;168m ╚═════╝╚═╝  ╚═╝╚═╝╚═╝            ╚════╝     ╚══════╝╚═╝  ╚═══╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝╚══════╝\033[0m")
	fmt.Println("\nAn instruction-level CHIP-8 virtual machine.")
	fmt.Println("(c) 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/Chip8Engine")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	var (
		modeTerminal bool
		scale        int
		ips          int
		seed         int64
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&modeTerminal, "terminal", false, "Render to the terminal instead of a window")
	flagSet.IntVar(&scale, "scale", 10, "Integer window scale factor")
	flagSet.IntVar(&ips, "ips", defaultCyclesPerSecond, "Instructions per second")
	flagSet.Int64Var(&seed, "seed", 0, "Random source seed (0 = time-based)")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./chip8_engine [-terminal] [-scale 10] [-ips 700] [-seed N] romfile")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	filename := flagSet.Arg(0)
	if filename == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	backend := VIDEO_BACKEND_EBITEN
	if modeTerminal {
		backend = VIDEO_BACKEND_TERMINAL
	} else {
		boilerPlate()
	}

	videoChip, err := NewVideoChip(backend)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}

	// Both backends double as the keypad collaborator.
	keys, ok := videoChip.Output().(Keypad)
	if !ok {
		fmt.Println("Failed to initialize input: video backend has no keypad")
		os.Exit(1)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	runner := NewRunner(videoChip, keys, NewRandomSource(seed), RunnerConfig{
		CyclesPerSecond: ips,
	})

	if err := runner.LoadProgram(filename); err != nil {
		fmt.Printf("Error loading program: %v\n", err)
		os.Exit(1)
	}

	if err := videoChip.Start(scale); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}

	if !modeTerminal {
		fmt.Printf("Starting CHIP-8 machine with program: %s\n", filename)
	}

	execDone := make(chan error, 1)
	go func() {
		execDone <- runner.Execute()
	}()

	// Run until the backend window/terminal closes or the machine faults.
	type doneProvider interface {
		Done() <-chan struct{}
	}

	var backendDone <-chan struct{}
	if dp, ok := videoChip.Output().(doneProvider); ok {
		backendDone = dp.Done()
	}

	select {
	case err := <-execDone:
		runner.Stop()
		videoChip.Stop()
		if err != nil {
			fmt.Printf("Machine fault: %v\n", err)
			os.Exit(1)
		}
	case <-backendDone:
		runner.Stop()
		videoChip.Stop()
	}
}
