package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"dvfsboot/config"
	"dvfsboot/iic"
)

var (
	profilePath = flag.String("config", "", "JSON board profile (default: built-in Salvator-XS)")
	console     = flag.String("console", "", "Serial device to mirror driver output to (overrides the profile)")
	verbose     = flag.Bool("verbose", false, "Print every state transition")
)

func main() {
	flag.Parse()

	profile := config.DefaultProfile()
	if *profilePath != "" {
		p, err := config.LoadProfileFile(*profilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load profile: %v\n", err)
			os.Exit(1)
		}
		profile = p
	}

	writers := []func(string){func(s string) { fmt.Println(s) }}
	con, err := openConsole(*console, profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if con != nil {
		defer con.Close()
		writers = append(writers, con.Println)
	}
	iic.SetDebugWriter(func(s string) {
		for _, w := range writers {
			w(s)
		}
	})
	iic.SetDebugEnabled(*verbose)

	s, err := newSession(profile, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// One-shot mode: remaining arguments are a single command
	if flag.NArg() > 0 {
		if err := s.execute(flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("IIC DVFS simulator - %s, MODEMR 0x%08X\n", profile.Product, profile.ModeMR)
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "quit", "exit", "q":
			return
		case "help", "?":
			printHelp()
		default:
			if err := s.execute(parts); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  send <slave> <reg> <data>  - Write one register")
	fmt.Println("  recv <slave> <reg>         - Read one register")
	fmt.Println("  board                      - Detect board from EEPROM")
	fmt.Println("  avs <code>                 - Set PMIC core voltage for an AVS code")
	fmt.Println("  pmic <reg> [value]         - Read or write a PMIC register")
	fmt.Println("  warmboot                   - Check the PMIC KEEP10 marker")
	fmt.Println("  suspend                    - Prepare the PMIC for suspend-to-RAM")
	fmt.Println("  events                     - Print the driver event ring")
	fmt.Println("  quit/exit/q                - Exit the program")
	fmt.Println()
}
