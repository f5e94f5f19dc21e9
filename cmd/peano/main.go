package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "peano-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "check":
		return runCheck(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  peano run [file.pn]")
	fmt.Fprintln(os.Stderr, "  peano check <file.pn>")
	fmt.Fprintln(os.Stderr, "  peano <file.pn>")
	fmt.Fprintln(os.Stderr, "  peano deps install")
	fmt.Fprintln(os.Stderr, "  peano deps update")
	fmt.Fprintln(os.Stderr, "  peano --version")
}
