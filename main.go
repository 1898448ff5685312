package main

import (
	"io"
	"os"

	"github.com/xvierd/repostat/cmd"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return cmd.Run(args, stdin, stdout, stderr)
}
