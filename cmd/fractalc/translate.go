package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/btouchard/fractalc/internal/compiler"
)

func cmdTranslate(args []string) {
	fs := newFlagSet("translate", "<equation>")
	setup(fs, args)

	equation := equationArg(fs)
	if equation == "" {
		line, err := readLine()
		if err != nil {
			fs.Usage()
			os.Exit(1)
		}
		equation = line
	}

	expr, warnings, err := compiler.Check(equation)
	if err != nil {
		fmt.Println(compiler.Message(err))
		os.Exit(1)
	}
	warn(os.Stderr, warnings.Messages())
	fmt.Println(expr)
}

// readLine reads one equation from stdin.
func readLine() (string, error) {
	sc := bufio.NewScanner(os.Stdin)
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", errors.New("no equation given")
}
