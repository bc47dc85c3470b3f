// This is the main-driver for our compiler.

package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/skx/navi/compiler"
)

func main() {

	//
	// Look for flags.
	//
	debug := flag.Bool("debug", false, "Insert debug \"stuff\" in our generated output.")
	dumpIR := flag.Bool("dump-ir", false, "Print the lowered LLVM IR to stdout and exit, without invoking a backend.")
	compile := flag.Bool("compile", false, "Compile the program, via invoking the backend.")
	program := flag.String("filename", "a.out", "The program to write to.")
	run := flag.Bool("run", false, "Run the binary, post-compile.")
	backend := flag.String("backend", "clang", "The external toolchain command to assemble/link the generated IR with.")
	flag.Parse()

	//
	// If we're running we're also compiling
	//
	if *run {
		*compile = true
	}

	//
	// Ensure we have a single filename, or "-", as our argument.
	//
	if len(flag.Args()) != 1 {
		fmt.Printf("Usage: navic [flags] path/to/program.navi\n")
		os.Exit(1)
	}

	src, err := readSource(flag.Args()[0])
	if err != nil {
		fmt.Printf("Error reading program: %s\n", err)
		os.Exit(1)
	}

	//
	// Create a compiler-object, with the program as input.
	//
	comp := compiler.New(src)

	//
	// Are we inserting debugging "stuff" ?
	//
	if *debug {
		comp.SetDebug(true)
	}

	//
	// Compile: lex -> parse -> typecheck -> lower -> verify.
	//
	out, err := comp.Compile()
	if err != nil {
		fmt.Printf("Error compiling: %s\n", err.Error())
		os.Exit(1)
	}

	if *dumpIR {
		fmt.Printf("%s", out)
		return
	}

	//
	// If we're not compiling the IR which was produced then we just
	// write the program to STDOUT, and terminate.
	//
	if !*compile {
		fmt.Printf("%s", out)
		return
	}

	//
	// OK we're compiling the program, via the named backend. The
	// backend is expected to accept LLVM IR text on stdin, the way
	// clang/llc do with "-x ir -".
	//
	be := exec.Command(*backend, "-x", "ir", "-", "-o", *program)
	be.Stdout = os.Stdout
	be.Stderr = os.Stderr

	//
	// We'll pipe our generated IR to STDIN of the backend, via a
	// temporary buffer-object.
	//
	var b bytes.Buffer
	b.Write([]byte(out))
	be.Stdin = &b

	//
	// Run the backend.
	//
	err = be.Run()
	if err != nil {
		fmt.Printf("Error launching %s: %s\n", *backend, err)
		os.Exit(1)
	}

	//
	// Running the binary too?
	//
	if *run {
		exe := exec.Command(*program)
		exe.Stdout = os.Stdout
		exe.Stderr = os.Stderr
		err = exe.Run()
		if err != nil {
			fmt.Printf("Error launching %s: %s\n", *program, err)
			os.Exit(1)
		}
	}
}

// readSource reads Navi source from the named file, or from stdin if
// the path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		buf, err := os.ReadFile("/dev/stdin")
		return string(buf), err
	}
	buf, err := os.ReadFile(path)
	return string(buf), err
}
