package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/tvmkit/tvm/asm"
	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/engine"
	"github.com/tvmkit/tvm/internal/tvmi"
)

// gasTriple is a flag.Value so -gas can be given as "limit,limitMax,price"
// in one shot, the way Ngaro's cellSizeBits packs a single validated
// integer behind one flag.
type gasTriple struct {
	limit, limitMax, price int64
}

func (g *gasTriple) String() string {
	return fmt.Sprintf("%d,%d,%d", g.limit, g.limitMax, g.price)
}

func (g *gasTriple) Set(s string) error {
	var limit, limitMax, price int64
	n, err := fmt.Sscanf(s, "%d,%d,%d", &limit, &limitMax, &price)
	if err != nil || n != 3 {
		return errors.Errorf("want limit,limitMax,price, got %q", s)
	}
	g.limit, g.limitMax, g.price = limit, limitMax, price
	return nil
}

func (g *gasTriple) Get() interface{} { return *g }

var (
	debug       bool
	dump        bool
	compileOnly bool
	repl        bool
	outFileName string
	loadFile    string
	balance     int64
	seed        int64
	gas         = gasTriple{limit: 1000000, limitMax: 1000000, price: 1}
)

func atExit(e *engine.Engine, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	if e != nil {
		fmt.Fprintf(os.Stderr, "exit code: %d, steps: %d, stack depth: %d\n",
			e.ExitCode(), e.InstructionCount(), e.Stack.Depth())
	}
	os.Exit(1)
}

func engineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithGas(gas.limit, 0, gas.limitMax, gas.price),
		engine.WithBalance(balance),
		engine.WithRandomSeed(seed),
		engine.WithDebugEnabled(debug),
	}
	if debug || dump {
		opts = append(opts, engine.WithDebugWriter(tvmi.NewErrWriter(os.Stdout)))
	}
	return opts
}

// newEngineForCode builds an Engine around an already-compiled code cell,
// sharing engineOptions with newEngine; the REPL uses this directly since
// it compiles each typed line itself instead of reading a file.
func newEngineForCode(code cell.Cell) *engine.Engine {
	return engine.New(code, engineOptions()...)
}

func newEngine() (*engine.Engine, error) {
	opts := engineOptions()
	if loadFile != "" {
		f, err := os.Open(loadFile)
		if err != nil {
			return nil, errors.Wrap(err, "open failed")
		}
		defer f.Close()
		code, err := cell.Load(f)
		if err != nil {
			return nil, errors.Wrap(err, "load failed")
		}
		return engine.New(code, opts...), nil
	}
	srcName := "stdin"
	src := os.Stdin
	if flag.NArg() > 0 {
		srcName = flag.Arg(0)
		f, err := os.Open(srcName)
		if err != nil {
			return nil, errors.Wrap(err, "open failed")
		}
		defer f.Close()
		src = f
	}
	code, err := asm.Compile(srcName, src)
	if err != nil {
		return nil, errors.Wrap(err, "compile failed")
	}
	if outFileName != "" {
		if err := saveCompiled(outFileName, code); err != nil {
			return nil, err
		}
	}
	return engine.New(code, opts...), nil
}

func saveCompiled(name string, code cell.Cell) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	defer func() {
		f.Close()
		if err != nil {
			os.Remove(name)
		}
	}()
	return errors.Wrap(cell.Save(f, code), "save failed")
}

func main() {
	var err error
	var e *engine.Engine

	defer func() {
		atExit(e, err)
	}()

	flag.BoolVar(&compileOnly, "c", false, "assemble only, do not execute")
	flag.BoolVar(&repl, "i", false, "read and execute one program per line from stdin, interactively")
	flag.BoolVar(&debug, "debug", false, "enable DEBUGON/DUMPSTK/PRINTSTR diagnostics and full error traces")
	flag.BoolVar(&dump, "dump", false, "dump the data stack upon exit")
	flag.StringVar(&outFileName, "o", "", "save the assembled bag of cells to `filename`")
	flag.StringVar(&loadFile, "load", "", "run a previously assembled bag of cells instead of compiling source")
	flag.Int64Var(&balance, "balance", 0, "account balance in nanotokens, as reported by BALANCE")
	flag.Int64Var(&seed, "seed", 0, "seed for the RAND family's generator")
	flag.Var(&gas, "gas", "`limit,limitMax,price` gas schedule")
	execStats := flag.Bool("stats", false, "print instruction count and elapsed time upon exit")

	flag.Parse()

	if repl {
		runREPL()
		return
	}

	e, err = newEngine()
	if err != nil {
		return
	}
	if compileOnly {
		return
	}

	start := time.Now()
	err = e.Run(context.Background())
	if err != nil {
		return
	}
	if *execStats {
		delta := time.Since(start)
		fmt.Fprintf(os.Stderr, "Executed %d instructions in %v (%.3f MHz), %d gas used.\n",
			e.InstructionCount(), delta,
			float64(e.InstructionCount())/float64(delta)*float64(time.Second)/1e6,
			e.Gas.Used())
	}
	if dump {
		if derr := dumpStack(e, os.Stdout); derr != nil {
			err = derr
			return
		}
	}
	if e.ExitCode() != 0 {
		os.Exit(e.ExitCode())
	}
}
