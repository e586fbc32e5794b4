// Command celval is the conformance harness binary: a stdin/stdout
// base64 line-pipe server (spec.md §6.2) plus a bench command that
// exercises C1–C8 together for manual smoke-testing. The lexer/parser,
// checker, and evaluator are out of scope (spec.md §1) — this binary
// wires the plumbing around them, not the stages themselves.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/oxhq/celval/internal/activation"
	"github.com/oxhq/celval/internal/config"
	"github.com/oxhq/celval/internal/factory"
	"github.com/oxhq/celval/internal/harness"
	"github.com/oxhq/celval/internal/mem"
	"github.com/oxhq/celval/internal/reflect"
	"github.com/oxhq/celval/internal/structbridge"
	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

func newValueFactory(cfg *config.Config) *factory.ValueFactory {
	var mgr mem.Manager
	switch cfg.MemDiscipline {
	case config.MemDisciplinePool:
		mgr = mem.NewArenaManager(cfg.ArenaChunkBytes)
	default:
		mgr = mem.NewRCManager()
	}
	return factory.NewValueFactory(mgr)
}

func newPipeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pipe",
		Short: "run the stdin/stdout base64 line-pipe protocol",
		Long: "Reads command/request line pairs from stdin and writes base64 " +
			"responses to stdout until an empty command line or EOF. Only " +
			"`ping` is answered directly; `parse`, `check`, and `eval` are " +
			"external collaborators and report unimplemented.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, err := harness.OpenStore(cfg.RunLogPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "celval: run-log unavailable: %v\n", err)
				os.Exit(harness.ExitStartupFailure)
			}
			defer store.Close()

			p := harness.NewPipe(os.Stdin, os.Stdout)
			start := time.Now()
			p.OnCommand(func(command, outcome string, detail map[string]any) {
				store.Record(command, outcome, time.Since(start), detail)
				start = time.Now()
			})

			os.Exit(p.Run())
			return nil
		},
	}
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "construct values through the real factories and bridges, and print them",
		Long:  "Exercises C1–C8 end to end: type/value factories, the struct bridge, reflection, and activation — for manual smoke-testing, not a performance benchmark.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			runBench(cfg)
			return nil
		},
	}
}

func runBench(cfg *config.Config) {
	vf := newValueFactory(cfg)

	list := vf.ListBuilder(types.Int())
	for _, n := range []int64{1, 2, 3} {
		if err := list.Add(value.Int(n)); err != nil {
			panic(err)
		}
	}
	listVal, err := list.Build()
	if err != nil {
		panic(err)
	}
	printValue("list<int>", listVal)

	m := vf.MapBuilder(types.String(), types.Dyn())
	if err := m.Put(value.NewUncheckedString("answer"), value.Int(42)); err != nil {
		panic(err)
	}
	mapVal, err := m.Build()
	if err != nil {
		panic(err)
	}
	printValue("map<string,dyn>", mapVal)

	schema := reflect.NewStaticSchema()
	personType := vf.Struct("celval.bench.Person")
	_ = schema.RegisterType("celval.bench.Person", personType)
	_ = schema.RegisterField("celval.bench.Person", reflect.FieldInfo{Name: "name", Number: 1, Type: types.String()})
	_ = schema.RegisterField("celval.bench.Person", reflect.FieldInfo{Name: "age", Number: 2, Type: types.Int()})

	sb := structbridge.NewMapStructBuilder("celval.bench.Person", personType, schema)
	_ = sb.SetField("name", value.NewUncheckedString("ada"))
	_ = sb.SetField("age", value.Int(36))
	personVal, err := sb.Build()
	if err != nil {
		panic(err)
	}
	printValue("struct", personVal)

	act := activation.NewMap()
	act.BindVariable("x", value.Int(7))
	if v, ok := act.FindVariable("x"); ok {
		printValue("activation: x", v)
	}

	dur, err := vf.NewDuration(90, 0)
	if err != nil {
		panic(err)
	}
	printValue("duration", dur)

	before, err := vf.NewDuration(90, 0)
	if err != nil {
		panic(err)
	}
	after, err := vf.NewDuration(120, 0)
	if err != nil {
		panic(err)
	}
	if diff := debugStringDiff(before, after); diff != "" {
		fmt.Print(diff)
	}
}

// debugStringDiff renders a unified diff between two values' canonical
// debug strings, for spotting what a mutation actually changed at a
// glance during manual smoke-testing.
func debugStringDiff(before, after value.Value) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before.DebugString()),
		B:        difflib.SplitLines(after.DebugString()),
		FromFile: "before",
		ToFile:   "after",
		Context:  0,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return ""
	}
	return text
}

func printValue(label string, v value.Value) {
	size := v.SerializedSize()
	fmt.Printf("%-20s %-40s (wire size: %d bytes)\n", label, v.DebugString(), size)
}

func main() {
	root := &cobra.Command{
		Use:   "celval",
		Short: "celval conformance harness",
		Long:  "celval exposes the CEL runtime value/type core through a stdin/stdout pipe protocol, plus a bench command for manual smoke-testing.",
	}
	root.AddCommand(newPipeCmd(), newBenchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
