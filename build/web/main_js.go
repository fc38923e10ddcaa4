//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/gosuda/dndlang"
	druntime "github.com/gosuda/dndlang/runtime"
)

type runResult struct {
	Outputs   []druntime.Output  `json:"outputs"`
	Error     string             `json:"error,omitempty"`
	ErrorKind druntime.ErrorKind `json:"error_kind,omitempty"`
}

// streamOutput forwards each output to window.dndlangOutput when the page
// defines it.
func streamOutput(out druntime.Output) {
	fn := js.Global().Get("dndlangOutput")
	if fn.Type() != js.TypeFunction {
		return
	}
	fn.Invoke(out.Text, out.NewLine)
}

func runProgram(this js.Value, args []js.Value) any {
	result := runResult{Outputs: nil}
	if len(args) < 1 || strings.TrimSpace(args[0].String()) == "" {
		result.Error = "runProgram requires program source"
		b, _ := json.Marshal(result)
		return string(b)
	}

	vm, err := dndlang.Compile(strings.NewReader(args[0].String()))
	if err != nil {
		result.Error = fmt.Sprintf("compile: %v", err)
		result.ErrorKind = druntime.KindOf(err)
		b, _ := json.Marshal(result)
		return string(b)
	}
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		if seed := int64(args[1].Int()); seed != 0 {
			vm.SetSeed(seed)
		}
	}
	vm.SetOutputHook(streamOutput)

	out, err := vm.Run()
	result.Outputs = out
	if err != nil {
		result.Error = fmt.Sprintf("runtime: %v", err)
		result.ErrorKind = druntime.KindOf(err)
	}

	b, _ := json.Marshal(result)
	return string(b)
}

func main() {
	js.Global().Set("dndlangRun", js.FuncOf(runProgram))
	select {}
}
