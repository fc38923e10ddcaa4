package mobile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosuda/dndlang"
	druntime "github.com/gosuda/dndlang/runtime"
)

type runResult struct {
	Outputs   []druntime.Output  `json:"outputs"`
	Error     string             `json:"error,omitempty"`
	ErrorKind druntime.ErrorKind `json:"error_kind,omitempty"`
}

// Run executes program source and returns a JSON result. A seed of 0 rolls
// dice from a random seed.
func Run(source string, seed int64) string {
	result := runResult{Outputs: nil}

	if strings.TrimSpace(source) == "" {
		result.Error = "no source provided"
		b, _ := json.Marshal(result)
		return string(b)
	}

	vm, err := dndlang.Compile(strings.NewReader(source))
	if err != nil {
		result.Error = fmt.Sprintf("compile: %v", err)
		result.ErrorKind = druntime.KindOf(err)
		b, _ := json.Marshal(result)
		return string(b)
	}
	if seed != 0 {
		vm.SetSeed(seed)
	}

	out, err := vm.Run()
	result.Outputs = out
	if err != nil {
		result.Error = fmt.Sprintf("runtime: %v", err)
		result.ErrorKind = druntime.KindOf(err)
	}

	b, _ := json.Marshal(result)
	return string(b)
}
