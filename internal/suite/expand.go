package suite

import (
	"fmt"
	"sort"
)

// BinaryTarget is one expanded entry of the ial test matrix: a compiler
// and precision variant with its own binary directory and test list.
type BinaryTarget struct {
	Compiler  string
	Precision string
	BinDir    string
	Tests     []string
}

// ExpandTests expands the ial.tests.<compiler>.<precision> matrix into
// concrete binary targets. Each variant's binary directory is the base
// bindir qualified with compiler and precision, so variants never share
// staged binaries. Iteration order is sorted on both axes.
func ExpandTests(ial map[string]any) []BinaryTarget {
	bindir, _ := ial["bindir"].(string)
	tests, _ := ial["tests"].(map[string]any)

	var targets []BinaryTarget
	for _, compiler := range sortedAttrKeys(tests) {
		precisions, _ := tests[compiler].(map[string]any)
		for _, precision := range sortedAttrKeys(precisions) {
			targets = append(targets, BinaryTarget{
				Compiler:  compiler,
				Precision: precision,
				BinDir:    fmt.Sprintf("%s_%s_%s", bindir, compiler, precision),
				Tests:     toStringSlice(precisions[precision]),
			})
		}
	}
	return targets
}

func sortedAttrKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
