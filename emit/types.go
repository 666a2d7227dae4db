// Package emit renders a compiled ir.Function (or a whole ir.Module) as
// C source, following spec.md §4.6/§6's emitted-source layout:
//
//	[include guard if header]
//	#include <stdlib.h>
//	#include <stdio.h>
//	#include <math.h>
//	#include <immintrin.h>   // when SIMD used
//
//	// --- data section ---
//	// create weight buffers
//	<T> <name>[] = { <literals> };
//	// create input buffers
//	<T>* <name> = (<T>*) malloc(<bytes>);
//	// create output buffers
//	<T>* <name> = (<T>*) malloc(<bytes>);
//	// create temporary variable buffers
//	<T>* <name> = (<T>*) malloc(<bytes>);
//
//	// --- functions ---
//	void <name> (<T>* <arg>, …) {
//	  <body>
//	}
//
// grounded on the teacher pack's own plain io.Writer-plus-fmt.Fprintf
// emitter shape (see e.g. other_examples' mlir/llvm-style printers)
// rather than text/template, since every node-emission rule here is a
// small, context-free switch rather than a templated document.
package emit

import (
	"fmt"

	"github.com/cinn-go/cinn/ir/irkind"
)

// typeAlias is the C identifier spec.md §6 mandates for each primitive
// kind.
func typeAlias(k irkind.Kind) string {
	switch k {
	case irkind.Boolean:
		return "cinn_boolean_t"
	case irkind.Int8:
		return "cinn_int8_t"
	case irkind.Int16:
		return "cinn_int16_t"
	case irkind.Int32:
		return "cinn_int32_t"
	case irkind.Int64:
		return "cinn_int64_t"
	case irkind.Float32:
		return "cinn_float32_t"
	case irkind.Float64:
		return "cinn_float64_t"
	default:
		return fmt.Sprintf("/* unsupported kind %s */ void", k)
	}
}
