package emitter

import _ "embed"

// runtimeSource is the C++ runtime prologue pasted verbatim ahead of the
// translated program.
//
//go:embed runtime/runtime.cpp
var runtimeSource string
