// Package transform holds the per-file content transforms applied before a
// file enters the dependency graph: the process option (template rendering
// or a custom function) and banner stripping.
package transform

import "fmt"

// ProcessKind tags the active variant of a Process.
type ProcessKind int

const (
	// ProcessNone leaves content untouched.
	ProcessNone ProcessKind = iota

	// ProcessTemplate renders each file as a template with Data.
	ProcessTemplate

	// ProcessFunc runs a caller-supplied function on each file.
	ProcessFunc
)

func (k ProcessKind) String() string {
	switch k {
	case ProcessNone:
		return "none"
	case ProcessTemplate:
		return "template"
	case ProcessFunc:
		return "func"
	default:
		return "unknown"
	}
}

// Func transforms the content of the file at path.
type Func func(content, path string) (string, error)

// Process is the tagged variant behind the "process" option. The zero value
// is ProcessNone.
type Process struct {
	kind ProcessKind
	fn   Func
	data map[string]any
}

// NoProcess returns the variant that leaves content untouched.
func NoProcess() Process {
	return Process{}
}

// TemplateProcess renders every file as a template with data as context.
func TemplateProcess(data map[string]any) Process {
	return Process{kind: ProcessTemplate, data: data}
}

// FuncProcess runs fn on every file.
func FuncProcess(fn Func) Process {
	if fn == nil {
		return Process{}
	}
	return Process{kind: ProcessFunc, fn: fn}
}

// Kind returns the active variant.
func (p Process) Kind() ProcessKind {
	return p.kind
}

// Active reports whether the process changes content.
func (p Process) Active() bool {
	return p.kind != ProcessNone
}

// Data returns the template context of a ProcessTemplate variant.
func (p Process) Data() map[string]any {
	return p.data
}

// Apply transforms content read from path according to the variant.
func (p Process) Apply(content, path string) (string, error) {
	switch p.kind {
	case ProcessNone:
		return content, nil
	case ProcessTemplate:
		out, err := Render(path, content, p.data)
		if err != nil {
			return "", fmt.Errorf("process %s: %w", path, err)
		}
		return out, nil
	case ProcessFunc:
		out, err := p.fn(content, path)
		if err != nil {
			return "", fmt.Errorf("process %s: %w", path, err)
		}
		return out, nil
	default:
		return "", fmt.Errorf("process %s: unknown process kind %d", path, p.kind)
	}
}
