package generators

import "fmt"

// GeneratorError is a definition a generator cannot render.
type GeneratorError struct {
	Generator string
	Type      string
	Msg       string
	Err       error
}

func (e *GeneratorError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Type == "" {
		return fmt.Sprintf("generator %s: %s", e.Generator, msg)
	}
	return fmt.Sprintf("generator %s: type %s: %s", e.Generator, e.Type, msg)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

func genErrorf(gen, typ, format string, args ...any) *GeneratorError {
	return &GeneratorError{Generator: gen, Type: typ, Msg: fmt.Sprintf(format, args...)}
}
