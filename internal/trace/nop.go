package trace

// nopTracer discards all events.
type nopTracer struct{}

func (nopTracer) Emit(*Event) {}

func (nopTracer) Flush() error { return nil }

func (nopTracer) Close() error { return nil }

func (nopTracer) Level() Level { return LevelOff }

func (nopTracer) Enabled() bool { return false }

// Nop is the zero-overhead tracer used when tracing is disabled.
var Nop Tracer = nopTracer{}
