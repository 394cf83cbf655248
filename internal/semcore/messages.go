package semcore

// Canonical diagnostic message texts. Compiler diagnostics quote these
// verbatim and the emitter bakes them verbatim into runtime panics; they
// must never be duplicated as ad hoc literals elsewhere.
const (
	MsgStringIndexOutOfRange = "IndexError: string index out of range"
	MsgSliceStepZero         = "ValueError: slice step cannot be zero"
	MsgDivisionByZero        = "ZeroDivisionError: division by zero"
	MsgModuloByZero          = "ZeroDivisionError: integer modulo by zero"
	MsgBadIntLiteral         = "ValueError: invalid literal for int()"
	MsgBadFloatLiteral       = "ValueError: invalid literal for float()"
)
