package interpreter

// SetSource updates the interpreter's current "active" source context.
// The REPL calls it per input so runtime errors show the right chunk name
// and caret line.
func (i *Interpreter) SetSource(filename string, source string) {
	i.filename = filename
	i.lines = splitLinesPreserve(source)
}
