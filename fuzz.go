package nrbf

// Fuzz is the go-fuzz entry point: it feeds arbitrary bytes to Parse and
// reports whether they were accepted as a well-formed NRBF stream.
func Fuzz(data []byte) int {
	if _, err := Parse(data); err != nil {
		return 0
	}
	return 1
}
