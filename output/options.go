package output

type Options struct {
	PrintRequestHeader  bool
	PrintRequestBody    bool
	PrintResponseHeader bool
	PrintResponseBody   bool

	EnableFormat bool
	EnableColor  bool

	// Pick is a gjson path narrowing printed JSON bodies.
	Pick      string
	Overwrite bool
}
