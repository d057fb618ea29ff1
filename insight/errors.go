package insight

// GeneratorError marks a task-generator failure (the call raised or its
// output was structurally malformed). Fatal for the run; never retried.
type GeneratorError struct {
	Err error
}

func (e *GeneratorError) Error() string {
	return "task generator: " + e.Err.Error()
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

// NarratorError marks a narrator failure. Fatal for the run: no partial
// answer is synthesized from the envelope.
type NarratorError struct {
	Err error
}

func (e *NarratorError) Error() string {
	return "narrator: " + e.Err.Error()
}

func (e *NarratorError) Unwrap() error {
	return e.Err
}
