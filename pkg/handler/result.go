package handler

// Result type
type Result string

const (
	// ResultOK the payload was served
	ResultOK Result = "ok"
	// ResultNotFound the requested path is not the served one
	ResultNotFound Result = "not_found"
	// ResultReadFailed the source could not be read
	ResultReadFailed Result = "read_failed"
	// ResultNotImplemented the method is neither GET nor HEAD
	ResultNotImplemented Result = "not_implemented"
)
