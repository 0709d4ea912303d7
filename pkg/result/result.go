// Package result holds the uniform outcome shape returned by the
// orchestration services. Storage-layer errors never cross a service
// boundary raw; they get converted into a Result so handlers only have
// to branch on Success.
package result

// FieldError pins a failure to a single field or cart line so callers
// can report exactly which input was bad.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result[T any] struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    T            `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func OkMsg[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

// Fail builds a business-rule failure carrying a human readable message.
func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// FailFields builds a failure with per-field problems attached.
func FailFields[T any](message string, errs []FieldError) Result[T] {
	return Result[T]{Success: false, Message: message, Errors: errs}
}
