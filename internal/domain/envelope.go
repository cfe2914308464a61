package domain

// Envelope is the uniform wrapper of every backend response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Reason returns the most specific failure text of the envelope,
// falling back to def when the backend sent none.
func (e *Envelope[T]) Reason(def string) string {
	switch {
	case e == nil:
		return def
	case e.Error != "":
		return e.Error
	case e.Message != "":
		return e.Message
	default:
		return def
	}
}
