package utils

// ToPointer returns a pointer to the given value.
func ToPointer[T any](v T) *T {
	return &v
}

// GoSafe runs fn in a new goroutine, swallowing panics so one misbehaving
// task cannot take down the whole process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			_ = recover()
		}()
		fn()
	}()
}
