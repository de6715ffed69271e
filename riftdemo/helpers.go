package riftdemo

import (
	"fmt"
	"runtime"
)

// Unwind collects cleanups and runs them in reverse order.
type Unwind []func()

func (u *Unwind) Add(cleanup func()) {
	*u = append(*u, cleanup)
}

func (u *Unwind) Unwind() {
	for i := len(*u) - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = nil
}

// Discard forgets the cleanups once ownership has passed elsewhere.
func (u *Unwind) Discard() {
	*u = nil
}

func checkErrStack(err *error) {
	if v := recover(); v != nil {
		stack := make([]byte, 32*1024)
		n := runtime.Stack(stack, false)
		switch event := v.(type) {
		case error:
			*err = fmt.Errorf("%s\n%s", event.Error(), stack[:n])
		default:
			*err = fmt.Errorf("%+v %s", v, stack[:n])
		}
	}
}
