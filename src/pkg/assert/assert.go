package assert

import "fmt"

func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

func NoError(err error) {
	if err != nil {
		panic(fmt.Sprintf("unexpected error: %+v", err))
	}
}
