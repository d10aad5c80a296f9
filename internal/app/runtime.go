package app

import (
	"os"
	"strconv"
	"sync/atomic"
)

// testModeEnv makes cmd/console exit before touching Redis or the network.
const testModeEnv = "CONSOLE_TEST_MODE"

const (
	modeUnknown int32 = iota
	modeLive
	modeTest
)

var runtimeMode atomic.Int32

// InTestMode reports whether the application should skip runtime side effects.
// The environment is read on first use only.
func InTestMode() bool {
	switch runtimeMode.Load() {
	case modeTest:
		return true
	case modeLive:
		return false
	}
	return RefreshTestMode()
}

// RefreshTestMode rereads CONSOLE_TEST_MODE, accepting any strconv.ParseBool
// spelling, and returns the new value.
func RefreshTestMode() bool {
	on, _ := strconv.ParseBool(os.Getenv(testModeEnv))
	mode := modeLive
	if on {
		mode = modeTest
	}
	runtimeMode.Store(mode)
	return on
}
