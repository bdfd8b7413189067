package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tinyedit/internal/logging"
)

// unsafeGlobals are removed from every state: they load code from disk or
// from strings outside the timeout-guarded entry points.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
}

// openSafeLibraries opens the libraries scripts may use. io, os, debug,
// channel, coroutine and package are not opened.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	L.SetTop(0)
}

// installSandbox strips unsafe globals and routes print to logger.
func installSandbox(L *lua.LState, logger *logging.Logger) {
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}
