// Package lua runs editor hook scripts in a sandboxed gopher-lua state.
//
// A script defines any of the global functions
//
//	on_mount(id)
//	on_gutter_click(number)
//	on_abort()
//
// and may call into the tinyedit module:
//
//	tinyedit.log(msg)      -- write to the application log
//	tinyedit.value()       -- text of the editor the hook runs for
//	tinyedit.id()          -- id of that editor
//	tinyedit.line_count()  -- number of lines in that editor
//
// Only the base, table, string and math libraries are available. Every
// call into Lua runs under a timeout.
package lua
