// Package logs reads rollcall's daily log files for the `rollcall logs`
// command. It locates the newest file, returns its last lines and follows it
// as new lines are appended.
package logs
