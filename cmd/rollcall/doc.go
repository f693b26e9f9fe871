// Command rollcall reconciles class rosters against meeting attendance
// exports.
//
// A typical session:
//
//	rollcall reconcile --roster roster.csv --log meeting.csv --date 2026-03-14 --module 3
//	rollcall review show 2026-03-14-m3
//	rollcall review match 2026-03-14-m3 15145550003 "Dad's Galaxy"
//	rollcall review save 2026-03-14-m3
//
// Listing, review and status commands accept --json for machine-readable
// output. `rollcall logs -f` follows the daily log file.
package main
