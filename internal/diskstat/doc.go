// Package diskstat answers the simple OS telemetry questions the status
// command asks: how full is the filesystem behind the library, and how much
// memory is this process using.
package diskstat
