// Package app is the Venus sample application: a handful of services wired
// by the container and exposed over HTTP.
package app

import "time"

// Runner performs one operation.
type Runner interface {
	Run() Operation
}

// Counter is a process-wide monotonically increasing counter.
type Counter interface {
	Next() int64
	Current() int64
}

// Clock tells the time.
type Clock interface {
	Now() time.Time
}

// Operation is the outcome of one Runner.Run.
type Operation struct {
	RunnerID string    `json:"runner_id"`
	At       time.Time `json:"at"`
}
