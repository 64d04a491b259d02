// Package watch runs the single-instance polling loop that drains the
// processing queue.
package watch
