// Package services implements the driving port interfaces.
// Services contain the core classification logic and orchestrate
// calls to driven ports (adapters).
//
// The classifier, volume estimator and membership lookup are pure Go.
// The analysis service adds tracing spans and optional metrics around them.
package services
