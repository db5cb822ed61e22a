// Package jsonfile provides particle data from JSON documents produced by
// a CYZ to JSON converter.
//
// The document carries an "instrument" object with measurement settings
// and results, and a "particles" array. Each particle lists per-channel
// parameters; every numeric parameter becomes a feature keyed
// "<channel description>.<parameter>", for example "FWS.total".
// Pulse shapes and images are ignored.
package jsonfile
