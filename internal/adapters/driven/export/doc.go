// Package export writes analysis results as JSON or CSV.
//
// JSON output follows the result types' own encoding: undefined imaged
// volumes are null and particles without set information have a null
// set list. CSV output is one row per set (or per particle) with a file
// column, so results from several files share one table. Undefined
// volumes are written as NaN.
package export
