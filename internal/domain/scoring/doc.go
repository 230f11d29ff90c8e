// Package scoring enriches broadcast events, settles predictions and compiles
// cumulative league scores from a season snapshot. Everything here is a pure
// function of its inputs.
package scoring
