// Package engine exposes the palette operations over image references and
// the latest-wins Picker used for interactive sampling.
package engine
