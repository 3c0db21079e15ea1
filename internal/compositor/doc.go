// Package compositor derives the draw list for one render tick.
//
// Everything here is a pure function of its inputs: the items in store
// order, the selection, and a playhead reading. The engine calls Compose
// after every clock tick and every store mutation and hands the resulting
// Frame to the presentation layer.
package compositor
