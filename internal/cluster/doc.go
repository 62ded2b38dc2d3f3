// Package cluster groups language markers into grid cells for the globe.
//
// Grouping works in plain latitude/longitude degrees: each marker is snapped
// to the low corner of a square cell, and markers sharing a cell become one
// cluster positioned at their mean coordinate. The cell size follows the
// camera altitude through three zoom tiers:
//
//	altitude > 2.5   global   30 degrees
//	altitude > 1.0   medium   10 degrees
//	otherwise        close    no clustering
//
// Everything here is a pure function of its inputs.
package cluster
