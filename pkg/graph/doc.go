// Package graph defines the design graph used to describe a cabinet's
// physical parts for the 3D preview. The design graph is an immutable DAG
// of boards, dowels, transforms and groups, measured in millimeters.
package graph
