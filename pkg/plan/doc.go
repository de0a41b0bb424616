// Package plan orders a resolved dependency graph into install groups.
//
// An [InstallPlan] is a sequence of groups. Group 0 holds every package
// without dependencies; each later group holds the packages whose
// dependencies all sit in earlier groups. Packages in one group do not
// depend on each other and may be installed concurrently; groups are
// installed strictly one after another.
//
// Within a group, packages keep the graph's discovery order, so the same
// graph always yields the same plan.
//
// [ToDOT] and [RenderSVG] draw the graph with one cluster per group for
// `beer plan --format dot|svg`.
package plan
