// Package scene reads layout scenes from TOML or JSON and turns them into
// widget trees and motion setups.
//
// # Documents
//
// A scene names a container, its widgets, guidelines and barriers, and
// an optional transition:
//
//	name = "card"
//
//	[container]
//	width = 400
//	height = "wrap"
//
//	[[widget]]
//	id = "title"
//	width = "match"
//	height = 24
//	left = "parent.left"
//	right = { to = "parent.right", margin = 16 }
//	top = "parent.top"
//
//	[[guideline]]
//	id = "mid"
//	orientation = "vertical"
//	percent = 0.5
//
// Constraints are written "id.side", with "parent" naming the container.
// Dimensions are sizes, "wrap", "match", "match_wrap", "parent" or
// percentages; see [Dim].
//
// # Motion
//
// The [motion] table describes the end state as overlays on the start
// widgets plus keyframes:
//
//	[motion]
//	duration = "300ms"
//	easing = "standard"
//
//	[[motion.end]]
//	id = "title"
//	top = "none"
//	bottom = "parent.bottom"
//
//	[[motion.key]]
//	type = "position"
//	target = "title"
//	frame = 50
//	percent_x = 0.25
//
// [Document.Build] and [Document.BuildEnd] return the two widget trees.
// Once both are solved, [Document.Transition] sets up one motion per
// widget and [Transition.Apply] moves them to a progress.
//
// # Validation
//
// [Read] rejects unknown keys, unknown ids and anything the builders
// cannot apply, with codes from the errors package. Anonymous widgets get
// stable generated ids.
package scene
