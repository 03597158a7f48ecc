// Package icons builds an SVG sprite and a TypeScript name manifest from a
// directory of individual icon files.
//
// The pipeline is linear: Discover lists the input files, ToSymbol rewrites
// each file's root <svg> into a <symbol>, RenderSprite and RenderManifest
// assemble the two artifacts, and WriteIfChanged persists them only when
// their bytes differ from what is already on disk. Collector ties the steps
// together and skips regeneration entirely when the existing outputs
// already mention every icon.
package icons
