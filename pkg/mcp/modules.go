package mcp

// This file contains blank imports for registered local toolsets. The blank
// import triggers the init() function in each toolset package, which
// registers the toolset with the global registry via RegisterToolset.
//
// Catalog functions need no registration here; they are resolved through the
// toolkit at server construction. Add imports for custom toolsets below.
