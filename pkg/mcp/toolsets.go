package mcp

import (
	"fmt"
	"sync"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/api"
)

var (
	toolsetsMu sync.Mutex
	toolsets   []api.Toolset
)

// RegisterToolset adds a local toolset to the global registry. Typically
// called from a toolset package's init function; see modules.go.
func RegisterToolset(ts api.Toolset) {
	toolsetsMu.Lock()
	defer toolsetsMu.Unlock()
	for _, existing := range toolsets {
		if existing.GetName() == ts.GetName() {
			panic(fmt.Sprintf("toolset %q registered twice", ts.GetName()))
		}
	}
	toolsets = append(toolsets, ts)
}

// RegisteredToolsets returns the toolsets added via RegisterToolset.
func RegisteredToolsets() []api.Toolset {
	toolsetsMu.Lock()
	defer toolsetsMu.Unlock()
	out := make([]api.Toolset, len(toolsets))
	copy(out, toolsets)
	return out
}
