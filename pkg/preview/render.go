package preview

import (
	"fmt"

	"github.com/chazu/cabinetcut/pkg/kernel"
	"github.com/chazu/cabinetcut/pkg/tessellate"
)

// Render builds the preview graph and meshes it with k.
func Render(p Params, k kernel.Kernel) ([]*kernel.Mesh, error) {
	g, err := Build(p)
	if err != nil {
		return nil, err
	}
	meshes, err := tessellate.Tessellate(g, k)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return meshes, nil
}
