package render

import "log/slog"

// FrameStats counts what happened to the geometry of one frame.
type FrameStats struct {
	// Coarse mesh culling
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int

	Vertices     int // Vertices transformed
	Triangles    int // Triangles resolved from index buffers
	Degenerate   int // Strip triangles with a repeated index
	OutOfFrustum int // Triangles with a vertex outside the NDC volume
	BackFacing   int // Triangles with zero or negative screen area
	Drawn        int // Triangles handed to the scan converter
	Pixels       int // Pixels that passed the depth test
}

func (s *FrameStats) merge(o FrameStats) {
	s.MeshesTested += o.MeshesTested
	s.MeshesCulled += o.MeshesCulled
	s.MeshesDrawn += o.MeshesDrawn
	s.Vertices += o.Vertices
	s.Triangles += o.Triangles
	s.Degenerate += o.Degenerate
	s.OutOfFrustum += o.OutOfFrustum
	s.BackFacing += o.BackFacing
	s.Drawn += o.Drawn
	s.Pixels += o.Pixels
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("meshes", s.MeshesDrawn),
		slog.Int("meshes_culled", s.MeshesCulled),
		slog.Int("triangles", s.Triangles),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("out_of_frustum", s.OutOfFrustum),
		slog.Int("back_facing", s.BackFacing),
		slog.Int("drawn", s.Drawn),
		slog.Int("pixels", s.Pixels),
	)
}
