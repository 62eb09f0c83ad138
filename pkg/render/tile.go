package render

import (
	"golang.org/x/sync/errgroup"
)

// bandsPerWorker splits the screen finer than the worker count so a band
// full of large triangles does not stall the frame.
const bandsPerWorker = 4

// preparedTriangle is a triangle that passed setup, queued for the
// tiled scan.
type preparedTriangle struct {
	tri      [3]TransformedVertex
	area     float64
	box      bbox
	material *Material
}

// queue copies the triangle in c onto the prepared list.
func (r *Renderer) queue(c *Context, mat *Material) {
	r.prepared = append(r.prepared, preparedTriangle{
		tri:      c.tri,
		area:     c.area,
		box:      c.box,
		material: mat,
	})
}

// rasterizeBands scans the prepared list over horizontal bands. Every
// band is owned by one goroutine with its own Context and walks the list
// in submission order, so each pixel sees the same sequence of depth
// tests as the serial path.
func (r *Renderer) rasterizeBands(src TextureSource) {
	if len(r.prepared) == 0 {
		return
	}

	count := min(r.height, r.opts.Workers*bandsPerWorker)
	bandHeight := (r.height + count - 1) / count
	count = (r.height + bandHeight - 1) / bandHeight

	if cap(r.bands) < count {
		r.bands = make([]Context, count)
	}
	r.bands = r.bands[:count]

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for b := range count {
		lo := b * bandHeight
		hi := min(lo+bandHeight, r.height)
		ctx := &r.bands[b]
		ctx.stats = FrameStats{}

		g.Go(func() error {
			for i := range r.prepared {
				p := &r.prepared[i]
				if p.box.maxY <= lo || p.box.minY >= hi {
					continue
				}
				ctx.tri = p.tri
				ctx.area = p.area
				ctx.box = p.box
				ctx.stats.Pixels += r.rasterize(ctx, p.material, src, lo, hi)
			}
			return nil
		})
	}
	_ = g.Wait() // bands never fail

	for i := range r.bands {
		r.stats.merge(r.bands[i].stats)
	}
}
