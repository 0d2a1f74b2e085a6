package cpu

import (
	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/parallel"
)

// colorScaleKernel paints one element per pixel. Pixels past the end of the
// block stay transparent.
func colorScaleKernel(e *Executor, p observer.Params, data []float32) {
	n := min(p.Size.Pixels(), len(data))
	parallel.For(n, func(i int) {
		e.tex.SetIndex(i, scaleColor(data[i], p.Min, p.Max, p.Scale))
	}, e.parallel)
}

// vectorKernel paints one vector of VectorElements components per pixel.
// The first two components give the direction; a single-component vector
// points along the x axis.
func vectorKernel(e *Executor, p observer.Params, data []float32) {
	elems := max(p.VectorElements, 1)
	n := min(p.Size.Pixels(), len(data)/elems)
	parallel.For(n, func(i int) {
		x := data[i*elems]
		var y float32
		if elems > 1 {
			y = data[i*elems+1]
		}
		e.tex.SetIndex(i, vectorColor(x, y, p.Max))
	}, e.parallel)
}

// rgbKernel reads the block as three consecutive planes (red, green, blue)
// and combines them into one pixel.
func rgbKernel(e *Executor, p observer.Params, data []float32) {
	plane := len(data) / 3
	n := min(p.Size.Pixels(), plane)
	parallel.For(n, func(i int) {
		e.tex.SetIndex(i, rgbColor(data[i], data[i+plane], data[i+2*plane]))
	}, e.parallel)
}

// tiledColorScaleKernel runs one work item per element. Tiles are separated
// by a one-pixel gutter that is never painted.
func tiledColorScaleKernel(e *Executor, p observer.Params, data []float32) {
	tw, th, tpr := p.Tile.TileWidth, p.Tile.TileHeight, p.Tile.TilesPerRow
	if tw <= 0 || th <= 0 || tpr <= 0 {
		return
	}
	area := tw * th
	n := min(p.ElementCount, len(data))
	parallel.For(n, func(i int) {
		tile, within := i/area, i%area
		x := (tile%tpr)*(tw+1) + within%tw
		y := (tile/tpr)*(th+1) + within/tw
		e.tex.Set(x, y, scaleColor(data[i], p.Min, p.Max, p.Scale))
	}, e.parallel)
}

// tiledRGBKernel runs one work item per pixel. Every three consecutive tiles
// form the red, green and blue planes of one image; images are laid out
// TilesPerRow to a row without gutters.
func tiledRGBKernel(e *Executor, p observer.Params, data []float32) {
	tw, th, tpr := p.Tile.TileWidth, p.Tile.TileHeight, p.Tile.TilesPerRow
	if tw <= 0 || th <= 0 || tpr <= 0 {
		return
	}
	area := tw * th
	parallel.ForGrid(p.Size.Width, p.Size.Height, func(px, py int) {
		img := (py/th)*tpr + px/tw
		offset := (py%th)*tw + px%tw
		r := (3*img)*area + offset
		b := r + 2*area
		if b >= len(data) {
			return
		}
		e.tex.Set(px, py, rgbColor(data[r], data[r+area], data[b]))
	}, e.parallel)
}
