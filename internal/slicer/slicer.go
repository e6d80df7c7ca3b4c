// Package slicer cuts a triangle mesh into horizontal layers and builds
// the contours, perimeter shells and infill for each of them.
package slicer

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// LayerPlan places one layer in the stack.
type LayerPlan struct {
	Index     int
	Z         float64 // Bed-relative top of the layer
	SliceZ    float64 // Mesh-space cut height, the middle of the layer
	Thickness float64
}

// PlanLayers divides the mesh height into layers of height h. The final
// layer is thinner when the height is not a multiple of h, so its top
// always equals the mesh height.
func PlanLayers(bounds r3.Box, h float64) []LayerPlan {
	height := bounds.Max.Z - bounds.Min.Z
	if height <= 0 || h <= 0 {
		return nil
	}
	n := int(math.Ceil(height/h - 1e-9))
	plans := make([]LayerPlan, n)
	for i := 0; i < n; i++ {
		lo := float64(i) * h
		hi := float64(i+1) * h
		if i == n-1 {
			hi = height
		}
		plans[i] = LayerPlan{
			Index:     i,
			Z:         hi,
			SliceZ:    bounds.Min.Z + (lo+hi)/2,
			Thickness: hi - lo,
		}
	}
	return plans
}

// Progress counts finished layers. It is safe for concurrent use and a
// nil *Progress ignores updates.
type Progress struct {
	total atomic.Int64
	done  atomic.Int64
}

// Start resets the counter for a run of total layers.
func (p *Progress) Start(total int) {
	if p == nil {
		return
	}
	p.done.Store(0)
	p.total.Store(int64(total))
}

func (p *Progress) finish() {
	if p != nil {
		p.done.Add(1)
	}
}

// Snapshot returns the finished and total layer counts.
func (p *Progress) Snapshot() (done, total int) {
	if p == nil {
		return 0, 0
	}
	return int(p.done.Load()), int(p.total.Load())
}

// Fraction returns progress in [0, 1].
func (p *Progress) Fraction() float64 {
	done, total := p.Snapshot()
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// Slicer turns a mesh into layers using a fixed configuration.
type Slicer struct {
	Config  model.SlicerConfig
	workers int
	logger  *slog.Logger
}

// Option configures a Slicer.
type Option func(*Slicer)

// WithWorkers bounds the number of layers sliced concurrently.
// Values below 1 mean one worker per CPU.
func WithWorkers(n int) Option {
	return func(s *Slicer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger used for layer warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Slicer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Slicer. The configuration is expected to be validated.
func New(cfg model.SlicerConfig, opts ...Option) *Slicer {
	s := &Slicer{
		Config:  cfg,
		workers: runtime.NumCPU(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slice cuts every layer of the mesh. Layers are independent and run on a
// bounded worker pool; the result is ordered by layer index regardless of
// completion order. Cancelling ctx stops scheduling new layers and returns
// the context error.
func (s *Slicer) Slice(ctx context.Context, mesh *model.Mesh, progress *Progress) ([]model.Layer, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	plans := PlanLayers(mesh.Bounds(), s.Config.LayerHeight)
	buckets := bucketTriangles(mesh, plans)
	tol := Tolerance(mesh)

	layers := make([]model.Layer, len(plans))
	progress.Start(len(plans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, plan := range plans {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			layers[i] = s.SliceLayer(mesh, plan, buckets[i], tol)
			progress.finish()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, l := range layers {
		for _, w := range l.Warnings {
			s.logger.Warn("layer warning", "layer", l.Index, "z", l.Z, "warning", w)
		}
	}
	s.logger.Debug("sliced mesh", "layers", len(layers), "triangles", len(mesh.Triangles))
	return layers, nil
}

// SliceLayer builds one layer from the given candidate triangles. A nil
// candidate list means every triangle of the mesh.
func (s *Slicer) SliceLayer(mesh *model.Mesh, plan LayerPlan, tris []int, tol float64) model.Layer {
	var segs []Segment
	if tris == nil {
		segs = IntersectPlane(mesh, plan.SliceZ)
	} else {
		segs = intersectTriangles(mesh, tris, plan.SliceZ)
	}
	contours, warnings := BuildContours(segs, tol)

	layer := model.Layer{
		Index:     plan.Index,
		Z:         plan.Z,
		SliceZ:    plan.SliceZ,
		Thickness: plan.Thickness,
		Contours:  contours,
		Warnings:  warnings,
	}
	if layer.Contours == nil {
		layer.Contours = []model.Contour{}
	}
	layer.Perimeters = Shells(contours, s.Config.NozzleDiameter, s.Config.PerimeterCount)
	layer.Infill = GenerateInfill(contours, s.Config)
	if layer.Infill == nil {
		layer.Infill = []model.InfillPath{}
	}
	return layer
}

// bucketTriangles lists, for each layer, the triangles whose Z span can
// cross its cut plane. A triangle crosses plane z when zmin < z <= zmax.
func bucketTriangles(mesh *model.Mesh, plans []LayerPlan) [][]int {
	buckets := make([][]int, len(plans))
	for i := range buckets {
		buckets[i] = []int{}
	}
	for t, idx := range mesh.Triangles {
		zmin, zmax := math.Inf(1), math.Inf(-1)
		for _, vi := range idx {
			z := mesh.Vertices[vi].Z
			zmin = math.Min(zmin, z)
			zmax = math.Max(zmax, z)
		}
		first := sort.Search(len(plans), func(i int) bool { return plans[i].SliceZ > zmin })
		for i := first; i < len(plans) && plans[i].SliceZ <= zmax; i++ {
			buckets[i] = append(buckets[i], t)
		}
	}
	return buckets
}
