package main

import (
	"fmt"
	"io"

	scmath "github.com/Faultbox/scswf/pkg/math"
	"github.com/Faultbox/scswf/pkg/swf"
)

const noIndex = 0xFFFF

// dumpClip prints a clip's children and frames. Children must be resolved first.
func dumpClip(w io.Writer, f *swf.SupercellSWF, clip *swf.MovieClipOriginal) {
	name := clip.ExportName()
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(w, "%s %s  tag=%s fps=%d frames=%d bank=%d\n",
		clip, name, clip.Tag(), clip.FPS, len(clip.Frames), clip.MatrixBankIndex)

	if clip.ScalingGrid != nil {
		g := clip.ScalingGrid
		fmt.Fprintf(w, "scaling grid: %.2f,%.2f %.2fx%.2f\n", g.Left, g.Top, g.Width(), g.Height())
	}

	fmt.Fprintln(w, "children:")
	for i, child := range clip.Children() {
		fmt.Fprintf(w, "  [%d] %s(%d) blend=%d", i, child.Kind(), child.ID(), clip.ChildrenBlends[i])
		if n := clip.ChildrenNames[i]; n.Valid {
			fmt.Fprintf(w, " name=%q", n.Name)
		}
		fmt.Fprintln(w)
	}

	bank := f.MatrixBank(int(clip.MatrixBankIndex))
	children := clip.Children()

	for i, frame := range clip.Frames {
		fmt.Fprintf(w, "frame %d", i)
		if frame.HasLabel {
			fmt.Fprintf(w, " %q", frame.Label)
		}
		fmt.Fprintln(w)

		for _, e := range clip.Elements(i) {
			fmt.Fprintf(w, "  child=%d", e.ChildIndex)

			var matrix *swf.Matrix2x3
			if e.MatrixIndex != noIndex && bank != nil {
				matrix = bank.Matrix(int(e.MatrixIndex))
			}
			if matrix != nil {
				fmt.Fprintf(w, " matrix=[%.3f %.3f %.3f %.3f %.2f %.2f]",
					matrix.A, matrix.B, matrix.C, matrix.D, matrix.X, matrix.Y)
			}
			if e.ColorTransformIndex != noIndex && bank != nil {
				if ct := bank.ColorTransform(int(e.ColorTransformIndex)); ct != nil {
					fmt.Fprintf(w, " alpha=%d", ct.Alpha)
				}
			}

			if int(e.ChildIndex) < len(children) {
				if shape, ok := children[e.ChildIndex].(*swf.ShapeOriginal); ok {
					r := placedBounds(shape, matrix)
					fmt.Fprintf(w, " bounds=(%.2f,%.2f)-(%.2f,%.2f)", r.Left, r.Top, r.Right, r.Bottom)
				}
			}
			fmt.Fprintln(w)
		}
	}
}

// placedBounds returns the shape bounds after the placement matrix, if any.
func placedBounds(shape *swf.ShapeOriginal, matrix *swf.Matrix2x3) scmath.Rect {
	r := shape.Bounds()
	if matrix == nil {
		return r
	}
	corners := []scmath.Vec2{
		{X: r.Left, Y: r.Top},
		{X: r.Right, Y: r.Top},
		{X: r.Right, Y: r.Bottom},
		{X: r.Left, Y: r.Bottom},
	}
	for i, c := range corners {
		corners[i] = matrix.Apply(c)
	}
	return scmath.Bounds(corners)
}
