package render

import (
	"github.com/inamate/chartview/internal/graphic"
)

// HitTestResult contains information about a hit test.
type HitTestResult struct {
	ObjectID    string  `json:"objectId"`
	SeriesIndex int     `json:"seriesIndex"`
	DataIndex   int     `json:"dataIndex"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`

	// Element is the hit element; labels resolve to their host.
	Element *graphic.Node `json:"-"`
}

// HitTest returns the topmost non-silent element under (x, y). Aggregated
// large paths report the data index of the bar under the pointer.
func HitTest(root *graphic.Node, st Styler, x, y float64) (HitTestResult, bool) {
	if root == nil {
		return HitTestResult{}, false
	}
	list := collect(root, st)
	for i := len(list) - 1; i >= 0; i-- {
		d := list[i]
		if d.silent || !inClips(d.clips, x, y) {
			continue
		}
		lx, ly := d.transform.Invert().TransformPoint(x, y)

		dataIndex := -1
		hit := false
		switch {
		case d.node.Type == graphic.TypeText:
			hit = graphic.TextRect(d.node.Style).Contains(lx, ly)
		default:
			if large, ok := d.node.Shape.(graphic.LargeBarShape); ok {
				dataIndex = large.FindDataIndex(lx, ly)
				hit = dataIndex >= 0
			} else {
				hit = d.node.Shape.Contains(lx, ly)
			}
		}
		if !hit {
			continue
		}

		ref := d.dataRef()
		if dataIndex < 0 {
			dataIndex = ref.Data.DataIndex
		}
		return HitTestResult{
			ObjectID:    ref.ID,
			SeriesIndex: ref.Data.SeriesIndex,
			DataIndex:   dataIndex,
			X:           x,
			Y:           y,
			Element:     ref,
		}, true
	}
	return HitTestResult{}, false
}

func inClips(clips []clipRef, x, y float64) bool {
	for _, c := range clips {
		if c.node.Shape == nil {
			continue
		}
		lx, ly := c.transform.Invert().TransformPoint(x, y)
		if !c.node.Shape.Contains(lx, ly) {
			return false
		}
	}
	return true
}
