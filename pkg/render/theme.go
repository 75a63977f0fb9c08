package render

import (
	"image/color"

	"github.com/odvcencio/objgraph/pkg/canvas"
	"github.com/odvcencio/objgraph/pkg/object"
)

// Theme holds every colour and size the pipeline draws with. Sizes are in
// logical (viewport) units.
type Theme struct {
	Background color.RGBA
	Commit     color.RGBA
	Tree       color.RGBA
	Blob       color.RGBA
	Tag        color.RGBA

	Edge         color.RGBA
	EdgeEmphasis color.RGBA
	Selected     color.RGBA
	Reachable    color.RGBA
	Label        color.RGBA
	Header       color.RGBA

	// Dim is how far unrelated elements fade toward the background while
	// a selection is active.
	Dim float64

	NodeRadius        float64
	RingWidth         float64
	EdgeWidth         float64
	EdgeEmphasisWidth float64
	LabelSize         float64
	HeaderSize        float64
}

// DefaultTheme is the dark palette used when no config overrides it.
func DefaultTheme() Theme {
	return Theme{
		Background: canvas.MustHex("#0f1117"),
		Commit:     canvas.MustHex("#f2a541"),
		Tree:       canvas.MustHex("#4fa3e0"),
		Blob:       canvas.MustHex("#7bc47f"),
		Tag:        canvas.MustHex("#d16ba5"),

		Edge:         canvas.MustHex("#4a5060"),
		EdgeEmphasis: canvas.MustHex("#f5f5f5"),
		Selected:     canvas.MustHex("#ffffff"),
		Reachable:    canvas.MustHex("#ffd166"),
		Label:        canvas.MustHex("#c9ccd3"),
		Header:       canvas.MustHex("#8b90a0"),

		Dim: 0.65,

		NodeRadius:        12,
		RingWidth:         3,
		EdgeWidth:         1.5,
		EdgeEmphasisWidth: 3,
		LabelSize:         11,
		HeaderSize:        13,
	}
}

// KindColor returns the fill for a node of the given kind. Unknown kinds
// are drawn like blobs.
func (t Theme) KindColor(kind object.ObjectType) color.RGBA {
	switch kind {
	case object.TypeCommit:
		return t.Commit
	case object.TypeTree:
		return t.Tree
	case object.TypeTag:
		return t.Tag
	default:
		return t.Blob
	}
}

func (t Theme) dim(c color.RGBA) color.RGBA {
	return canvas.Mix(c, t.Background, t.Dim)
}
