package display

import "github.com/sweeney/quick-alert/internal/alert"

// FakeRenderer records drawn views for test assertions.
type FakeRenderer struct {
	// Views contains every view passed to Draw, in order.
	Views []alert.View
}

// Draw records v.
func (f *FakeRenderer) Draw(v alert.View) {
	f.Views = append(f.Views, v)
}

// Last returns the most recent view, or the zero View if none.
func (f *FakeRenderer) Last() alert.View {
	if len(f.Views) == 0 {
		return alert.View{}
	}
	return f.Views[len(f.Views)-1]
}

// Screens returns the screen selected for each drawn view.
func (f *FakeRenderer) Screens() []Screen {
	out := make([]Screen, len(f.Views))
	for i, v := range f.Views {
		out[i] = ScreenFor(v)
	}
	return out
}
