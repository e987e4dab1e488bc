package playout_test

import (
	"fmt"

	"github.com/dvhowell/playout"
)

// Example builds a small call-expression Layout and renders it at a width
// that forces the second argument onto its own, nested line.
func Example() {
	name, _ := playout.Text("fetch(")
	id, _ := playout.Text("id")
	opts, _ := playout.Text("opts")
	close_, _ := playout.Text(")")

	args := playout.Comp(id, opts, true, false)
	l := playout.Comp(
		playout.Comp(name, playout.Nest(args), false, false),
		close_,
		false, false,
	)

	doc, err := playout.Compile(l)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(playout.Render(doc, 2, 8))
	// Output:
	// fetch(id
	//   opts)
}
