package playout_test

import (
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/dvhowell/playout"
)

func mustText(t *testing.T, s string) playout.Layout {
	t.Helper()
	l, err := playout.Text(s)
	require.NoErrorf(t, err, "Text(%q)", s)
	return l
}

func render(t *testing.T, l playout.Layout, indentWidth, bufferWidth int) string {
	t.Helper()
	doc, err := playout.Compile(l)
	require.NoErrorf(t, err, "Compile")
	return playout.Render(doc, indentWidth, bufferWidth)
}

// TestScenarios reproduces the end-to-end scenarios S1-S8 byte-for-byte.
func TestScenarios(t *testing.T) {
	tests := map[string]struct {
		build       func(t *testing.T) playout.Layout
		indentWidth int
		bufferWidth int
		want        string
	}{
		"S1_Text": {
			build:       func(t *testing.T) playout.Layout { return mustText(t, "foo") },
			indentWidth: 2,
			bufferWidth: 80,
			want:        "foo",
		},
		"S2_CompNoPad": {
			build: func(t *testing.T) playout.Layout {
				return playout.Comp(mustText(t, "foo"), mustText(t, "bar"), false, false)
			},
			bufferWidth: 80,
			want:        "foobar",
		},
		"S3_CompPad": {
			build: func(t *testing.T) playout.Layout {
				return playout.Comp(mustText(t, "foo"), mustText(t, "bar"), true, false)
			},
			bufferWidth: 80,
			want:        "foo bar",
		},
		"S4_Grp_bw7": {
			build:       buildS4,
			bufferWidth: 7,
			want:        "foo\nbarbaz",
		},
		"S4_Grp_bw4": {
			build:       buildS4,
			bufferWidth: 4,
			want:        "foo\nbar\nbaz",
		},
		"S4_Grp_bw10": {
			build:       buildS4,
			bufferWidth: 10,
			want:        "foobarbaz",
		},
		"S5_Seq_bw7": {
			build: func(t *testing.T) playout.Layout {
				return playout.Seq(playout.Comp(
					mustText(t, "foo"),
					playout.Comp(mustText(t, "bar"), mustText(t, "baz"), false, false),
					false, false,
				))
			},
			bufferWidth: 7,
			want:        "foo\nbar\nbaz",
		},
		"S6_Nest_bw7": {
			build: func(t *testing.T) playout.Layout {
				return playout.Comp(
					mustText(t, "foo"),
					playout.Nest(playout.Comp(mustText(t, "bar"), mustText(t, "baz"), false, false)),
					false, false,
				)
			},
			indentWidth: 2,
			bufferWidth: 7,
			want:        "foobar\n  baz",
		},
		"S7_Pack_bw7": {
			build: func(t *testing.T) playout.Layout {
				return playout.Comp(
					mustText(t, "foo"),
					playout.Pack(playout.Comp(mustText(t, "bar"), mustText(t, "baz"), false, false)),
					false, false,
				)
			},
			bufferWidth: 7,
			want:        "foobar\n   baz",
		},
		"S8_Line": {
			build: func(t *testing.T) playout.Layout {
				return playout.Line(mustText(t, "foo"), mustText(t, "bar"))
			},
			bufferWidth: 80,
			want:        "foo\nbar",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := render(t, tc.build(t), tc.indentWidth, tc.bufferWidth)
			assert.EqualValues(t, got, tc.want)
		})
	}
}

func buildS4(t *testing.T) playout.Layout {
	return playout.Comp(
		mustText(t, "foo"),
		playout.Grp(playout.Comp(mustText(t, "bar"), mustText(t, "baz"), false, false)),
		false, false,
	)
}

func TestTextRejectsEmptyString(t *testing.T) {
	_, err := playout.Text("")
	require.NotNilf(t, err, "expected an error")

	var invalid *playout.InvalidInput
	assert.True(t, asInvalidInput(err, &invalid), "want *InvalidInput, got %T", err)
}

func TestHardLineInsideFixIsInvalidInput(t *testing.T) {
	l := playout.Fix(playout.Line(mustText(t, "foo"), mustText(t, "bar")))

	_, err := playout.Compile(l)
	require.NotNilf(t, err, "expected an error")

	var invalid *playout.InvalidInput
	assert.True(t, asInvalidInput(err, &invalid), "want *InvalidInput, got %T", err)
}

func TestCompileWithDepthReportsStackOverflow(t *testing.T) {
	var l playout.Layout = mustText(t, "x")
	for i := 0; i < 50; i++ {
		l = playout.Nest(l)
	}

	_, err := playout.CompileWithDepth(l, 10)
	require.NotNilf(t, err, "expected an error")

	var overflow *playout.StackOverflow
	assert.True(t, asStackOverflow(err, &overflow), "want *StackOverflow, got %T", err)
	assert.EqualValues(t, overflow.Limit, 10)
}

func TestNullIdentity(t *testing.T) {
	foo := mustText(t, "foo")
	withNull := playout.Comp(foo, playout.Null(), true, false)

	plain := render(t, foo, 2, 80)
	composed := render(t, withNull, 2, 80)

	assert.EqualValues(t, composed, plain)
}

func TestFixSubsumesGrp(t *testing.T) {
	inner := playout.Comp(mustText(t, "aaaaaaaaaa"), mustText(t, "bbbbbbbbbb"), true, false)

	viaGrp := render(t, playout.Fix(playout.Grp(inner)), 2, 5)
	viaPlain := render(t, playout.Fix(inner), 2, 5)

	assert.EqualValues(t, viaGrp, viaPlain)
}

func TestNoInjectedCharacters(t *testing.T) {
	l := playout.Comp(
		playout.Comp(mustText(t, "alpha"), mustText(t, "beta"), true, false),
		playout.Grp(playout.Comp(mustText(t, "gamma"), mustText(t, "delta"), true, false)),
		true, false,
	)

	got := render(t, l, 2, 9)

	var onlyLiterals strings.Builder
	for _, r := range got {
		if r != ' ' && r != '\n' {
			onlyLiterals.WriteRune(r)
		}
	}
	assert.EqualValues(t, onlyLiterals.String(), "alphabetagammadelta")
}

// asInvalidInput and asStackOverflow avoid importing errors.As into the
// assert/require call sites above, matching this package's preference for
// plain boolean assertions.
func asInvalidInput(err error, target **playout.InvalidInput) bool {
	v, ok := err.(*playout.InvalidInput)
	if ok {
		*target = v
	}
	return ok
}

func asStackOverflow(err error, target **playout.StackOverflow) bool {
	v, ok := err.(*playout.StackOverflow)
	if ok {
		*target = v
	}
	return ok
}
