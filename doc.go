// Package playout implements a pretty-printing engine: a layout compiler and
// a width-directed renderer that together solve the document-layout problem
// for source code.
//
// A caller builds a tree of text fragments glued by typed composition
// operators using the pure constructors [Null], [Text], [Fix], [Grp], [Seq],
// [Nest], [Pack], [Line] and [Comp]. [Compile] rewrites that tree through a
// sequence of normalising passes into a [Document]: a canonical,
// width-independent list of lines. [Render] then walks the Document with a
// greedy, single-pass algorithm, tracking the current column and an
// indentation stack, to decide per composition whether to emit glue or break
// it into a newline.
//
// The engine is purely synchronous and allocates no shared state: [Compile]
// and [Render] are pure functions of their arguments, so a caller may invoke
// them concurrently from many goroutines without any locking.
//
// # Acknowledgments
//
// The greedy single-pass fit algorithm at the core of [Render] generalizes
// the one described in mcyoung's ["The Art of Formatting Code"] and
// implemented by [allman], adding explicit group/sequence scoping, fix
// scopes, and pack-indentation on top of the plain group/indent primitives
// those describe.
//
// [allman]: https://github.com/mcy/strings/tree/main/allman
// ["The Art of Formatting Code"]: https://mcyoung.xyz/2025/03/11/formatters/
package playout
