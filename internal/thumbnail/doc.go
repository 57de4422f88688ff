// Package thumbnail turns server-side image references into inline-renderable images.
//
// [Assembler.Resolve] is best-effort: any failure yields an empty [DisplayableImage]
// so one broken thumbnail never prevents its row from rendering. [Describe] and
// [Preview] inspect and downscale image bytes for the add-movie flow.
package thumbnail
