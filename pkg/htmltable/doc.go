// Package htmltable post-processes rendered HTML tables.
//
// Rendered documentation and templated email bodies frequently contain
// tables where a value spans several logical columns, emitted as one
// populated cell followed by a run of empty cells. Collapse merges each
// such run into the preceding populated cell by extending its column
// span, which reads much better than a row of blank boxes.
//
// The transform only touches tables inside elements carrying a content
// marker class (default "document"), so unrelated tables in the same
// page are left alone. It mutates the parsed tree in place and is
// idempotent: a second pass finds no empty cells left to merge.
//
// Typical build-time usage:
//
//	var out bytes.Buffer
//	if err := htmltable.CollapseHTML(strings.NewReader(page), &out); err != nil {
//		return err
//	}
//
// Pass and WhenReady model the deferred single-shot execution used when
// the document is produced asynchronously: the transform stays pending
// until a readiness signal fires, then runs exactly once.
package htmltable
