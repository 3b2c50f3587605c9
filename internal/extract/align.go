package extract

import "strings"

// alignCitations anchors each extraction's literal text in the source
// document as byte-offset spans. Occurrences of the same text are consumed
// left to right, so repeated extractions map to successive spans. Text that
// does not occur verbatim gets no citation.
func alignCitations(doc string, items []Extraction) {
	next := make(map[string]int)

	for i := range items {
		text := items[i].Text
		if text == "" {
			continue
		}

		from := next[text]
		if from >= len(doc) {
			continue
		}
		idx := strings.Index(doc[from:], text)
		if idx < 0 {
			continue
		}

		start := from + idx
		end := start + len(text)
		items[i].Citations = append(items[i].Citations, Citation{
			Start: start,
			End:   end,
			Text:  text,
		})
		next[text] = end
	}
}
