package orbit

import (
	"github.com/PuerkitoBio/goquery"

	"orbitcal-backend/lib/htmlutil"
)

// the hidden fields the server expects echoed back on every postback.
// fields absent from a document are simply left out of the state.
var hiddenStateFields = []string{
	"__VIEWSTATE",
	"__EVENTVALIDATION",
	"__PageDataKey",
	"tvMain_ExpandState",
	"tvMain_SelectedNode",
}

// FormState maps field names to the opaque values the server issued in
// the most recently fetched document. stale state must never be echoed
// back once a newer document has been fetched.
type FormState map[string]string

// ExtractFormState pulls the recognized hidden state fields plus the
// currently-selected option of every select control out of a document.
func ExtractFormState(doc *goquery.Document) FormState {
	state := FormState{}

	for _, field := range hiddenStateFields {
		value, ok := htmlutil.InputValue(doc, field)
		if ok {
			state[field] = value
		}
	}

	doc.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			return
		}
		selected := sel.Find("option[selected]")
		if len(selected.Nodes) == 0 {
			return
		}
		state[name] = selected.First().AttrOr("value", "")
	})

	return state
}

// Merge overwrites existing keys with values from `newer` and keeps
// keys `newer` does not mention.
func (s FormState) Merge(newer FormState) {
	for k, v := range newer {
		s[k] = v
	}
}

func (s FormState) Clone() FormState {
	out := make(FormState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
