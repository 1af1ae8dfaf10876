package feed

import ext "github.com/mmcdole/gofeed/extensions"

// collectExtensions flattens gofeed's nested extension maps into the
// additional_properties shape described in §4.1: keyed by qualified tag
// name ("ns:name"), with repeated occurrences promoted to a slice so a
// namespace/element like multiple <category> or <itunes:keywords> entries
// round-trip instead of silently keeping only the first.
func collectExtensions(exts ext.Extensions) map[string]any {
	if len(exts) == 0 {
		return nil
	}

	out := make(map[string]any, len(exts))
	for ns, byName := range exts {
		for name, items := range byName {
			key := ns + ":" + name
			out[key] = extensionSliceToValue(items)
		}
	}
	return out
}

func extensionSliceToValue(items []ext.Extension) any {
	if len(items) == 1 {
		return extensionToValue(items[0])
	}
	values := make([]any, 0, len(items))
	for _, item := range items {
		values = append(values, extensionToValue(item))
	}
	return values
}

func extensionToValue(e ext.Extension) any {
	if len(e.Attrs) == 0 && len(e.Children) == 0 {
		return e.Value
	}
	m := make(map[string]any, 2)
	if e.Value != "" {
		m["value"] = e.Value
	}
	for k, v := range e.Attrs {
		m["@"+k] = v
	}
	for name, children := range e.Children {
		m[name] = extensionSliceToValue(children)
	}
	return m
}
