package board

// Visible reports whether the viewer may see m. groups holds the ids of the
// groups the viewer belongs to.
func Visible(m Message, viewerEmail string, groups map[string]struct{}) bool {
	if m.SenderEmail == viewerEmail {
		return true
	}
	switch m.Recipient.Kind {
	case KindBroadcast:
		return true
	case KindDirect:
		return m.Recipient.Address == viewerEmail
	case KindGroup:
		_, ok := groups[m.Recipient.Address]
		return ok
	}
	return false
}

// FilterForViewer returns the messages the viewer may see, in log order.
// The predicate is recomputed over the whole log on every call.
func FilterForViewer(all []Message, viewerEmail string, viewerGroupIDs []string) []Message {
	groups := make(map[string]struct{}, len(viewerGroupIDs))
	for _, id := range viewerGroupIDs {
		groups[id] = struct{}{}
	}

	visible := make([]Message, 0, len(all))
	for _, m := range all {
		if Visible(m, viewerEmail, groups) {
			visible = append(visible, m)
		}
	}
	return visible
}
