package pipeline

// assignPositions fixes each dhamma's 1-based position within its parent list
// and each list's declared item count. Runs after merging: children order is
// only final once both sheets are unioned.
func assignPositions(set *DraftSet) {
	for _, list := range set.Lists() {
		list.ItemCount = len(list.Children)
		for i, childSlug := range list.Children {
			if d := set.Dhamma(childSlug); d != nil {
				d.PositionInList = i + 1
			}
		}
	}
}
