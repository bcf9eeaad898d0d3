package core

// Diff compares two exports of the same account. added keeps the order of
// current and removed keeps the order of previous.
func Diff(previous FollowingList, current FollowingList) (added FollowingList, removed FollowingList) {
	before := make(map[string]struct{}, len(previous))
	for _, v := range previous {
		before[v] = struct{}{}
	}

	after := make(map[string]struct{}, len(current))
	for _, v := range current {
		after[v] = struct{}{}
	}

	for _, v := range current {
		if _, ok := before[v]; !ok {
			added = append(added, v)
		}
	}

	for _, v := range previous {
		if _, ok := after[v]; !ok {
			removed = append(removed, v)
		}
	}

	return added, removed
}
