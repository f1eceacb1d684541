package service

// reconcile returns the feed status map matching the freshly loaded feed
// list. URLs seen for the first time start as reachable; URLs no longer
// configured are dropped. The added and removed lists preserve the order of
// the inputs and treat duplicate URLs as one feed.
func reconcile(status map[string]bool, feeds []string) (next map[string]bool, added, removed []string) {
	next = make(map[string]bool, len(feeds))
	for _, url := range feeds {
		if _, ok := next[url]; ok {
			continue
		}
		if reachable, ok := status[url]; ok {
			next[url] = reachable
		} else {
			next[url] = true
			added = append(added, url)
		}
	}
	for url := range status {
		if _, ok := next[url]; !ok {
			removed = append(removed, url)
		}
	}
	return next, added, removed
}
