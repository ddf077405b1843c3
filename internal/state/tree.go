package state

import "github.com/sakif/navidash/internal/model"

// Depth-first tree transformations. None of them modifies its input: each
// returns a new forest that shares untouched subtrees with the old one and
// rebuilds only the path down to the matched nodes.

// addUnder appends node to the children of every folder with id parentID, or
// to the root when parentID is empty. A link matched as parent becomes a
// folder. found is false when no node has that id.
func addUnder(items []model.Bookmark, node model.Bookmark, parentID string) (out []model.Bookmark, found bool) {
	if parentID == "" {
		out = make([]model.Bookmark, len(items), len(items)+1)
		copy(out, items)
		return append(out, node), true
	}

	out = make([]model.Bookmark, len(items))
	for i, item := range items {
		switch {
		case item.ID == parentID:
			children := make([]model.Bookmark, len(item.Children), len(item.Children)+1)
			copy(children, item.Children)
			item.Children = append(children, node)
			found = true
		case item.Children != nil:
			var sub bool
			item.Children, sub = addUnder(item.Children, node, parentID)
			found = found || sub
		}
		out[i] = item
	}
	return out, found
}

// updateNode merges patch into every node with the given id. A matched node's
// own subtree is not searched further.
func updateNode(items []model.Bookmark, id string, patch model.BookmarkPatch) (out []model.Bookmark, found bool) {
	out = make([]model.Bookmark, len(items))
	for i, item := range items {
		switch {
		case item.ID == id:
			item = patch.Apply(item)
			found = true
		case item.Children != nil:
			var sub bool
			item.Children, sub = updateNode(item.Children, id, patch)
			found = found || sub
		}
		out[i] = item
	}
	return out, found
}

// removeNode drops every node with the given id, subtree included, at every
// level. Siblings keep their order and folders stay folders even when
// emptied.
func removeNode(items []model.Bookmark, id string) (out []model.Bookmark, found bool) {
	out = make([]model.Bookmark, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		if item.Children != nil {
			var sub bool
			item.Children, sub = removeNode(item.Children, id)
			found = found || sub
		}
		out = append(out, item)
	}
	return out, found
}

// findNode returns the first node with the given id, depth first.
func findNode(items []model.Bookmark, id string) (model.Bookmark, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
		if item.Children != nil {
			if hit, ok := findNode(item.Children, id); ok {
				return hit, true
			}
		}
	}
	return model.Bookmark{}, false
}

// cloneTree deep-copies a forest, keeping nil and empty children distinct.
func cloneTree(items []model.Bookmark) []model.Bookmark {
	if items == nil {
		return nil
	}
	out := make([]model.Bookmark, len(items))
	for i, item := range items {
		if item.Children != nil {
			item.Children = cloneTree(item.Children)
		}
		out[i] = item
	}
	return out
}
