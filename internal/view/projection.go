package view

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind names an entity kind for projection purposes
type Kind string

const (
	KindVideo      Kind = "video"
	KindComment    Kind = "comment"
	KindPlaylist   Kind = "playlist"
	KindSubscriber Kind = "subscriber"
	KindChannel    Kind = "channel"
)

// fieldAllowList declares, per entity kind, the fields a view may carry out
// of the core. Paths are dotted; a nested path prunes inside sub-objects
// and inside every element of an array field. Anything not listed is
// dropped.
var fieldAllowList = map[Kind][]string{
	KindVideo: {
		"id", "title", "description", "video_url", "thumbnail_url",
		"duration", "views", "is_published",
		"likes_count", "is_liked",
		"owner.id", "owner.username", "owner.full_name", "owner.avatar_url",
		"owner.subscribers_count", "owner.is_subscribed",
		"created_at", "updated_at",
	},
	KindComment: {
		"id", "video_id", "content",
		"likes_count", "is_liked",
		"owner.id", "owner.username", "owner.full_name", "owner.avatar_url",
		"created_at", "updated_at",
	},
	KindPlaylist: {
		"id", "name", "description", "videos_count", "total_views",
		"owner.id", "owner.username", "owner.full_name", "owner.avatar_url",
		"videos.id", "videos.title", "videos.thumbnail_url",
		"videos.duration", "videos.views", "videos.created_at",
		"created_at", "updated_at",
	},
	KindSubscriber: {
		"subscriber.id", "subscriber.username", "subscriber.full_name", "subscriber.avatar_url",
		"subscribers_count", "subscribed_to_subscriber",
		"subscribed_at",
	},
	KindChannel: {
		"channel.id", "channel.username", "channel.full_name", "channel.avatar_url",
		"latest_video.id", "latest_video.title", "latest_video.thumbnail_url",
		"latest_video.duration", "latest_video.views", "latest_video.created_at",
		"subscribed_at",
	},
}

// Project reduces a view to its kind's field allow-list, returning a map
// ready for serialization. Unknown kinds fail rather than leak every field.
func Project(kind Kind, v any) (map[string]any, error) {
	allowed, ok := fieldAllowList[kind]
	if !ok {
		return nil, fmt.Errorf("no projection defined for kind %q", kind)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten view for projection: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to flatten view for projection: %w", err)
	}

	return prune(m, buildAllowTree(allowed)), nil
}

// ProjectSlice applies Project to each element of a slice of views
func ProjectSlice[T any](kind Kind, items []T) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		m, err := Project(kind, items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// allowTree is a trie over dotted field paths. A nil child map means the
// whole subtree under that field passes through.
type allowTree map[string]allowTree

func buildAllowTree(paths []string) allowTree {
	root := allowTree{}
	for _, path := range paths {
		node := root
		parts := strings.Split(path, ".")
		for i, part := range parts {
			if node[part] == nil {
				if i == len(parts)-1 {
					node[part] = nil
					continue
				}
				node[part] = allowTree{}
			}
			node = node[part]
		}
	}
	return root
}

func prune(m map[string]any, tree allowTree) map[string]any {
	out := make(map[string]any, len(tree))
	for key, sub := range tree {
		val, ok := m[key]
		if !ok {
			continue
		}
		if sub == nil {
			out[key] = val
			continue
		}
		switch typed := val.(type) {
		case map[string]any:
			out[key] = prune(typed, sub)
		case []any:
			pruned := make([]any, 0, len(typed))
			for _, elem := range typed {
				if em, ok := elem.(map[string]any); ok {
					pruned = append(pruned, prune(em, sub))
				}
			}
			out[key] = pruned
		}
	}
	return out
}
