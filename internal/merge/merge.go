// Package merge reconciles the local document cache with the remote copy
// loaded at the start of a session.
//
// The remote document is the base. Local items the remote has never seen are
// appended, and for ids present on both sides the strictly newer updatedAt
// wins. Ties go to the remote. The merge never writes anywhere.
package merge

import (
	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// Stats describes where the merged records came from.
type Stats struct {
	// FromLocal counts records present on both sides where local was newer.
	FromLocal int `json:"fromLocal"`
	// LocalOnly counts records appended because the remote lacks them.
	LocalOnly int `json:"localOnly"`
	// RemoteOnly counts records the local side lacks.
	RemoteOnly int `json:"remoteOnly"`
	// MissingTimestamps counts compared records without updatedAt.
	MissingTimestamps int `json:"missingTimestamps"`
}

// Result is the outcome of Merge.
type Result struct {
	Document domain.DataSchema
	// ChangedLocal is set when the merged document differs from the local
	// snapshot, so the local cache must be rewritten.
	ChangedLocal bool
	// DiffersFromRemote is set when local-only content was folded in and
	// the session has something to push.
	DiffersFromRemote bool
	Stats             Stats
}

// Merge folds local into remote. Neither input is modified.
func Merge(local, remote domain.DataSchema) Result {
	local = domain.Normalize(local)
	remote = domain.Normalize(remote)

	var st Stats
	merged := domain.Clone(remote)

	merged.Categories = mergeByID(local.Categories, remote.Categories, categoryRules, &st)
	merged.Todos = mergeByID(local.Todos, remote.Todos, todoRules, &st)
	merged.Notes = mergeByID(local.Notes, remote.Notes, noteRules, &st)
	merged = domain.Normalize(merged)

	return Result{
		Document:          merged,
		ChangedLocal:      !domain.Equal(merged, local),
		DiffersFromRemote: !domain.Equal(merged, remote),
		Stats:             st,
	}
}

// rules tells mergeByID how to read one record type.
type rules[T any] struct {
	id        func(T) string
	timestamp func(T) int64
	// tie resolves records with equal timestamps. nil keeps the remote.
	tie func(local, remote T, st *Stats) T
}

var categoryRules = rules[domain.Category]{
	id:        func(c domain.Category) string { return c.ID },
	timestamp: func(c domain.Category) int64 { return c.UpdatedAt },
	tie: func(local, remote domain.Category, st *Stats) domain.Category {
		remote.Links = mergeByID(local.Links, remote.Links, linkRules, st)
		return remote
	},
}

var linkRules rules[domain.LinkItem]

func init() {
	// linkRules refers to itself through folder children.
	linkRules = rules[domain.LinkItem]{
		id:        func(l domain.LinkItem) string { return l.ID },
		timestamp: func(l domain.LinkItem) int64 { return l.UpdatedAt },
		tie: func(local, remote domain.LinkItem, st *Stats) domain.LinkItem {
			if local.IsFolder() && remote.IsFolder() {
				remote.Children = mergeByID(local.Children, remote.Children, linkRules, st)
			}
			return remote
		},
	}
}

var todoRules = rules[domain.Todo]{
	id:        func(t domain.Todo) string { return t.ID },
	timestamp: domain.Todo.Timestamp,
}

var noteRules = rules[domain.Note]{
	id:        func(n domain.Note) string { return n.ID },
	timestamp: func(n domain.Note) int64 { return n.UpdatedAt },
}

func mergeByID[T any](local, remote []T, r rules[T], st *Stats) []T {
	localByID := make(map[string]T, len(local))
	for _, item := range local {
		localByID[r.id(item)] = item
	}

	out := make([]T, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote))

	for _, rem := range remote {
		id := r.id(rem)
		seen[id] = struct{}{}

		loc, ok := localByID[id]
		if !ok {
			st.RemoteOnly++
			out = append(out, rem)
			continue
		}

		lt, rt := r.timestamp(loc), r.timestamp(rem)
		if lt == 0 {
			st.MissingTimestamps++
		}
		if rt == 0 {
			st.MissingTimestamps++
		}

		switch {
		case lt > rt:
			st.FromLocal++
			out = append(out, loc)
		case lt == rt && r.tie != nil:
			out = append(out, r.tie(loc, rem, st))
		default:
			out = append(out, rem)
		}
	}

	for _, loc := range local {
		if _, ok := seen[r.id(loc)]; ok {
			continue
		}
		st.LocalOnly++
		out = append(out, loc)
	}
	return out
}
