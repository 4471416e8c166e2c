// Package customer implements the customer edit form: a model of dirty
// properties, an interactor that loads and saves through storage, and the
// widget tree that edits it.
package customer

import (
	"slices"
	"strings"

	"github.com/odvcencio/dirtyfx/pkg/storage"
)

// Form names customer forms in logs, spans and metrics.
const Form = "customer"

// Record is a customer as the form sees it.
type Record struct {
	ID       string
	Name     string
	Email    string
	Score    float64
	Visits   int32
	Points   int64
	Active   bool
	Tags     []string
	Revision int64
}

func fromStorage(c *storage.Customer) Record {
	return Record{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Score:    c.Score,
		Visits:   c.Visits,
		Points:   c.Points,
		Active:   c.Active,
		Tags:     normalizeTags(c.Tags),
		Revision: c.Revision,
	}
}

func (r Record) toStorage() *storage.Customer {
	return &storage.Customer{
		ID:       r.ID,
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Score:    r.Score,
		Visits:   r.Visits,
		Points:   r.Points,
		Active:   r.Active,
		Tags:     cleanTags(r.Tags),
		Revision: r.Revision,
	}
}

// normalizeTags returns a non-nil copy so a nil slice and an empty one
// never compare as different values.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}

// cleanTags trims each tag and drops empty ones.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitTags is the inverse of joinTags for any input, so editing the joined
// text never rewrites what the user typed.
func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}
