package eetlijst

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Person struct {
	Name       string
	ExternalID string
}

// Registry is the fixed name order of one eetlijst. Every status and metric
// series is aligned to it by position.
type Registry struct {
	persons []Person
	index   map[string]int
}

// NewRegistry reads the person names from the header row of the statistics
// table. The first and last header cells are not persons.
func NewRegistry(statistics *goquery.Document, externalIDs map[string]string) (*Registry, error) {
	header, err := personHeader.find(statistics)
	if err != nil {
		return nil, err
	}

	ths := header.Find("th")
	if ths.Length() < 2 {
		return nil, parseErrorf(personHeader.name, "header row has %d cells", ths.Length())
	}
	ths = ths.Slice(1, ths.Length()-1)

	registry := &Registry{
		persons: make([]Person, 0, ths.Length()),
		index:   map[string]int{},
	}

	ths.Each(func(i int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		registry.index[name] = len(registry.persons)
		registry.persons = append(registry.persons, Person{
			Name:       name,
			ExternalID: externalIDs[name],
		})
	})

	return registry, nil
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.persons))
	for i, p := range r.persons {
		names[i] = p.Name
	}
	return names
}

func (r *Registry) Persons() []Person {
	persons := make([]Person, len(r.persons))
	copy(persons, r.persons)
	return persons
}

func (r *Registry) Len() int {
	return len(r.persons)
}

// ExternalID returns the configured id for name, or "" when there is none.
func (r *Registry) ExternalID(name string) string {
	i, ok := r.index[name]
	if !ok {
		return ""
	}
	return r.persons[i].ExternalID
}

func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

func (r *Registry) NameForExternalID(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	for _, p := range r.persons {
		if p.ExternalID == id {
			return p.Name, true
		}
	}
	return "", false
}

// ExternalIDs returns the name -> external id mapping restricted to the
// persons on this list.
func (r *Registry) ExternalIDs() map[string]string {
	ids := make(map[string]string, len(r.persons))
	for _, p := range r.persons {
		ids[p.Name] = p.ExternalID
	}
	return ids
}
