// Package theme holds the fixed catalog of story themes offered to readers.
package theme

import (
	"errors"
	"strings"
)

var ErrUnknownTheme = errors.New("unknown story theme")

type ID string

const (
	Romance          ID = "romance"
	Suspense         ID = "suspense"
	Fantasia         ID = "fantasia"
	Drama            ID = "drama"
	Aventura         ID = "aventura"
	Misterio         ID = "misterio"
	FiccaoCientifica ID = "ficcao-cientifica"
	Historico        ID = "historico"
	Erotico          ID = "erotico"
	RomanceAdulto    ID = "romance-adulto"
)

// Elements are the narrative building blocks a prompt draws one of each from.
type Elements struct {
	Characters []string
	Settings   []string
	Conflicts  []string
	Twists     []string
}

type Theme struct {
	ID             ID
	Label          string
	Adult          bool
	FallbackTitles []string
	Elements       Elements
}

// order is the display order of the catalog.
var order = []ID{
	Romance, Suspense, Fantasia, Drama, Aventura, Misterio, FiccaoCientifica, Historico,
	Erotico, RomanceAdulto,
}

// Parse resolves user input to a catalog ID.
func Parse(raw string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := catalog[id]; !ok {
		return "", ErrUnknownTheme
	}
	return id, nil
}

// Get returns the catalog entry for id. Every declared ID has one.
func Get(id ID) Theme {
	return catalog[id]
}

func (id ID) Theme() Theme {
	return catalog[id]
}

func (id ID) String() string {
	return string(id)
}

// All returns every theme in display order.
func All() []Theme {
	out := make([]Theme, 0, len(order))
	for _, id := range order {
		out = append(out, catalog[id])
	}
	return out
}

// General returns the themes suitable for every audience.
func General() []Theme {
	var out []Theme
	for _, t := range All() {
		if !t.Adult {
			out = append(out, t)
		}
	}
	return out
}

// GenericTitles returns the titles used when a theme has none of its own.
func GenericTitles() []string {
	return append([]string(nil), genericTitles...)
}
