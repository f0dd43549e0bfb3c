// Package models holds the joke record shared by the server and the client.
package models

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Rating is a user score for a joke. Only 0 through 3 are valid.
type Rating int

const (
	RatingNone Rating = iota
	RatingMeh
	RatingGood
	RatingGreat
)

// Valid reports whether r is one of the four rating levels.
func (r Rating) Valid() bool {
	return r >= RatingNone && r <= RatingGreat
}

// Joke is the canonical joke shape.
type Joke struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
	Rating    Rating `json:"rating"`
}

// Draft is an untrusted joke record, as it arrives in a request body or from
// the upstream API. Rating is left untyped until Enrich normalizes it.
type Draft struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
	Rating    any    `json:"rating,omitempty"`
}

// DraftOf turns a joke back into a draft, e.g. to send it as a request body.
func DraftOf(j Joke) Draft {
	return Draft{ID: j.ID, Type: j.Type, Setup: j.Setup, Punchline: j.Punchline, Rating: int(j.Rating)}
}

// Enrich copies d into a Joke. A rating that does not coerce to one of the
// valid levels becomes RatingNone.
func Enrich(d Draft) Joke {
	return Joke{
		ID:        d.ID,
		Type:      d.Type,
		Setup:     d.Setup,
		Punchline: d.Punchline,
		Rating:    coerceRating(d.Rating),
	}
}

// EnrichMany applies Enrich to every draft.
func EnrichMany(ds []Draft) []Joke {
	out := make([]Joke, 0, len(ds))
	for _, d := range ds {
		out = append(out, Enrich(d))
	}
	return out
}

func coerceRating(v any) Rating {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return RatingNone
	}
	if f < float64(RatingNone) || f > float64(RatingGreat) {
		return RatingNone
	}
	return Rating(f)
}
