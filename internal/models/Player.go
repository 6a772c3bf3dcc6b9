package models

import (
	"strings"

	"github.com/google/uuid"
)

// Player is the host-supplied identity of a connected user.
type Player struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	World       string    `json:"world"`
	Ranks       []string  `json:"ranks"`
	Op          bool      `json:"op"`
}

func (p Player) HasRank(rank string) bool {
	for _, r := range p.Ranks {
		if strings.EqualFold(r, rank) {
			return true
		}
	}
	return false
}

func (p Player) Display() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}
