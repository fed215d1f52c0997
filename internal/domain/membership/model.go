package membership

import (
	"fmt"
	"strings"
	"time"
)

// League is a private competition bound to exactly one season.
type League struct {
	ID          string
	SeasonID    string
	Name        string
	OwnerUserID string
	CreatedAt   time.Time
}

func (l League) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("league id is required")
	}
	if strings.TrimSpace(l.SeasonID) == "" {
		return fmt.Errorf("league season id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	return nil
}

type Member struct {
	LeagueID    string
	UserID      string
	DisplayName string
	JoinedAt    time.Time
}
