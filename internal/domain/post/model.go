package post

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/community-league/internal/platform/locale"
)

// Post is a league announcement shown on the news page.
type Post struct {
	ID          string
	Title       locale.Text
	Body        locale.Text
	AuthorID    string
	PublishedAt time.Time
}

func (p Post) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("post id is required")
	}
	if p.Title.IsZero() {
		return fmt.Errorf("post title is required")
	}
	if p.Body.IsZero() {
		return fmt.Errorf("post body is required")
	}
	return nil
}
