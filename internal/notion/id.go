package notion

import (
	"fmt"

	"github.com/google/uuid"
)

// NormalizeID returns id in dashed UUID form. It accepts dashed or plain
// hex ids and page URL slugs ending in a plain hex id ("My-Post-0f3c...").
func NormalizeID(id string) (string, error) {
	if u, err := uuid.Parse(id); err == nil {
		return u.String(), nil
	}
	if len(id) > 32 {
		if u, err := uuid.Parse(id[len(id)-32:]); err == nil {
			return u.String(), nil
		}
	}
	return "", fmt.Errorf("notion: invalid block id %q", id)
}
