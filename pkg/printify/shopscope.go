package printify

import "strings"

// shopScope resolves the shop id of shop-scoped calls. It is shared by the
// Products, Orders and Webhooks facades.
type shopScope struct {
	defaultID string
}

func (s shopScope) resolve(shopID string) (string, error) {
	if id := strings.TrimSpace(shopID); id != "" {
		return id, nil
	}
	if s.defaultID != "" {
		return s.defaultID, nil
	}
	return "", ErrMissingShopID
}
