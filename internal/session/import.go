package session

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviex/internal/shared"
)

// ImportCurl seeds store with the cookies of a browser "Copy as cURL" command and returns how many were stored.
func ImportCurl(ctx context.Context, store Store, data []byte) (int, error) {
	req, err := shared.ParseCurlCommand(data)
	if err != nil {
		return 0, err
	}

	cookies := req.Cookies()
	if len(cookies) == 0 {
		return 0, fmt.Errorf("%w: curl command carries no cookies", shared.ErrInvalidInput)
	}

	for _, c := range cookies {
		if err := store.Set(ctx, Entry{Name: c.Name, Value: c.Value, Path: c.Path}); err != nil {
			return 0, fmt.Errorf("failed to store cookie %s: %w", c.Name, err)
		}
	}
	return len(cookies), nil
}
