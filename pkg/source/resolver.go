package source

import (
	"context"
	"errors"
)

var ErrNoImage = errors.New("no wallpaper image reference found")

// Wallpaper is the transient result of a resolver; Copyright and Date are only
// filled by strategies that know them.
type Wallpaper struct {
	URL       string
	Copyright string
	// Date is formatted as YYYY-MM-DD.
	Date string
}

// Resolver discovers the image URL of a wallpaper.
type Resolver interface {
	Resolve(ctx context.Context) (*Wallpaper, error)
}
