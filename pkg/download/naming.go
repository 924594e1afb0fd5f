package download

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/mwantia/bingwall/pkg/errs"
)

// DateLayout is the prefix format of every saved wallpaper.
const DateLayout = "2006-01-02"

// ContentHash returns the hex SHA-256 digest of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ImageID extracts the provider's image id from the "id" query parameter.
// The id becomes part of a file name, so ids that could leave the save
// directory are rejected.
func ImageID(imageURL string) (string, error) {
	id := rawImageID(imageURL)
	if id == "" {
		return "", errs.NewParse("extract image id", fmt.Errorf("no id parameter in %q", imageURL))
	}

	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") || filepath.Base(id) != id {
		return "", errs.NewParse("extract image id", fmt.Errorf("id %q is not a plain file name", id))
	}
	return id, nil
}

func rawImageID(imageURL string) string {
	if u, err := url.Parse(imageURL); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id
		}
	}

	// Unparseable queries still follow the id=<value>& shape.
	if _, rest, ok := strings.Cut(imageURL, "id="); ok {
		id, _, _ := strings.Cut(rest, "&")
		return id
	}
	return ""
}

// FileName joins the date prefix and image id.
func FileName(date, id string) string {
	return fmt.Sprintf("%s_%s", date, id)
}
