package witcli

import (
	"context"
	"fmt"
	"os"

	"github.com/go-hostgen/hostgen/internal/oci"
	"github.com/go-hostgen/hostgen/wit"
)

// LoadWIT loads a single [wit.Resolve] from path.
// If path is an OCI reference, it pulls the WIT JSON artifact from the
// registry before decoding it. Otherwise path is read as a WIT JSON
// document directly; "" or "-" reads from stdin. Parsing WIT source text
// (as opposed to its resolved JSON form) is an external collaborator's
// responsibility and is not handled here.
func LoadWIT(ctx context.Context, path string) (*wit.Resolve, error) {
	if oci.IsOCIPath(path) {
		fmt.Fprintf(os.Stderr, "Fetching OCI artifact %s\n", path)
		buf, err := oci.PullWIT(ctx, path)
		if err != nil {
			return nil, err
		}
		return wit.ParseWIT(buf.Bytes())
	}
	return wit.LoadJSON(path)
}

// LoadPath parses paths and returns the first path.
// If paths is empty, returns "-".
// If paths has more than one element, returns an error.
func LoadPath(paths ...string) (string, error) {
	var path string
	switch len(paths) {
	case 0:
		path = "-"
	case 1:
		path = paths[0]
	default:
		return "", fmt.Errorf("found %d path arguments, expecting 0 or 1", len(paths))
	}
	return path, nil
}
