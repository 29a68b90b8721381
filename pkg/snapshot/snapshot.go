// Package snapshot persists the previous tree of a session between
// patch passes.
//
// A snapshot is the tree JSON document of vdom.EncodeJSON. Loaded trees
// carry no native handles; callers re-materialize them with a Patcher.
package snapshot

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// ErrNotFound is returned when no snapshot exists for an id.
var ErrNotFound = stderrors.New("snapshot: not found")

// Store saves and loads trees by id.
type Store interface {
	Save(ctx context.Context, id string, tree *vdom.VNode) error
	Load(ctx context.Context, id string) (*vdom.VNode, error)
	Delete(ctx context.Context, id string) error
}

// Options selects and configures a backend for Open.
type Options struct {
	// Backend is "disk", "s3" or "none".
	Backend string
	Dir     string
	Bucket  string
	Prefix  string
	Region  string
}

// Open creates the store named by opts.Backend. It returns a nil Store
// for "none" and for an empty backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "none":
		return nil, nil
	case "disk":
		return NewDiskStore(opts.Dir)
	case "s3":
		return NewS3StoreFromRegion(ctx, opts.Region, opts.Bucket, opts.Prefix)
	}
	return nil, errors.New("E141").WithDetailf("unknown snapshot backend %q", opts.Backend)
}

func notFound(id string) error {
	return errors.New("E140").WithDetailf("no snapshot for %q", id).Wrap(ErrNotFound)
}

func backendError(op, id string, err error) error {
	return errors.New("E141").WithDetailf("%s %q", op, id).Wrap(err)
}

// validID rejects ids that could escape a directory or key prefix.
func validID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return errors.New("E141").WithDetail(fmt.Sprintf("invalid snapshot id %q", id))
	}
	return nil
}

func encode(id string, tree *vdom.VNode) ([]byte, error) {
	b, err := vdom.EncodeJSON(tree)
	if err != nil {
		return nil, backendError("encode", id, err)
	}
	return b, nil
}
