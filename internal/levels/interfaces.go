package levels

import (
	"context"
	"io/fs"
)

type Loader interface {
	LoadPacks(ctx context.Context, fsys fs.FS, root string) ([]Pack, error)
	FindPack(packs []Pack, packID string) (Pack, error)
}
