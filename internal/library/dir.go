package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"
)

// imageExtensions lists the file types a directory library treats as photo
// assets. Everything else is ignored during enumeration.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".heic": {},
	".heif": {},
	".tif":  {},
	".tiff": {},
	".webp": {},
	".bmp":  {},
	".dng":  {},
	".raw":  {},
	".cr2":  {},
	".nef":  {},
	".arw":  {},
}

// Dir is a Library over a plain photo directory. Asset IDs are paths
// relative to the root. Both tiers return the file bytes unchanged; the
// tier distinction only matters for libraries that serve re-encoded
// previews.
type Dir struct {
	root string
}

// NewDir constructs a directory-backed library rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: filepath.Clean(root)}
}

// Root returns the library's root directory.
func (d *Dir) Root() string {
	return d.root
}

// RequestAccess probes the root directory. Read+write yields full
// authorization, read-only yields limited access, anything else is denied.
func (d *Dir) RequestAccess(ctx context.Context) (AccessLevel, error) {
	if err := ctx.Err(); err != nil {
		return AccessNotDetermined, err
	}
	info, err := os.Stat(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return AccessNotDetermined, fmt.Errorf("library %s does not exist", d.root)
		}
		return AccessNotDetermined, fmt.Errorf("stat library: %w", err)
	}
	if !info.IsDir() {
		return AccessNotDetermined, fmt.Errorf("library %s is not a directory", d.root)
	}
	if err := unix.Access(d.root, unix.R_OK|unix.W_OK|unix.X_OK); err == nil {
		return AccessAuthorized, nil
	}
	if err := unix.Access(d.root, unix.R_OK|unix.X_OK); err == nil {
		return AccessLimited, nil
	}
	return AccessDenied, nil
}

// ListAssets walks the root and returns every image file, newest
// modification time first. Hidden directories (including staged trash) are
// skipped.
func (d *Dir) ListAssets(ctx context.Context) ([]AssetRef, error) {
	var refs []AssetRef
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if path != d.root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}
		refs = append(refs, AssetRef{ID: rel, CreatedAt: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].CreatedAt.Equal(refs[j].CreatedAt) {
			return refs[i].CreatedAt.After(refs[j].CreatedAt)
		}
		return refs[i].ID < refs[j].ID
	})
	return refs, nil
}

// FetchContent reads the asset's bytes. A directory library has no separate
// preview rendition, so both tiers return the original file contents.
func (d *Dir) FetchContent(ctx context.Context, ref AssetRef, tier Tier) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.assetPath(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref.ID, err)
	}
	return data, nil
}

// DeleteAssets removes the given assets all-or-nothing. Files are first
// staged into a hidden trash directory via rename; a failure mid-batch
// moves the already-staged files back before reporting the error.
func (d *Dir) DeleteAssets(ctx context.Context, refs []AssetRef) error {
	if len(refs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	trash, err := os.MkdirTemp(d.root, ".photodup-trash-")
	if err != nil {
		return fmt.Errorf("create trash directory: %w", err)
	}

	type staged struct {
		original string
		parked   string
	}
	parked := make([]staged, 0, len(refs))
	rollback := func() {
		for i := len(parked) - 1; i >= 0; i-- {
			_ = os.Rename(parked[i].parked, parked[i].original)
		}
		_ = os.RemoveAll(trash)
	}

	for i, ref := range refs {
		path, err := d.assetPath(ref)
		if err != nil {
			rollback()
			return err
		}
		dest := filepath.Join(trash, fmt.Sprintf("%d-%s", i, filepath.Base(ref.ID)))
		if err := os.Rename(path, dest); err != nil {
			rollback()
			return fmt.Errorf("delete %s: %w", ref.ID, err)
		}
		parked = append(parked, staged{original: path, parked: dest})
	}

	if err := os.RemoveAll(trash); err != nil {
		// The assets are already unreachable via their original paths, so
		// the batch counts as deleted; the leftover trash directory is
		// skipped by ListAssets.
		return fmt.Errorf("clear trash directory: %w", err)
	}
	return nil
}

func (d *Dir) assetPath(ref AssetRef) (string, error) {
	if ref.ID == "" || !filepath.IsLocal(ref.ID) {
		return "", fmt.Errorf("invalid asset id %q", ref.ID)
	}
	return filepath.Join(d.root, ref.ID), nil
}
