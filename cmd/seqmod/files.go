package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/FocuswithJustin/seqmod/core/cas"
	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/core/idset"
	"github.com/FocuswithJustin/seqmod/core/seqtree"
	"github.com/FocuswithJustin/seqmod/internal/logging"
	"github.com/FocuswithJustin/seqmod/internal/validation"
)

// Injectable functions for testing.
var (
	writeFile = func(path string, r io.Reader) error { return atomic.WriteFile(path, r) }
	readFile  = os.ReadFile
)

// snapshotDirName is created next to an input file that is rewritten in
// place when no snapshot_dir is configured.
const snapshotDirName = ".seqmod"

// load reads a FASTA file and captures its titles.
func load(path string) (*seqtree.Tree, *idset.Set, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, nil, errors.NewValidation("file", err.Error())
	}
	tree, err := seqtree.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return tree, idset.FromTree(tree), nil
}

// save writes set back onto tree and the tree to out, or over in when out
// is empty. Overwriting in stores a snapshot of the previous content
// first.
func (rt *runtime) save(tree *seqtree.Tree, set *idset.Set, in, out string) error {
	if err := set.ApplyTo(tree); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := seqtree.Write(&buf, tree); err != nil {
		return errors.NewIO("render", out, err)
	}

	if out == "" {
		out = in
	}
	if err := validation.ValidatePath(out); err != nil {
		return errors.NewValidation("output", err.Error())
	}
	if samePath(in, out) {
		hash, err := rt.snapshot(in)
		if err != nil {
			return err
		}
		fmt.Fprintf(rt.out, "snapshot %s (seqmod restore %s %s)\n", hash, in, hash)
	}

	if err := writeFile(out, &buf); err != nil {
		return errors.NewIO("write", out, err)
	}
	logging.InfoContext(rt.ctx, "titles written", "path", out, "sequences", set.Len())
	return nil
}

// snapshotStore opens the snapshot store used for path.
func (rt *runtime) snapshotStore(path string) (*cas.Store, string, error) {
	dir := rt.cfg.SnapshotDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(path), snapshotDirName)
	}
	store, err := cas.NewStore(dir)
	if err != nil {
		return nil, "", err
	}
	return store, dir, nil
}

// snapshot stores the current content of path and returns its hash.
func (rt *runtime) snapshot(path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", errors.NewIO("read", path, err)
	}
	store, dir, err := rt.snapshotStore(path)
	if err != nil {
		return "", err
	}
	hash, err := store.Store(data)
	if err != nil {
		return "", err
	}
	logging.InfoContext(rt.ctx, "snapshot stored", "path", path, "blake3", hash, "store", dir)
	return hash, nil
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && aa == bb
}
