package main

import (
	"bufio"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phanxgames/nxview"
	"github.com/phanxgames/nxview/nx"
	"github.com/spf13/cobra"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack SRCDIR OUT.nx",
		Short: "Pack a directory tree into an NX archive",
		Long: `Pack walks SRCDIR and writes it as an NX archive. Directories become
containers, .png files become bitmaps, .txt files become strings, and
.mp3/.wav/.ogg files become audio nodes. Extensions are dropped from node
names. Other files are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := packDir(args[0])
			if err != nil {
				return err
			}
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			w := bufio.NewWriter(f)
			if err := nx.Write(w, root); err != nil {
				f.Close()
				return err
			}
			if err := w.Flush(); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
}

// packFrame is one directory pending on the pack work stack.
type packFrame struct {
	dir  string
	node *nxview.MemNode
}

// packDir builds an in-memory tree mirroring dir. Bitmaps are decoded when
// the archive is written.
func packDir(dir string) (*nxview.MemNode, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pack: %s is not a directory", dir)
	}

	root := nxview.NewContainer("")
	stack := []packFrame{{dir: dir, node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(top.dir)
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			path := filepath.Join(top.dir, e.Name())
			child, err := packEntry(path, e.IsDir())
			if err != nil {
				return nil, err
			}
			if child == nil {
				continue
			}
			if _, dup := top.node.Child(child.Name()); dup {
				return nil, fmt.Errorf("pack: %s: duplicate node name %q", top.dir, child.Name())
			}
			top.node.AddChild(child)
			if e.IsDir() {
				stack = append(stack, packFrame{dir: path, node: child})
			}
		}
	}
	return root, nil
}

// packEntry converts one directory entry, or returns nil to skip it.
func packEntry(path string, isDir bool) (*nxview.MemNode, error) {
	base := filepath.Base(path)
	if isDir {
		return nxview.NewContainer(base), nil
	}
	ext := strings.ToLower(filepath.Ext(base))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	switch ext {
	case ".png":
		return nxview.NewLazyBitmap(name, func() (nxview.Bitmap, error) {
			return decodePNG(path)
		}), nil
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return nxview.NewString(name, strings.TrimRight(string(data), "\r\n")), nil
	case ".mp3", ".wav", ".ogg":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return nxview.NewAudio(name, data), nil
	}
	return nil, nil
}

func decodePNG(path string) (nxview.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nxview.Bitmap{}, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nxview.Bitmap{}, fmt.Errorf("pack: decode %s: %w", path, err)
	}
	return nxview.BitmapFromImage(img), nil
}
