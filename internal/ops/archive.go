package ops

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrExists = errors.New("save file already exists")

// IsSaveFile reports whether name, a bare file name in the data dir, belongs
// to a save: the JSON save, the SQLite database with its journals, or a save
// moved aside as a backup. Logs and in-flight temp files are not.
func IsSaveFile(name string) bool {
	switch name {
	case "save.json", "save.db", "save.db-wal", "save.db-shm":
		return true
	}
	return strings.HasPrefix(name, "save.json.bak-")
}

// BackupSaves writes every save file in dataDir to a gzipped tar at
// archivePath and returns the archived names in order.
func BackupSaves(dataDir, archivePath string) ([]string, error) {
	dataDir, archivePath = strings.TrimSpace(dataDir), strings.TrimSpace(archivePath)
	if dataDir == "" || archivePath == "" {
		return nil, fmt.Errorf("data dir and archive path are required")
	}
	dataDir, archivePath = filepath.Clean(dataDir), filepath.Clean(archivePath)
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, d := range entries {
		if d.Type().IsRegular() && IsSaveFile(d.Name()) {
			names = append(names, d.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no save files in %s", dataDir)
	}
	sort.Strings(names)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, name := range names {
		if err := addFile(tw, filepath.Join(dataDir, name), name); err != nil {
			return nil, fmt.Errorf("archive %s: %w", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return names, f.Close()
}

func addFile(tw *tar.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, src)
	return err
}

// RestoreSaves unpacks a BackupSaves archive into dataDir. Existing save
// files are left alone and reported as ErrExists unless overwrite is set.
func RestoreSaves(archivePath, dataDir string, overwrite bool) ([]string, error) {
	archivePath, dataDir = strings.TrimSpace(archivePath), strings.TrimSpace(dataDir)
	if archivePath == "" || dataDir == "" {
		return nil, fmt.Errorf("archive path and data dir are required")
	}
	archivePath, dataDir = filepath.Clean(archivePath), filepath.Clean(dataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var restored []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return restored, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name, err := sanitizeEntryName(hdr.Name)
		if err != nil {
			return restored, err
		}

		outPath := filepath.Join(dataDir, name)
		flags := os.O_CREATE | os.O_WRONLY | os.O_EXCL
		if overwrite {
			flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		}
		dst, err := os.OpenFile(outPath, flags, 0o644)
		if err != nil {
			if os.IsExist(err) {
				return restored, fmt.Errorf("%w: %s", ErrExists, name)
			}
			return restored, err
		}
		if _, err := io.Copy(dst, tr); err != nil {
			_ = dst.Close()
			return restored, err
		}
		if err := dst.Close(); err != nil {
			return restored, err
		}
		restored = append(restored, name)
	}
	return restored, nil
}

// sanitizeEntryName accepts only bare save file names.
func sanitizeEntryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == ".." {
		return "", fmt.Errorf("invalid archive entry path: %q", name)
	}
	if !IsSaveFile(name) {
		return "", fmt.Errorf("archive entry is not a save file: %q", name)
	}
	return name, nil
}
