package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"salesinsight/internal/config"
	"salesinsight/internal/dataprocessing"
	"salesinsight/internal/errors"
)

// SupportedExtensions lists the readable source formats in lookup order.
// When a dataset exists in several formats the earlier extension wins.
var SupportedExtensions = []string{".csv", ".tsv", ".txt", ".xlsx", ".xlsm"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates the source datasets in a data directory
type Discovery struct {
	dataDir string
	logger  *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(dataDir string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{dataDir: dataDir, logger: logger.With("component", "discovery")}
}

// FindDataFiles lists the readable tabular files in the data directory,
// oldest first. Excel lock files (~$name.xlsx) are ignored.
func (d *Discovery) FindDataFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.dataDir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") || !IsSupported(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(d.dataDir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// Locate returns the file holding dataset, matched on the base name without
// extension (case-insensitive)
func (d *Discovery) Locate(dataset string) (FileInfo, error) {
	files, err := d.FindDataFiles()
	if err != nil {
		return FileInfo{}, errors.NewStorageError("cannot list data directory", err)
	}

	var candidates []FileInfo
	for _, f := range files {
		base := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
		if strings.EqualFold(base, dataset) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return FileInfo{}, errors.NewNotFoundError(fmt.Sprintf("dataset %s in %s", dataset, d.dataDir))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return extensionRank(candidates[i].Name) < extensionRank(candidates[j].Name)
	})
	if len(candidates) > 1 {
		d.logger.Warn("Dataset found in several formats",
			slog.String("dataset", dataset),
			slog.String("selected", candidates[0].Name),
			slog.Int("candidates", len(candidates)))
	}
	return candidates[0], nil
}

// ResolveSources fills the dataset paths from paths. Explicit files are used
// as given; the rest are located in the data directory.
func ResolveSources(paths *config.Paths, logger *slog.Logger) (dataprocessing.Sources, error) {
	d := NewDiscovery(paths.DataDir, logger)

	pick := func(explicit, dataset string) (string, error) {
		if explicit != "" {
			return explicit, nil
		}
		if paths.DataDir == "" {
			return "", errors.NewConfigError(fmt.Sprintf("no path for %s and no data directory", dataset), nil)
		}
		f, err := d.Locate(dataset)
		if err != nil {
			return "", err
		}
		return f.Path, nil
	}

	var src dataprocessing.Sources
	var err error
	if src.Sales, err = pick(paths.SalesFile, config.SalesDataset); err != nil {
		return src, err
	}
	if src.ProductGroups, err = pick(paths.ProductGroupFile, config.ProductGroupDataset); err != nil {
		return src, err
	}
	if src.WebsiteAccess, err = pick(paths.WebsiteAccessFile, config.WebsiteAccessDataset); err != nil {
		return src, err
	}

	d.logger.Info("Input datasets resolved",
		slog.String("sales", src.Sales),
		slog.String("product_groups", src.ProductGroups),
		slog.String("website_access", src.WebsiteAccess))
	return src, nil
}

// IsSupported reports whether name has a readable extension
func IsSupported(name string) bool {
	return extensionRank(name) < len(SupportedExtensions)
}

func extensionRank(name string) int {
	ext := strings.ToLower(filepath.Ext(name))
	for i, e := range SupportedExtensions {
		if e == ext {
			return i
		}
	}
	return len(SupportedExtensions)
}
