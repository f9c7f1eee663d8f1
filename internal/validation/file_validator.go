package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"salesinsight/internal/dataprocessing"
	"salesinsight/internal/errors"
)

// FileValidator checks input files and the output directory before a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory validates that the data directory exists
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return errors.NewNotFoundError(fmt.Sprintf("input directory %s", dir))
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return errors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir))
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Info("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return errors.NewNotFoundError(fmt.Sprintf("file %s", path))
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return errors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateSourceFile checks that path is a readable delimited text file or
// Excel workbook
func (v *FileValidator) ValidateSourceFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".tsv", ".txt", ".xlsx", ".xlsm":
	default:
		v.logger.Error("Unsupported source format",
			slog.String("file", path),
			slog.String("extension", ext))
		return errors.NewAppValidationError(fmt.Sprintf("file %s has an unsupported format (extension: %s)", path, ext))
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return errors.NewAppValidationError(fmt.Sprintf("file %s is a temporary Excel file", path))
	}
	return nil
}

// ValidateSources checks all three dataset files and reports the first
// failure
func (v *FileValidator) ValidateSources(src dataprocessing.Sources) error {
	for _, s := range []struct{ dataset, path string }{
		{"sales", src.Sales},
		{"product groups", src.ProductGroups},
		{"website access", src.WebsiteAccess},
	} {
		if s.path == "" {
			return errors.NewAppValidationError(fmt.Sprintf("no file given for %s", s.dataset))
		}
		if err := v.ValidateSourceFile(s.path); err != nil {
			return fmt.Errorf("%s: %w", s.dataset, err)
		}
	}
	v.logger.Info("Input datasets validated",
		slog.String("sales", src.Sales),
		slog.String("product_groups", src.ProductGroups),
		slog.String("website_access", src.WebsiteAccess))
	return nil
}
