package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// FileFormat represents the kinds of files a source and its cache hold
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatParadigm            // "surface base(Type)+rule" tables
	FormatRoots               // paradigms.yaml root definitions
	FormatWordList            // "word [freq]" supplemental lists
	FormatCache               // msgpack lexicon cache
)

// FormatInfo contains metadata about a file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatParadigm: {
		Format:      FormatParadigm,
		Description: "Paradigm table",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
	FormatRoots: {
		Format:      FormatRoots,
		Description: "Root definitions",
		Extensions:  []string{".yaml", ".yml"},
		MinSize:     1,
	},
	FormatWordList: {
		Format:      FormatWordList,
		Description: "Supplemental word list",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
	FormatCache: {
		Format:      FormatCache,
		Description: "Lexicon cache",
		Extensions:  []string{".msgpack", ".cache"},
		MinSize:     8,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	switch expectedFormat {
	case FormatCache:
		return validateCacheFormat(filename)
	case FormatParadigm:
		return validateParadigmFormat(filename)
	}
	return nil
}

// validateCacheFormat decodes the header fields of a cache file
func validateCacheFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var header struct {
		Version int    `msgpack:"v"`
		Key     string `msgpack:"k"`
	}
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&header); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if header.Version != cacheVersion {
		return fmt.Errorf("cache %s has version %d, want %d", filename, header.Version, cacheVersion)
	}

	log.Debugf("Cache file %s validated (%s)", filename, header.Key)
	return nil
}

// validateParadigmFormat checks that the first data line has a base(Type) column
func validateParadigmFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil
		}
		if _, _, ok := splitRuleColumn(fields[1]); !ok {
			return fmt.Errorf("%s: second column %q has no base(Type)", filename, fields[1])
		}
		return nil
	}
	return scanner.Err()
}

// DetectFileFormat infers the format of a file from its name and location
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	base := filepath.Base(filename)
	parent := filepath.Base(filepath.Dir(filename))

	candidates := []FileFormat{}
	switch {
	case base == rootsFile || ext == ".yaml" || ext == ".yml":
		candidates = append(candidates, FormatRoots)
	case ext == ".msgpack" || ext == ".cache":
		candidates = append(candidates, FormatCache)
	case ext == ".txt" && parent == wordsDir:
		candidates = append(candidates, FormatWordList)
	case ext == ".txt":
		candidates = append(candidates, FormatParadigm, FormatWordList)
	}

	for _, f := range candidates {
		if err := ValidateFileFormat(filename, f); err == nil {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats in declaration order
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].Format < formats[j].Format })
	return formats
}
