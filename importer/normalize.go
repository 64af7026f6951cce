package importer

import (
	"regexp"
	"strings"
)

// ImageExtensions are the file extensions the upload layer accepts, in the
// order they are tried when a reference comes without one.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// spaceClass is the body of a character class matching whitespace as
// spreadsheet cells carry it: ASCII whitespace, non-breaking and other
// Unicode separators, and the byte order mark.
const spaceClass = `\s\v\p{Z}\x{FEFF}`

var (
	whitespaceRun     = regexp.MustCompile(`[` + spaceClass + `]+`)
	nonCategoryChars  = regexp.MustCompile(`[^a-z0-9` + spaceClass + `]`)
	imageExtSuffix    = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp|gif)$`)
	filenameSeparator = regexp.MustCompile(`[` + spaceClass + `_\-]+`)
	nonAlnumSpace     = regexp.MustCompile(`[^a-z0-9 ]`)
)

// NormalizeCategoryName folds spelling variants such as "Fasteners & Screws"
// and "fasteners and screws" onto one key.
func NormalizeCategoryName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "&", "and")
	s = nonCategoryChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FileForms holds every surface form of a file reference that the image
// matcher tries.
type FileForms struct {
	Lower   string
	NoExt   string
	Spaces  string
	Alnum   string
	Compact string
	Slug    string
}

// All returns the forms in matching order.
func (f FileForms) All() []string {
	return []string{f.Lower, f.NoExt, f.Spaces, f.Alnum, f.Compact, f.Slug}
}

// NormalizeFileReference reduces a file name or path to its last segment and
// derives the matching forms from it.
func NormalizeFileReference(ref string) FileForms {
	if ref == "" {
		return FileForms{}
	}
	base := ref
	if i := strings.LastIndexAny(ref, `/\`); i >= 0 {
		base = ref[i+1:]
	}

	lower := strings.TrimSpace(strings.ToLower(base))
	noExt := imageExtSuffix.ReplaceAllString(lower, "")
	spaces := strings.TrimSpace(filenameSeparator.ReplaceAllString(noExt, " "))
	alnum := strings.TrimSpace(nonAlnumSpace.ReplaceAllString(spaces, ""))

	return FileForms{
		Lower:   lower,
		NoExt:   noExt,
		Spaces:  spaces,
		Alnum:   alnum,
		Compact: whitespaceRun.ReplaceAllString(alnum, ""),
		Slug:    whitespaceRun.ReplaceAllString(alnum, "-"),
	}
}

// HasImageExtension reports whether ref ends in one of ImageExtensions,
// ignoring case.
func HasImageExtension(ref string) bool {
	return imageExtSuffix.MatchString(ref)
}
